package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/tank"
)

func testRun(t *testing.T) (*tank.Config, solver.Run, *solver.Result) {
	t.Helper()
	cfg, err := tank.NewConfig(tank.Params{
		Nodes:  5,
		Height: 1.0,
		Volume: 0.001,
		Rho:    1000,
		Cp:     4000,
		UALoss: 5,
	})
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	run := solver.Run{Horizon: 10, Dt: 1}
	sched := tank.Constant{MFlow: 0.02, TInlet: 60, TAmbient: 20}
	res, err := solver.New(cfg).Run(context.Background(), sched, tank.Uniform(cfg.Nodes, 20), run)
	if err != nil {
		t.Fatalf("solver run failed: %v", err)
	}
	return cfg, run, res
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir(), zerolog.Nop())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	cfg, run, res := testRun(t)
	s := newTestStore(t)

	runID, err := s.Save("unit", cfg, run, res)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "unit_") {
		t.Errorf("run id %q does not carry the scenario name", runID)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if meta.ID != runID || meta.Scenario != "unit" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Nodes != cfg.Nodes || meta.Steps != res.StepsTaken {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Horizon != run.Horizon || meta.Dt != run.Dt {
		t.Errorf("metadata run params = %+v", meta)
	}
}

func TestLoadFieldRoundTrip(t *testing.T) {
	cfg, run, res := testRun(t)
	s := newTestStore(t)

	runID, err := s.Save("unit", cfg, run, res)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	times, field, err := s.LoadField(runID)
	if err != nil {
		t.Fatalf("LoadField failed: %v", err)
	}
	if len(times) != len(res.Times) || len(field) != len(res.Field) {
		t.Fatalf("rows = (%d,%d), want (%d,%d)", len(times), len(field), len(res.Times), len(res.Field))
	}
	// values survive the 6-decimal fixed format
	for i := range field {
		if math.Abs(times[i]-res.Times[i]) > 1e-6 {
			t.Fatalf("row %d: time %g, want %g", i, times[i], res.Times[i])
		}
		for j := range field[i] {
			if math.Abs(field[i][j]-res.Field[i][j]) > 1e-6 {
				t.Fatalf("row %d node %d: %g, want %g", i, j, field[i][j], res.Field[i][j])
			}
		}
	}
}

func TestSeriesFile(t *testing.T) {
	cfg, run, res := testRun(t)
	s := newTestStore(t)

	runID, err := s.Save("unit", cfg, run, res)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		t.Fatalf("series.csv missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,top,bottom,heat_loss,mode" {
		t.Errorf("header = %q", lines[0])
	}
	// one row per accepted step, none for the initial state
	if got, want := len(lines)-1, res.StepsTaken; got != want {
		t.Errorf("series rows = %d, want %d", got, want)
	}
	if !strings.HasSuffix(lines[1], ",charging") {
		t.Errorf("first row mode: %q", lines[1])
	}
}

func TestList(t *testing.T) {
	cfg, run, res := testRun(t)
	s := newTestStore(t)

	if runs, err := s.List(); err != nil || len(runs) != 0 {
		t.Fatalf("empty store: runs=%v err=%v", runs, err)
	}

	if _, err := s.Save("first", cfg, run, res); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.Save("second", cfg, run, res); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}

	// corrupt metadata is skipped, not fatal
	bad := filepath.Join(s.baseDir, "broken_run")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "metadata.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	runs, err = s.List()
	if err != nil {
		t.Fatalf("List with corrupt entry failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("runs = %d, want 2 (corrupt entry skipped)", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"), zerolog.Nop())
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %v, want empty", runs)
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("no-such-run"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, _, err := s.LoadField("no-such-run"); err == nil {
		t.Error("expected error for unknown run")
	}
}
