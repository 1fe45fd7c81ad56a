// Package storage persists finished runs, one directory per run:
// metadata.json, field.csv (time x node temperatures) and series.csv
// (per-step top/bottom temperature, wall loss and mode).
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/tank"
)

type Store struct {
	baseDir string
	log     zerolog.Logger
}

func New(baseDir string, log zerolog.Logger) *Store {
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Nodes     int                `json:"nodes"`
	Height    float64            `json:"height"`
	Volume    float64            `json:"volume"`
	Dt        float64            `json:"dt"`
	Horizon   float64            `json:"horizon"`
	Steps     int                `json:"steps"`
	ElapsedS  float64            `json:"elapsed_s"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a finished run and returns its id.
func (s *Store) Save(scenario string, cfg *tank.Config, run solver.Run, res *solver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Nodes:     cfg.Nodes,
		Height:    cfg.Height,
		Volume:    cfg.Volume,
		Dt:        run.Dt,
		Horizon:   run.Horizon,
		Steps:     res.StepsTaken,
		ElapsedS:  res.Elapsed.Seconds(),
		Metrics:   res.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeField(runDir, res); err != nil {
		return "", err
	}
	if err := s.writeSeries(runDir, res); err != nil {
		return "", err
	}

	s.log.Info().
		Str("run", runID).
		Int("steps", res.StepsTaken).
		Dur("elapsed", res.Elapsed).
		Msg("run saved")

	return runID, nil
}

func (s *Store) writeField(runDir string, res *solver.Result) error {
	file, err := os.Create(filepath.Join(runDir, "field.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(res.Field) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range res.Field[0] {
		header = append(header, fmt.Sprintf("node%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range res.Field {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(res.Times[i], 'f', 6, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeSeries(runDir string, res *solver.Result) error {
	file, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "top", "bottom", "heat_loss", "mode"}); err != nil {
		return err
	}

	// HeatLoss and Modes are per accepted step; row i covers the step
	// ending at Times[i+1].
	for i := 0; i < len(res.HeatLoss); i++ {
		rec := []string{
			strconv.FormatFloat(res.Times[i+1], 'f', 6, 64),
			strconv.FormatFloat(res.Top[i+1], 'f', 6, 64),
			strconv.FormatFloat(res.Bottom[i+1], 'f', 6, 64),
			strconv.FormatFloat(res.HeatLoss[i], 'f', 6, 64),
			res.Modes[i].String(),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			s.log.Warn().Str("run", entry.Name()).Err(err).Msg("skipping unreadable metadata")
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadField reads back the stored temperature field.
func (s *Store) LoadField(runID string) ([]float64, []tank.Profile, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []tank.Profile{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	field := make([]tank.Profile, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("run %s: bad time value %q", runID, rec[0])
		}
		row := make(tank.Profile, 0, len(rec)-1)
		for _, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s: bad temperature %q", runID, cell)
			}
			row = append(row, v)
		}
		times = append(times, t)
		field = append(field, row)
	}
	return times, field, nil
}
