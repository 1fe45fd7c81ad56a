package tank

import (
	"errors"
	"math"
	"testing"
)

func TestModeOf(t *testing.T) {
	tests := []struct {
		mflow float64
		want  Mode
	}{
		{0.1, Charging},
		{1e-12, Charging},
		{0, Idle},
		{-1e-12, Discharging},
		{-0.5, Discharging},
	}
	for _, tt := range tests {
		if got := ModeOf(tt.mflow); got != tt.want {
			t.Errorf("ModeOf(%g) = %v, want %v", tt.mflow, got, tt.want)
		}
	}
}

func TestConstantSchedule(t *testing.T) {
	c := Constant{MFlow: 0.1, TInlet: 60, TAmbient: 20}
	for _, at := range []float64{0, 100, 1e6} {
		b := c.At(at)
		if b.MFlow != 0.1 || b.TInlet != 60 || b.TAmbient != 20 {
			t.Errorf("At(%g) = %+v", at, b)
		}
	}
}

func TestSeriesSchedule(t *testing.T) {
	s, err := NewSeries(60,
		[]float64{0.1, 0, -0.1},
		[]float64{60, 60, 10},
		[]float64{20, 20, 20},
	)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}

	if b := s.At(0); b.MFlow != 0.1 {
		t.Errorf("At(0).MFlow = %g, want 0.1", b.MFlow)
	}
	if b := s.At(59.9); b.MFlow != 0.1 {
		t.Errorf("At(59.9).MFlow = %g, want 0.1", b.MFlow)
	}
	if b := s.At(60); b.MFlow != 0 {
		t.Errorf("At(60).MFlow = %g, want 0", b.MFlow)
	}
	if b := s.At(150); b.MFlow != -0.1 || b.TInlet != 10 {
		t.Errorf("At(150) = %+v", b)
	}
	// held past the end
	if b := s.At(1e6); b.MFlow != -0.1 {
		t.Errorf("At(1e6).MFlow = %g, want -0.1", b.MFlow)
	}
}

func TestSeriesValidation(t *testing.T) {
	if _, err := NewSeries(0, []float64{1}, []float64{1}, []float64{1}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero interval: err = %v, want ErrValidation", err)
	}
	if _, err := NewSeries(60, nil, nil, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty series: err = %v, want ErrValidation", err)
	}
	if _, err := NewSeries(60, []float64{1, 2}, []float64{1}, []float64{1, 2}); !errors.Is(err, ErrValidation) {
		t.Errorf("length mismatch: err = %v, want ErrValidation", err)
	}
}

func TestSegmentsSchedule(t *testing.T) {
	s := Segments{
		{Duration: 1800, MFlow: 0.12, TInlet: 60, TAmbient: 20},
		{Duration: 900, MFlow: 0, TAmbient: 20},
		{Duration: 4500, MFlow: -0.06, TInlet: 10, TAmbient: 20},
	}

	if got := s.Horizon(); got != 7200 {
		t.Errorf("Horizon = %g, want 7200", got)
	}
	if b := s.At(0); b.MFlow != 0.12 {
		t.Errorf("At(0).MFlow = %g", b.MFlow)
	}
	if b := s.At(1800); b.MFlow != 0 {
		t.Errorf("At(1800).MFlow = %g, want 0", b.MFlow)
	}
	if b := s.At(2700); b.MFlow != -0.06 {
		t.Errorf("At(2700).MFlow = %g, want -0.06", b.MFlow)
	}
	// last segment held past the horizon
	if b := s.At(10000); b.MFlow != -0.06 {
		t.Errorf("At(10000).MFlow = %g, want -0.06", b.MFlow)
	}
}

func TestProfileHelpers(t *testing.T) {
	p := Linear(5, 20, 60)
	if p[0] != 20 || p[4] != 60 {
		t.Errorf("Linear endpoints = (%g,%g)", p[0], p[4])
	}
	if p[2] != 40 {
		t.Errorf("Linear midpoint = %g, want 40", p[2])
	}
	if got := p.Mean(); got != 40 {
		t.Errorf("Mean = %g, want 40", got)
	}
	if p.Min() != 20 || p.Max() != 60 {
		t.Errorf("Min/Max = (%g,%g)", p.Min(), p.Max())
	}

	u := Uniform(3, 50)
	for i, v := range u {
		if v != 50 {
			t.Errorf("Uniform[%d] = %g", i, v)
		}
	}

	c := p.Clone()
	c[0] = -1
	if p[0] != 20 {
		t.Error("Clone shares backing array")
	}

	if !p.IsFinite() {
		t.Error("finite profile reported non-finite")
	}
	bad := Profile{1, math.NaN(), 3}
	if bad.IsFinite() {
		t.Error("non-finite profile reported finite")
	}
}
