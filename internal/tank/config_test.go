package tank

import (
	"errors"
	"math"
	"testing"
)

func validParams() Params {
	return Params{
		Nodes:  10,
		Height: 2.0,
		Volume: 1.0,
		Rho:    997,
		Cp:     4180,
		UALoss: 5,
		KCond:  0.1,
	}
}

func TestNewConfigDerived(t *testing.T) {
	cfg, err := NewConfig(validParams())
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	if got, want := cfg.Dz, 0.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("Dz = %g, want %g", got, want)
	}
	if got, want := cfg.Area, 0.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("Area = %g, want %g", got, want)
	}
	if got, want := cfg.NodeMass, 99.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("NodeMass = %g, want %g", got, want)
	}
	if got, want := cfg.UANode, 0.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("UANode = %g, want %g", got, want)
	}
	if got, want := cfg.GCond, 0.1*0.5/0.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("GCond = %g, want %g", got, want)
	}

	// defaults
	if cfg.HotPort != 9 || cfg.ColdPort != 0 {
		t.Errorf("ports = (%d,%d), want (9,0)", cfg.HotPort, cfg.ColdPort)
	}
	if cfg.CourantMax != DefaultCourantMax || cfg.DiffusionMax != DefaultDiffusionMax {
		t.Errorf("margins = (%g,%g), want defaults", cfg.CourantMax, cfg.DiffusionMax)
	}
	if cfg.MinDt != DefaultMinDt {
		t.Errorf("MinDt = %g, want %g", cfg.MinDt, DefaultMinDt)
	}
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"one node", func(p *Params) { p.Nodes = 1 }},
		{"zero nodes", func(p *Params) { p.Nodes = 0 }},
		{"zero height", func(p *Params) { p.Height = 0 }},
		{"negative volume", func(p *Params) { p.Volume = -1 }},
		{"zero rho", func(p *Params) { p.Rho = 0 }},
		{"zero cp", func(p *Params) { p.Cp = 0 }},
		{"negative loss", func(p *Params) { p.UALoss = -1 }},
		{"negative conduction", func(p *Params) { p.KCond = -0.5 }},
		{"hot port out of range", func(p *Params) { p.HotPort = 10 }},
		{"cold port out of range", func(p *Params) { p.HotPort = 9; p.ColdPort = -3 }},
		{"coincident ports", func(p *Params) { p.HotPort = 4; p.ColdPort = 4 }},
		{"courant above one", func(p *Params) { p.CourantMax = 1.5 }},
		{"negative diffusion margin", func(p *Params) { p.DiffusionMax = -0.1 }},
		{"negative min dt", func(p *Params) { p.MinDt = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := NewConfig(p)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("error %v does not wrap ErrConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("error %v is not a *ConfigError", err)
			}
		})
	}
}

func TestNewConfigMinimumNodes(t *testing.T) {
	p := validParams()
	p.Nodes = 2
	cfg, err := NewConfig(p)
	if err != nil {
		t.Fatalf("two nodes should be valid: %v", err)
	}
	if cfg.HotPort != 1 || cfg.ColdPort != 0 {
		t.Errorf("ports = (%d,%d), want (1,0)", cfg.HotPort, cfg.ColdPort)
	}
}

func TestNewConfigTopNode(t *testing.T) {
	p := validParams()
	p.HotPort = 2
	p.ColdPort = TopNode
	cfg, err := NewConfig(p)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	if cfg.ColdPort != 9 {
		t.Errorf("ColdPort = %d, want 9", cfg.ColdPort)
	}
	if cfg.HotPort != 2 {
		t.Errorf("HotPort = %d, want 2", cfg.HotPort)
	}
}
