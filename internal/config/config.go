// Package config loads and saves simulation scenarios: the tank
// description, numerical parameters, initial profile and the phase
// schedule, in one yaml document. Named presets cover the canonical
// operating sequences.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/tank"
)

const (
	DefaultNodes   = 20
	DefaultHeight  = 2.0    // m
	DefaultVolume  = 1.0    // m^3
	DefaultRho     = 997.0  // kg/m^3
	DefaultCp      = 4180.0 // J/(kg K)
	DefaultDt      = 60.0   // s
	DefaultAmbient = 20.0   // degC
)

// Scenario describes a full simulation run.
type Scenario struct {
	Name     string     `yaml:"name"`
	Tank     TankParams `yaml:"tank"`
	Numerics Numerics   `yaml:"numerics"`
	Initial  Initial    `yaml:"initial"`
	Ambient  float64    `yaml:"ambient"`
	Phases   []Phase    `yaml:"phases"`
}

type TankParams struct {
	Nodes    int     `yaml:"nodes"`
	Height   float64 `yaml:"height"`
	Volume   float64 `yaml:"volume"`
	Rho      float64 `yaml:"rho"`
	Cp       float64 `yaml:"cp"`
	UALoss   float64 `yaml:"ua_loss"`
	KCond    float64 `yaml:"k_cond"`
	HotPort  int     `yaml:"hot_port"`
	ColdPort int     `yaml:"cold_port"`
}

type Numerics struct {
	Dt           float64 `yaml:"dt"`
	Horizon      float64 `yaml:"horizon"` // 0 = sum of phase durations
	CourantMax   float64 `yaml:"courant_max"`
	DiffusionMax float64 `yaml:"diffusion_max"`
	MinDt        float64 `yaml:"min_dt"`
}

// Initial selects the starting profile: a uniform temperature or a linear
// bottom-to-top ramp.
type Initial struct {
	Kind    string  `yaml:"kind"` // "uniform" or "linear"
	Uniform float64 `yaml:"uniform"`
	Bottom  float64 `yaml:"bottom"`
	Top     float64 `yaml:"top"`
}

// Phase is one leg of the operating sequence. A positive flow charges, a
// negative flow discharges, zero idles.
type Phase struct {
	Duration float64 `yaml:"duration"` // s
	MFlow    float64 `yaml:"mflow"`    // kg/s
	TInlet   float64 `yaml:"tinlet"`
}

// Default returns a scenario with the standard test tank and no phases.
func Default() *Scenario {
	return &Scenario{
		Name: "default",
		Tank: TankParams{
			Nodes:  DefaultNodes,
			Height: DefaultHeight,
			Volume: DefaultVolume,
			Rho:    DefaultRho,
			Cp:     DefaultCp,
		},
		Numerics: Numerics{Dt: DefaultDt},
		Initial:  Initial{Kind: "uniform", Uniform: DefaultAmbient},
		Ambient:  DefaultAmbient,
	}
}

// Load reads a scenario file, applying defaults for omitted fields.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := Default()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Save writes a scenario file.
func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Config builds the validated tank configuration.
func (sc *Scenario) Config() (*tank.Config, error) {
	return tank.NewConfig(tank.Params{
		Nodes:        sc.Tank.Nodes,
		Height:       sc.Tank.Height,
		Volume:       sc.Tank.Volume,
		Rho:          sc.Tank.Rho,
		Cp:           sc.Tank.Cp,
		UALoss:       sc.Tank.UALoss,
		KCond:        sc.Tank.KCond,
		HotPort:      sc.Tank.HotPort,
		ColdPort:     sc.Tank.ColdPort,
		CourantMax:   sc.Numerics.CourantMax,
		DiffusionMax: sc.Numerics.DiffusionMax,
		MinDt:        sc.Numerics.MinDt,
	})
}

// Schedule builds the piecewise boundary schedule from the phases, all at
// the scenario's ambient temperature.
func (sc *Scenario) Schedule() (tank.Segments, error) {
	if len(sc.Phases) == 0 {
		return nil, fmt.Errorf("scenario %q has no phases", sc.Name)
	}
	segs := make(tank.Segments, 0, len(sc.Phases))
	for i, ph := range sc.Phases {
		if ph.Duration <= 0 {
			return nil, fmt.Errorf("phase %d: duration must be > 0, got %g", i, ph.Duration)
		}
		segs = append(segs, tank.Segment{
			Duration: ph.Duration,
			MFlow:    ph.MFlow,
			TInlet:   ph.TInlet,
			TAmbient: sc.Ambient,
		})
	}
	return segs, nil
}

// Profile builds the initial temperature profile.
func (sc *Scenario) Profile() (tank.Profile, error) {
	switch sc.Initial.Kind {
	case "", "uniform":
		return tank.Uniform(sc.Tank.Nodes, sc.Initial.Uniform), nil
	case "linear":
		return tank.Linear(sc.Tank.Nodes, sc.Initial.Bottom, sc.Initial.Top), nil
	default:
		return nil, fmt.Errorf("unknown initial profile kind %q", sc.Initial.Kind)
	}
}

// Run builds the solver run parameters. The horizon defaults to the sum
// of the phase durations.
func (sc *Scenario) Run() solver.Run {
	horizon := sc.Numerics.Horizon
	if horizon == 0 {
		for _, ph := range sc.Phases {
			horizon += ph.Duration
		}
	}
	return solver.Run{Horizon: horizon, Dt: sc.Numerics.Dt}
}
