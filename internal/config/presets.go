package config

import "sort"

// Presets are the canonical operating sequences: a full charge from a
// cool tank, a discharge from a charged one, a lossy idle from a
// stratified profile, and a combined charge -> idle -> discharge schedule
// with changing flow rates. Temperatures in degC, flows in kg/s.
var presets = map[string]*Scenario{
	"full-charge": {
		Name: "full-charge",
		Tank: TankParams{
			Nodes: 20, Height: 2.0, Volume: 1.0, Rho: 997, Cp: 4180,
			UALoss: 5.0, KCond: 0.10,
		},
		Numerics: Numerics{Dt: 60},
		Initial:  Initial{Kind: "uniform", Uniform: 20},
		Ambient:  20,
		Phases: []Phase{
			{Duration: 7200, MFlow: 0.10, TInlet: 60},
		},
	},
	"discharge": {
		Name: "discharge",
		Tank: TankParams{
			Nodes: 20, Height: 2.0, Volume: 1.0, Rho: 997, Cp: 4180,
			UALoss: 5.0, KCond: 0.10,
		},
		Numerics: Numerics{Dt: 60},
		Initial:  Initial{Kind: "linear", Bottom: 55, Top: 65},
		Ambient:  20,
		Phases: []Phase{
			{Duration: 7200, MFlow: -0.08, TInlet: 10},
		},
	},
	"idle-stratified": {
		Name: "idle-stratified",
		Tank: TankParams{
			Nodes: 20, Height: 2.0, Volume: 1.0, Rho: 997, Cp: 4180,
			UALoss: 5.0, KCond: 0.10,
		},
		Numerics: Numerics{Dt: 60},
		Initial:  Initial{Kind: "linear", Bottom: 30, Top: 50},
		Ambient:  20,
		Phases: []Phase{
			{Duration: 7200, MFlow: 0},
		},
	},
	"charge-idle-discharge": {
		Name: "charge-idle-discharge",
		Tank: TankParams{
			Nodes: 20, Height: 2.0, Volume: 1.0, Rho: 997, Cp: 4180,
			UALoss: 5.0, KCond: 0.10,
		},
		Numerics: Numerics{Dt: 60},
		Initial:  Initial{Kind: "uniform", Uniform: 22},
		Ambient:  20,
		Phases: []Phase{
			{Duration: 1800, MFlow: 0.12, TInlet: 60},
			{Duration: 900, MFlow: 0},
			{Duration: 4500, MFlow: -0.06, TInlet: 10},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Scenario {
	sc, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *sc
	cp.Phases = append([]Phase(nil), sc.Phases...)
	return &cp
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
