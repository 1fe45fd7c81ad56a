package tank

import "fmt"

// Constant is a schedule with a fixed boundary condition.
type Constant Boundary

func (c Constant) At(float64) Boundary { return Boundary(c) }

// Series is a sampled boundary-condition schedule with a fixed sample
// interval and step-hold lookup. The last sample is held past the end.
type Series struct {
	interval float64
	mflow    []float64
	tinlet   []float64
	tambient []float64
}

// NewSeries builds a sampled schedule. The three series must have equal,
// non-zero length and the sample interval must be positive.
func NewSeries(interval float64, mflow, tinlet, tambient []float64) (*Series, error) {
	if interval <= 0 {
		return nil, &ValidationError{"interval", "must be > 0"}
	}
	if len(mflow) == 0 {
		return nil, &ValidationError{"mflow", "empty series"}
	}
	if len(tinlet) != len(mflow) || len(tambient) != len(mflow) {
		return nil, &ValidationError{"series", fmt.Sprintf(
			"length mismatch: mflow=%d tinlet=%d tambient=%d",
			len(mflow), len(tinlet), len(tambient))}
	}
	return &Series{interval: interval, mflow: mflow, tinlet: tinlet, tambient: tambient}, nil
}

func (s *Series) At(t float64) Boundary {
	i := int(t / s.interval)
	if i < 0 {
		i = 0
	}
	if i >= len(s.mflow) {
		i = len(s.mflow) - 1
	}
	return Boundary{MFlow: s.mflow[i], TInlet: s.tinlet[i], TAmbient: s.tambient[i]}
}

// Segment is one phase of a piecewise-constant schedule.
type Segment struct {
	Duration float64 // s
	MFlow    float64 // kg/s
	TInlet   float64
	TAmbient float64
}

// Segments is an ordered piecewise-constant schedule, e.g. a
// charge -> idle -> discharge sequence. The last segment is held past
// its end.
type Segments []Segment

func (s Segments) At(t float64) Boundary {
	for _, seg := range s {
		if t < seg.Duration {
			return Boundary{MFlow: seg.MFlow, TInlet: seg.TInlet, TAmbient: seg.TAmbient}
		}
		t -= seg.Duration
	}
	if len(s) == 0 {
		return Boundary{}
	}
	last := s[len(s)-1]
	return Boundary{MFlow: last.MFlow, TInlet: last.TInlet, TAmbient: last.TAmbient}
}

// Horizon returns the total duration covered by the segments.
func (s Segments) Horizon() float64 {
	total := 0.0
	for _, seg := range s {
		total += seg.Duration
	}
	return total
}
