// Package sweep runs parameter studies: a cartesian grid of parameter
// values is expanded into independent scenario runs, executed in parallel
// (one solver and state per run, nothing shared mutable), and ranked by a
// named result metric.
package sweep

import (
	"context"
	"sort"
	"sync"

	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/tank"
)

// Axis is one swept parameter with its candidate values.
type Axis struct {
	Name   string
	Values []float64
}

// Point is one grid assignment of parameter name to value.
type Point map[string]float64

// Grid expands the axes into their cartesian product.
func Grid(axes []Axis) []Point {
	points := []Point{{}}
	for _, ax := range axes {
		next := make([]Point, 0, len(points)*len(ax.Values))
		for _, p := range points {
			for _, v := range ax.Values {
				np := make(Point, len(p)+1)
				for k, val := range p {
					np[k] = val
				}
				np[ax.Name] = v
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Setup materializes one grid point into a runnable scenario. Metrics are
// built fresh per run so accumulators are never shared across goroutines.
type Setup struct {
	Config   *tank.Config
	Schedule tank.Schedule
	Initial  tank.Profile
	Run      solver.Run
	Metrics  []solver.Metric
}

// Outcome pairs a grid point with its finished run.
type Outcome struct {
	Point  Point
	Result *solver.Result
	Score  float64
}

// Runner evaluates grid points in parallel.
type Runner struct {
	// Build maps a grid point to a run setup.
	Build func(Point) (*Setup, error)
	// Metric names the result metric used as the score.
	Metric string
}

// Run executes every point and returns the outcomes sorted by ascending
// score. The first error aborts the sweep.
func (r *Runner) Run(ctx context.Context, points []Point) ([]Outcome, error) {
	outcomes := make([]Outcome, len(points))
	errs := make([]error, len(points))

	var wg sync.WaitGroup
	for i, pt := range points {
		wg.Add(1)
		go func(idx int, pt Point) {
			defer wg.Done()

			setup, err := r.Build(pt)
			if err != nil {
				errs[idx] = err
				return
			}

			s := solver.New(setup.Config)
			for _, m := range setup.Metrics {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx, setup.Schedule, setup.Initial, setup.Run)
			if err != nil {
				errs[idx] = err
				return
			}
			outcomes[idx] = Outcome{Point: pt, Result: res, Score: res.Metrics[r.Metric]}
		}(i, pt)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(outcomes, func(a, b int) bool {
		return outcomes[a].Score < outcomes[b].Score
	})
	return outcomes, nil
}
