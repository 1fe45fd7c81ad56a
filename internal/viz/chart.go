package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/thermlab/tanksim/internal/tank"
)

// TopBottomChart plots the top and bottom outlet temperature series.
func TopBottomChart(top, bottom []float64, width, height int) string {
	return asciigraph.PlotMany(
		[][]float64{top, bottom},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("top", "bottom"),
		asciigraph.Caption("outlet temperatures vs step"),
	)
}

// ProfileChart plots one vertical profile, bottom node on the left.
func ProfileChart(p tank.Profile, width, height int, label string) string {
	return asciigraph.Plot(p,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("T(z) %s (bottom -> top)", label)),
	)
}

// HeatLossChart plots the instantaneous wall loss power per step.
func HeatLossChart(loss []float64, width, height int) string {
	return asciigraph.Plot(loss,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("wall loss [W] vs step"),
	)
}
