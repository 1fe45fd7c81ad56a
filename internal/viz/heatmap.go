package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thermlab/tanksim/internal/tank"
)

// Cold-to-hot ramp for field rendering.
var heatPalette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#1e3a8a")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#06b6d4")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
}

var axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// Heatmap renders the time-by-height temperature field, top of the tank
// on the first line, time left to right. Columns are sampled down to the
// requested width; temperatures are binned over the field's span.
func Heatmap(field []tank.Profile, width int) string {
	if len(field) == 0 || len(field[0]) == 0 {
		return ""
	}
	if width <= 0 || width > len(field) {
		width = len(field)
	}
	nodes := len(field[0])

	lo, hi := field[0][0], field[0][0]
	for _, row := range field {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := hi - lo

	var b strings.Builder
	for node := nodes - 1; node >= 0; node-- {
		for col := 0; col < width; col++ {
			row := field[col*(len(field)-1)/max(width-1, 1)]
			bin := 0
			if span > 0 {
				bin = int((row[node] - lo) / span * float64(len(heatPalette)-1))
			}
			b.WriteString(heatPalette[bin].Render("█"))
		}
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render("bottom row = bottom node, left = t0"))
	b.WriteByte('\n')
	return b.String()
}
