// Package viz renders simulation results in the terminal: ascii line
// charts for the top/bottom temperature series and profile snapshots, a
// color heatmap of the time-by-height temperature field, and a live view
// that steps the solver at a frame tick.
package viz
