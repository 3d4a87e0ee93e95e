package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kurasim/internal/analysis"
)

// Downsample picks at most width evenly spaced samples from series.
func Downsample(series []float64, width int) []float64 {
	if width <= 0 || len(series) <= width {
		return series
	}
	if width == 1 {
		return series[len(series)-1:]
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = series[i*(len(series)-1)/(width-1)]
	}
	return out
}

// PlotOrder renders r(t) with fixed [0, 1] bounds.
func PlotOrder(op analysis.OrderParameter, width, height int) string {
	if len(op.R) < 2 {
		return ""
	}
	return asciigraph.Plot(Downsample(op.R, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("order parameter r(t)"),
	)
}

// PlotSeries renders one captioned time series.
func PlotSeries(caption string, series []float64, width, height int) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(Downsample(series, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotRows overlays the phase series of several oscillators.
func PlotRows(rows map[int][]float64, order []int, width, height int) string {
	data := make([][]float64, 0, len(order))
	for _, i := range order {
		if row, ok := rows[i]; ok && len(row) > 1 {
			data = append(data, Downsample(row, width))
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("θ_i(t) for oscillators %v", order)),
	)
}

// PlotSweep renders the time-averaged r against the swept parameter.
func PlotSweep(points []analysis.SweepPoint, param string, width, height int) string {
	if len(points) < 2 {
		return ""
	}
	r := make([]float64, len(points))
	for i, p := range points {
		r[i] = p.MeanR
	}
	caption := fmt.Sprintf("mean r vs %s in [%g, %g]", param, points[0].Param, points[len(points)-1].Param)
	return asciigraph.Plot(r,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption(caption),
	)
}
