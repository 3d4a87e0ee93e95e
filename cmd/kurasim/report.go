package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/san-kum/kurasim/internal/experiment"
	"github.com/san-kum/kurasim/internal/viz"
)

func runTitle(e *experiment.Experiment) string {
	if e.Config.Name != "" {
		return e.Config.Name
	}
	return fmt.Sprintf("%s N=%d M=%d κ=%g", e.Config.Model, e.Config.Oscillators, e.Config.Depth, e.Config.Kappa)
}

// renderSummary lays out the final phase circle next to a run panel, with
// the order parameter plot underneath.
func renderSummary(e *experiment.Experiment, out *experiment.Outcome, theme viz.Theme, width int) string {
	styles := viz.NewStyles(theme)
	last := e.Trajectory.Finalized()
	phases, _ := e.Trajectory.Column(last)

	circle := viz.NewCircleView(36, 18).Render(phases, out.Order.Z[last])

	row := func(label, value string) string {
		return styles.Label.Render(label) + styles.Value.Render(value)
	}
	r, psi := out.Order.Final()
	lines := []string{
		styles.Header.Render(runTitle(e)),
		row("run", out.ID[:8]),
		row("integrator", out.Result.Method),
		row("topology", e.Config.Topology),
		row("steps", humanize.Comma(int64(out.Result.Steps))),
		row("evals", humanize.Comma(int64(out.Result.Evaluations))),
		row("elapsed", out.Result.Elapsed.String()),
		row("r", fmt.Sprintf("%.4f %s", r, viz.ProgressBar(r, 16))),
		row("ψ", fmt.Sprintf("%+.4f", psi)),
	}
	if e.Start > 0 {
		lines = append(lines, row("history", fmt.Sprintf("%d columns", e.Start)))
	}

	names := make([]string, 0, len(out.Metrics))
	for name := range out.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, row(strings.ReplaceAll(name, "_", " "), fmt.Sprintf("%.4f", out.Metrics[name])))
	}
	if ch := out.Chimera; ch != nil {
		status := fmt.Sprintf("%d coherent / %d drifting", len(ch.Coherent), len(ch.Drifting))
		if ch.IsChimera() {
			status = styles.Warning.Render(status)
		}
		lines = append(lines, row("groups", status))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Circle.Render(circle),
		styles.Panel.Render(strings.Join(lines, "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, styles.Graph.Render(viz.PlotOrder(out.Order, width, 10)))
}
