package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a Theme.
type Styles struct {
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Circle  lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Warning lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		Header:  lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Circle:  lipgloss.NewStyle().Foreground(t.Coherent).Padding(1, 2),
		Graph:   lipgloss.NewStyle().Foreground(t.Vector).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}

// ProgressBar renders a fraction in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline renders values as a row of block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	values = Downsample(values, width)

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return b.String()
}
