package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are rebuilt from the active theme.
type styles struct {
	atoms     lipgloss.Style
	container lipgloss.Style
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	alert     lipgloss.Style
	help      lipgloss.Style
	panel     lipgloss.Style
	graph     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		atoms:     lipgloss.NewStyle().Foreground(t.Atom).Padding(1, 2),
		container: lipgloss.NewStyle().Foreground(t.Container),
		title:     lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		running:   lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		alert:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Container).
			Padding(1, 2).
			Width(48),
		graph: lipgloss.NewStyle().Foreground(t.Atom).Padding(1, 0),
	}
}

// Gauge renders a filled bar for a fraction in [0, 1], turning to the
// alert style once it passes warnAt.
func (s styles) Gauge(fraction, warnAt float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if fraction >= warnAt {
		return s.alert.Render(bar)
	}
	return s.value.Render(bar)
}

// Sparkline renders values scaled between their min and max, sampled down
// to at most width characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}
