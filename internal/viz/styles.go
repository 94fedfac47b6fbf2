package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header, label, value, status, warn, errText, graph, help, selected, muted, stats lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		status:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		warn:     lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		errText:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		selected: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters scaled
// between their min and max. It returns plain runes so callers can style
// the whole line at once.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}
