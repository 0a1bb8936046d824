package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline severity colors. History values are frame times, so the top of
// the observed range means slow frames and draws hot.
var (
	sparkCalm = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	sparkBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	sparkHot  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a block-character strip of at most width
// cells, normalized to the observed range and colored by severity.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
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
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		cell := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(sparkHot.Render(cell))
		case norm > 0.3:
			b.WriteString(sparkBusy.Render(cell))
		default:
			b.WriteString(sparkCalm.Render(cell))
		}
	}
	return b.String()
}
