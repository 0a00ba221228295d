package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the panel styles derived from a Theme.
type Styles struct {
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Running     lipgloss.Style
	Stopped     lipgloss.Style
	MetricValue lipgloss.Style
	MetricLabel lipgloss.Style
	KeyHint     lipgloss.Style
	Graph       lipgloss.Style
	SparkHigh   lipgloss.Style
	SparkMid    lipgloss.Style
	SparkLow    lipgloss.Style
	primary     lipgloss.Color
	secondary   lipgloss.Color
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth - 2),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtle:      lipgloss.NewStyle().Foreground(t.Muted),
		Running:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Stopped:     lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		MetricValue: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		MetricLabel: lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		KeyHint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Graph:       lipgloss.NewStyle().Foreground(t.Secondary),
		SparkHigh:   lipgloss.NewStyle().Foreground(t.Error),
		SparkMid:    lipgloss.NewStyle().Foreground(t.Warning),
		SparkLow:    lipgloss.NewStyle().Foreground(t.Success),
		primary:     t.Primary,
		secondary:   t.Secondary,
	}
}

// GradientText colors each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	to, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendLab(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// Heading renders a title in the theme gradient.
func (s Styles) Heading(text string) string {
	return GradientText(text, s.primary, s.secondary)
}

// ProgressBar renders percent of width as a filled bar.
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent > 0.8 {
		return s.SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return s.SparkMid.Render(bar)
	}
	return s.SparkLow.Render(bar)
}

// Sparkline renders the last width values as a bar strip scaled to their
// own maximum.
func (s Styles) Sparkline(values []int, width int) string {
	if len(values) == 0 {
		return strings.Repeat("▁", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		if max == 0 {
			b.WriteRune(chars[0])
			continue
		}
		norm := float64(v) / float64(max)
		c := chars[int(norm*float64(len(chars)-1))]
		switch {
		case norm > 0.7:
			b.WriteString(s.SparkHigh.Render(string(c)))
		case norm > 0.3:
			b.WriteString(s.SparkMid.Render(string(c)))
		default:
			b.WriteString(s.SparkLow.Render(string(c)))
		}
	}
	return b.String()
}

// Separator draws a decorated rule.
func (s Styles) Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return ""
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Subtle.Render(left + " ◆ " + right)
}
