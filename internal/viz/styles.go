package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// styles is the set of lipgloss styles one theme renders with.
type styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Subtle   lipgloss.Style
	KeyHint  lipgloss.Style
	Key      lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtle:   lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Help: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Padding(0, 2),
	}
}

// GradientText colours each rune of text along a Lab blend between two colours.
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

// Slider renders the position pos of total as a bar of width cells.
func Slider(pos, total, width int, fill, rest lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	filled := width
	if total > 1 {
		filled = int(math.Round(float64(pos) / float64(total-1) * float64(width)))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return fill.Render(strings.Repeat("█", filled)) + rest.Render(strings.Repeat("░", width-filled))
}

// Sparkline renders values as one row of block characters, sampled to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		} else if idx >= len(chars) {
			idx = len(chars) - 1
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Separator renders a muted rule of width cells.
func Separator(width int, s lipgloss.Style) string {
	if width < 7 {
		return s.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
