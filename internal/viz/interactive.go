package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/frame"
)

const (
	defaultCanvasWidth  = 60
	defaultCanvasHeight = 20
	sidePanelWidth      = 44
)

// Viewer is the interactive results viewer: a variable list, a time-step
// slider and a coloured scatter of the selected variable.
type Viewer struct {
	data   *exodus.Data
	source string

	vars     []string
	varIdx   int
	step     int
	scales   []string
	scaleIdx int
	themeIdx int

	showHelp bool
	outline  bool

	canvasW, canvasH int
	fixedSize        bool
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithScale selects the starting colour scale.
func WithScale(name string) ViewerOption {
	return func(v *Viewer) {
		for i, s := range v.scales {
			if strings.EqualFold(s, name) {
				v.scaleIdx = i
			}
		}
	}
}

// WithTheme selects the starting theme.
func WithTheme(name string) ViewerOption {
	return func(v *Viewer) { v.themeIdx = themeIndex(name) }
}

// WithCanvasSize fixes the plot size in terminal cells. Without it the plot
// follows the window size.
func WithCanvasSize(cols, rows int) ViewerOption {
	return func(v *Viewer) {
		if cols > 0 && rows > 0 {
			v.canvasW, v.canvasH, v.fixedSize = cols, rows, true
		}
	}
}

// NewViewer returns a viewer over d. source is shown in the header.
func NewViewer(d *exodus.Data, source string, opts ...ViewerOption) Viewer {
	v := Viewer{
		data:    d,
		source:  source,
		scales:  colorscale.Names(),
		canvasW: defaultCanvasWidth,
		canvasH: defaultCanvasHeight,
	}
	for _, name := range d.NodalNames {
		if d.HasNodal(name) {
			v.vars = append(v.vars, name)
		}
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// Variable returns the selected variable, or "" when there is none.
func (v Viewer) Variable() string {
	if len(v.vars) == 0 {
		return ""
	}
	return v.vars[v.varIdx]
}

// Step returns the selected time step.
func (v Viewer) Step() int { return v.step }

// ScaleName returns the selected colour scale.
func (v Viewer) ScaleName() string { return v.scales[v.scaleIdx] }

// ThemeName returns the selected theme.
func (v Viewer) ThemeName() string { return Themes[v.themeIdx].Name }

// Outline reports whether the mesh bounds are drawn.
func (v Viewer) Outline() bool { return v.outline }

// steps is the number of selectable time steps for the current variable.
func (v Viewer) steps() int {
	if n := frame.Steps(v.data, v.Variable()); n > 0 {
		return n
	}
	return 1
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		if !v.fixedSize {
			v.canvasW = max(msg.Width-sidePanelWidth-6, 10)
			v.canvasH = max(msg.Height-12, 5)
		}
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return v, tea.Quit
	case "down", "j":
		if v.varIdx < len(v.vars)-1 {
			v.varIdx++
			v.step = min(v.step, v.steps()-1)
		}
	case "up", "k":
		if v.varIdx > 0 {
			v.varIdx--
			v.step = min(v.step, v.steps()-1)
		}
	case "right", "l":
		if v.step < v.steps()-1 {
			v.step++
		}
	case "left", "h":
		if v.step > 0 {
			v.step--
		}
	case "[":
		v.step = 0
	case "]":
		v.step = v.steps() - 1
	case "c":
		v.scaleIdx = (v.scaleIdx + 1) % len(v.scales)
	case "t":
		v.themeIdx = (v.themeIdx + 1) % len(Themes)
	case "?":
		v.showHelp = !v.showHelp
	case "b":
		v.outline = !v.outline
	}
	return v, nil
}

func (v Viewer) View() string {
	st := Themes[v.themeIdx].styles()
	scale, err := colorscale.Get(v.ScaleName())
	if err != nil {
		scale = colorscale.Default()
	}

	var s strings.Builder
	s.WriteString(GradientText("EXOVIEW", Themes[v.themeIdx].Primary, Themes[v.themeIdx].Secondary))
	s.WriteString("  " + st.Subtle.Render(v.source) + "\n\n")

	main := v.viewPlot(st, scale)
	side := v.viewInfo(st)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", side))
	s.WriteString("\n" + v.viewKeys(st))

	if v.showHelp {
		return st.Help.Render(helpText) + "\n\n" + s.String()
	}
	return s.String()
}

func (v Viewer) viewPlot(st styles, scale colorscale.Scale) string {
	name := v.Variable()
	if name == "" {
		return st.Panel.Render(st.Warning.Render("No nodal variables with values in this file."))
	}
	f, err := frame.Build(v.data, name, v.step)
	if err != nil {
		return st.Panel.Render(st.Warning.Render(err.Error()))
	}
	lo, hi, _ := frame.Range(v.data, name)

	c := NewCanvas(v.canvasW, v.canvasH)
	view := RenderFrame(c, f)
	if v.outline {
		DrawBounds(c, view)
	}
	plot := c.Paint(func(x float64) string { return scale.Hex(x, lo, hi) }, st.Subtle)

	var b strings.Builder
	b.WriteString(st.Header.Render(f.Title()) + "\n")
	b.WriteString(plot)
	b.WriteString(ColorBar(scale, lo, hi, v.canvasW) + "\n\n")

	total := v.steps()
	b.WriteString(st.Label.Render("Time step") + Slider(v.step, total, v.canvasW-24, st.Selected, st.Subtle))
	b.WriteString(st.Value.Render(fmt.Sprintf(" %d/%d", v.step, total-1)))
	if v.step < len(v.data.TimeSteps) {
		b.WriteString(st.Subtle.Render(fmt.Sprintf("  t=%.4g", v.data.TimeSteps[v.step])))
	}
	b.WriteString("\n" + st.Label.Render("Stats") + st.Value.Render(f.Stats().String()))
	return st.Panel.Render(b.String())
}

func (v Viewer) viewInfo(st styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("FILE") + "\n")
	b.WriteString(st.Label.Render("Time steps") + st.Value.Render(fmt.Sprint(v.data.NumSteps())) + "\n")
	b.WriteString(st.Label.Render("Mesh") + st.Value.Render(v.data.Mesh.String()) + "\n")
	b.WriteString(st.Label.Render("Scale") + st.Value.Render(v.ScaleName()) + "\n")
	outline := "off"
	if v.outline {
		outline = "on"
	}
	b.WriteString(st.Label.Render("Outline") + st.Value.Render(outline) + "\n")
	b.WriteString(Separator(sidePanelWidth-4, st.Subtle) + "\n")

	b.WriteString(st.Title.Render("VARIABLES") + "\n")
	if len(v.data.NodalNames) == 0 {
		b.WriteString(st.Subtle.Render("  (none)") + "\n")
	}
	for _, name := range v.data.NodalNames {
		switch {
		case name == v.Variable():
			b.WriteString(st.Selected.Render("▸ "+name) + "\n")
		case !v.data.HasNodal(name):
			b.WriteString(st.Subtle.Render("  "+name+" (no values)") + "\n")
		default:
			b.WriteString(st.Value.Render("  "+name) + "\n")
		}
	}
	if len(v.data.GlobalNames) > 0 {
		b.WriteString("\n" + st.Title.Render("GLOBALS") + "\n")
		for _, name := range v.data.GlobalNames {
			b.WriteString(st.Value.Render("  "+name) + "\n")
		}
	}

	if means, err := frame.StepMeans(v.data, v.Variable()); err == nil && len(means) > 1 {
		chart := asciigraph.Plot(means,
			asciigraph.Height(5),
			asciigraph.Width(sidePanelWidth-14),
			asciigraph.Caption("mean "+v.Variable()))
		b.WriteString("\n" + st.Value.Render(chart) + "\n")
	}
	if n := len(v.data.Notices); n > 0 {
		b.WriteString("\n" + st.Warning.Render(fmt.Sprintf("%d notice(s), see `exoview info`", n)) + "\n")
	}
	return st.Panel.Width(sidePanelWidth).Render(b.String())
}

func (v Viewer) viewKeys(st styles) string {
	hints := []struct{ key, desc string }{
		{"j/k", "variable"},
		{"h/l", "step"},
		{"[ ]", "first/last"},
		{"c", "scale"},
		{"t", "theme"},
		{"b", "outline"},
		{"?", "help"},
		{"q", "quit"},
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = st.Key.Render(h.key) + st.KeyHint.Render(" "+h.desc)
	}
	return strings.Join(parts, "  ")
}

const helpText = `KEYBOARD SHORTCUTS

  j / Down    next variable
  k / Up      previous variable
  l / Right   next time step
  h / Left    previous time step
  [ / ]       first / last time step
  c           cycle colour scale
  t           cycle theme
  b           toggle mesh outline
  ?           toggle this help
  q           quit`

// Run starts the viewer in the alternate screen and blocks until it exits.
func Run(d *exodus.Data, source string, opts ...ViewerOption) error {
	_, err := tea.NewProgram(NewViewer(d, source, opts...), tea.WithAltScreen()).Run()
	return err
}
