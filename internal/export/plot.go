// Package export writes nodal frames to image files: publication plots
// through gonum/plot, and SVG or animated GIF copies of the terminal canvas.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/frame"
)

// ErrFormat is returned for an output format the plot writer does not support.
var ErrFormat = errors.New("export: unsupported format")

// Formats lists the supported plot formats.
var Formats = []string{"png", "svg", "pdf"}

// Options controls plot rendering.
type Options struct {
	Width, Height vg.Length
	Opacity       float64
	PointRadius   vg.Length
	Format        string
	ColorBar      bool

	// FixedRange colours over [Min, Max] instead of the frame's own range.
	FixedRange bool
	Min, Max   float64
}

// Pixels converts a pixel count at the default raster resolution to a length.
func Pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// DefaultOptions returns an 800x800 plot at 0.7 opacity with a colour bar.
func DefaultOptions() Options {
	return Options{
		Width:       Pixels(800),
		Height:      Pixels(800),
		Opacity:     0.7,
		PointRadius: vg.Points(4),
		Format:      "png",
		ColorBar:    true,
	}
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (use %s)", ErrFormat, ext, strings.Join(Formats, ", "))
}

// colourRange returns the range values are coloured over, widened when
// degenerate so the colour map stays well defined.
func colourRange(f *frame.Frame, opts Options) (float64, float64) {
	lo, hi := opts.Min, opts.Max
	if !opts.FixedRange {
		st := f.Stats()
		lo, hi = st.Min, st.Max
	}
	if f.Len() == 0 && !opts.FixedRange {
		lo, hi = 0, 1
	}
	if hi <= lo {
		lo, hi = lo-0.5, lo+0.5
	}
	return lo, hi
}

// NewPlot builds the scatter plot of a frame: x against y with equal
// scales, each node coloured by its value.
func NewPlot(f *frame.Frame, scale colorscale.Scale, opts Options) (*plot.Plot, error) {
	lo, hi := colourRange(f, opts)
	cm := scale.ColorMap(lo, hi, opts.Opacity)

	p := plot.New()
	p.Title.Text = f.Title()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if f.Len() > 0 {
		s, err := plotter.NewScatter(f)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		values := f.Values()
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			c, err := cm.At(values[i])
			if err != nil {
				c = color.Gray{Y: 128}
			}
			return draw.GlyphStyle{Color: c, Radius: opts.PointRadius, Shape: draw.CircleGlyph{}}
		}
		p.Add(s)
		anchorAxes(p, f)
	}
	return p, nil
}

// anchorAxes gives both axes the same span so one unit of x and one unit of
// y take the same length on a square plot.
func anchorAxes(p *plot.Plot, f *frame.Frame) {
	xmin, xmax := f.Rows[0].X, f.Rows[0].X
	ymin, ymax := f.Rows[0].Y, f.Rows[0].Y
	for _, r := range f.Rows {
		xmin, xmax = min(xmin, r.X), max(xmax, r.X)
		ymin, ymax = min(ymin, r.Y), max(ymax, r.Y)
	}
	span := max(xmax-xmin, ymax-ymin)
	if span == 0 {
		span = 1
	}
	span *= 1.1
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
}

func newColorBar(f *frame.Frame, scale colorscale.Scale, opts Options) *plot.Plot {
	lo, hi := colourRange(f, opts)
	bar := plot.New()
	bar.Title.Text = f.Variable
	bar.HideX()
	bar.Y.Padding = 0
	bar.Add(&plotter.ColorBar{ColorMap: scale.ColorMap(lo, hi, 1), Vertical: true, Colors: 255})
	return bar
}

// WritePlot renders the frame to w.
func WritePlot(w io.Writer, f *frame.Frame, scale colorscale.Scale, opts Options) error {
	format := opts.Format
	if format == "" {
		format = "png"
	}
	known := false
	for _, fm := range Formats {
		known = known || fm == format
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}

	p, err := NewPlot(f, scale, opts)
	if err != nil {
		return err
	}
	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	dc := draw.New(c)

	if opts.ColorBar {
		barWidth := opts.Width / 7
		p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
		left := dc.Max.X - dc.Min.X - barWidth
		newColorBar(f, scale, opts).Draw(draw.Crop(dc, left, 0, 0, 0))
	} else {
		p.Draw(dc)
	}

	_, err = c.WriteTo(w)
	return err
}

// SavePlot renders the frame to a file. An empty opts.Format is taken from
// the path's extension.
func SavePlot(path string, f *frame.Frame, scale colorscale.Scale, opts Options) error {
	if opts.Format == "" {
		format, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opts.Format = format
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePlot(out, f, scale, opts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
