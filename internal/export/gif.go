package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/frame"
	"github.com/san-kum/exoview/internal/viz"
)

const (
	charW = 8
	charH = 16

	// palette index 0 is the background, 1 the neutral ink, the rest the scale
	scaleColors = 254
)

// Animation collects canvas frames of one variable, coloured over a shared range.
type Animation struct {
	Scale    colorscale.Scale
	Min, Max float64
	Delay    int // hundredths of a second per frame

	palette color.Palette
	frames  []*image.Paletted
}

// NewAnimation returns an empty animation.
func NewAnimation(scale colorscale.Scale, min, max float64, delay int) *Animation {
	pal := color.Palette{color.Black, color.Gray{Y: 0xcc}}
	pal = append(pal, scale.Sample(scaleColors)...)
	return &Animation{Scale: scale, Min: min, Max: max, Delay: delay, palette: pal}
}

// Len returns the number of captured frames.
func (a *Animation) Len() int {
	return len(a.frames)
}

func (a *Animation) index(v float64) uint8 {
	t := colorscale.Normalize(v, a.Min, a.Max)
	if math.IsNaN(t) {
		return 1
	}
	t = math.Max(0, math.Min(1, t))
	return uint8(2 + math.Round(t*float64(scaleColors-1)))
}

// Capture rasterizes the canvas as the next frame, one 8x16 block per cell.
func (a *Animation) Capture(c *viz.Canvas) {
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), a.palette)
	dotW, dotH := charW/2, charH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			ink := uint8(1)
			if v, ok := c.Value(row, col); ok {
				ink = a.index(v)
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, ink)
						}
					}
				}
			}
		}
	}
	a.frames = append(a.frames, img)
}

// WriteGIF encodes the captured frames as a looping GIF.
func (a *Animation) WriteGIF(w io.Writer) error {
	if len(a.frames) == 0 {
		return errors.New("export: animation has no frames")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range a.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, a.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Animate captures every time step of a nodal variable as a plan-view
// scatter of cols x rows cells, coloured over the variable's full range.
func Animate(d *exodus.Data, variable string, scale colorscale.Scale, cols, rows, delay int) (*Animation, error) {
	lo, hi, err := frame.Range(d, variable)
	if err != nil {
		return nil, err
	}
	anim := NewAnimation(scale, lo, hi, delay)
	for s := 0; s < frame.Steps(d, variable); s++ {
		f, err := frame.Build(d, variable, s)
		if err != nil {
			return nil, err
		}
		c := viz.NewCanvas(cols, rows)
		viz.RenderFrame(c, f)
		anim.Capture(c)
	}
	return anim, nil
}

// SaveGIF writes the animation to a file.
func (a *Animation) SaveGIF(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.WriteGIF(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
