// Package colorscale provides the named continuous colour scales used to
// colour nodal values, for both terminal and image output.
package colorscale

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownScale is returned by Get for a name that is not registered.
var ErrUnknownScale = errors.New("colorscale: unknown scale")

// Stop is one anchor of a scale: Pos in [0, 1] and its colour.
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Scale is a named, ordered list of stops. Colours between stops are blended
// in CIE-Lab space.
type Scale struct {
	Name  string
	Stops []Stop
}

// New builds a scale from evenly spaced hex colours.
func New(name string, hexes ...string) Scale {
	stops := make([]Stop, len(hexes))
	for i, h := range hexes {
		pos := 0.0
		if len(hexes) > 1 {
			pos = float64(i) / float64(len(hexes)-1)
		}
		stops[i] = Stop{Pos: pos, Color: mustHex(h)}
	}
	return Scale{Name: name, Stops: stops}
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(fmt.Sprintf("colorscale: bad colour %q: %v", h, err))
	}
	return c
}

// At returns the colour at t. t is clamped to [0, 1]; NaN maps to the first stop.
func (s Scale) At(t float64) colorful.Color {
	if len(s.Stops) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t <= s.Stops[0].Pos {
		return s.Stops[0].Color
	}
	last := s.Stops[len(s.Stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	i := sort.Search(len(s.Stops), func(i int) bool { return s.Stops[i].Pos >= t })
	lo, hi := s.Stops[i-1], s.Stops[i]
	if hi.Pos == t || hi.Pos == lo.Pos {
		return hi.Color
	}
	return lo.Color.BlendLab(hi.Color, (t-lo.Pos)/(hi.Pos-lo.Pos)).Clamped()
}

// Normalize maps v from [min, max] onto [0, 1]. A degenerate range maps
// everything to the middle of the scale.
func Normalize(v, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	return (v - min) / (max - min)
}

// Hex returns the colour for v within [min, max] as #rrggbb.
func (s Scale) Hex(v, min, max float64) string {
	return s.At(Normalize(v, min, max)).Hex()
}

// Reversed returns the scale with its stops mirrored.
func (s Scale) Reversed() Scale {
	out := Scale{Name: s.Name + "_r", Stops: make([]Stop, len(s.Stops))}
	for i, st := range s.Stops {
		out.Stops[len(s.Stops)-1-i] = Stop{Pos: 1 - st.Pos, Color: st.Color}
	}
	return out
}

// Sample returns n colours evenly spread over the scale.
func (s Scale) Sample(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = s.At(t)
	}
	return out
}

// Names lists the registered scales in display order.
func Names() []string {
	names := make([]string, len(builtin))
	for i, s := range builtin {
		names[i] = s.Name
	}
	return names
}

// Get looks a scale up by name, ignoring case. A "_r" suffix selects the
// reversed scale.
func Get(name string) (Scale, error) {
	reversed := false
	base := name
	if strings.HasSuffix(strings.ToLower(name), "_r") {
		reversed = true
		base = name[:len(name)-2]
	}
	for _, s := range builtin {
		if strings.EqualFold(s.Name, base) {
			if reversed {
				return s.Reversed(), nil
			}
			return s, nil
		}
	}
	return Scale{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScale, name, strings.Join(Names(), ", "))
}

// Default is the scale used when none is configured.
func Default() Scale {
	return builtin[0]
}
