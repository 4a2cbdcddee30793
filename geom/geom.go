// Package geom holds the small fixed-shape payload types documents carry:
// points, sizes, rectangles and colors. Each maps to an object with a
// fixed set of field names through gomap.
package geom

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/cfgtree/gomap"
	"github.com/signadot/cfgtree/ir"
)

var ErrBadColor = errors.New("bad color")

type Point struct {
	X float64 `cfg:"x"`
	Y float64 `cfg:"y"`
}

type Size struct {
	Width  float64 `cfg:"width"`
	Height float64 `cfg:"height"`
}

type Rect struct {
	X      float64 `cfg:"x"`
	Y      float64 `cfg:"y"`
	Width  float64 `cfg:"width"`
	Height float64 `cfg:"height"`
}

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Color is an 8 bit per channel RGBA color. It reads from an object with
// fields r, g, b and a, or from a string accepted by ColorFromString.
// It always writes an object.
type Color struct {
	R uint8 `cfg:"r"`
	G uint8 `cfg:"g"`
	B uint8 `cfg:"b"`
	A uint8 `cfg:"a"`
}

// colorFields has Color's layout without its methods.
type colorFields Color

// ColorFromString parses "#rrggbb", "#rrggbbaa", "r,g,b" or "r,g,b,a".
// Alpha defaults to 255.
func ColorFromString(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if hx, ok := strings.CutPrefix(s, "#"); ok {
		if len(hx) != 6 && len(hx) != 8 {
			return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		d, err := hex.DecodeString(hx)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %w", ErrBadColor, s, err)
		}
		c := Color{R: d[0], G: d[1], B: d[2], A: 255}
		if len(d) == 4 {
			c.A = d[3]
		}
		return c, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	ch := [4]uint8{3: 255}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %w", ErrBadColor, s, err)
		}
		ch[i] = uint8(n)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// String gives "#rrggbb", or "#rrggbbaa" when c is not opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) ToValue() (ir.Value, error) {
	return gomap.FromGo(colorFields(c))
}

func (c *Color) FromValue(v ir.Value) error {
	if s, ok := v.Str(); ok {
		res, err := ColorFromString(s)
		if err != nil {
			return err
		}
		*c = res
		return nil
	}
	f, err := gomap.Get[colorFields](v)
	if err != nil {
		return err
	}
	*c = Color(f)
	return nil
}
