package geom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/gomap"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"
)

func TestColorFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		err  bool
	}{
		{in: "#0f1e0c", want: Color{15, 30, 12, 255}},
		{in: "#0F1E0C00", want: Color{15, 30, 12, 0}},
		{in: "15,30,12", want: Color{15, 30, 12, 255}},
		{in: " 15, 30, 12, 0 ", want: Color{15, 30, 12, 0}},
		{in: "#fff", err: true},
		{in: "#gggggg", err: true},
		{in: "1,2", err: true},
		{in: "1,2,300", err: true},
	}
	for _, tt := range tests {
		got, err := ColorFromString(tt.in)
		if tt.err {
			if !errors.Is(err, ErrBadColor) {
				t.Errorf("%q: got %v, want ErrBadColor", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %+v want %+v", tt.in, got, tt.want)
		}
		back, err := ColorFromString(got.String())
		if err != nil || back != got {
			t.Errorf("%q: String %q reads back as %+v %v", tt.in, got.String(), back, err)
		}
	}
}

func TestColorJSONRoundTrip(t *testing.T) {
	doc, err := parse.Parse([]byte(`{"theme": {"color": {"r": 15, "g": 30, "b": 12, "a": 0}}}`), parse.ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	if !gomap.Is[Color](doc, "theme", "color") {
		t.Fatal("Is[Color] = false")
	}
	c, err := gomap.Get[Color](doc, "theme", "color")
	if err != nil {
		t.Fatal(err)
	}
	if c != (Color{R: 15, G: 30, B: 12, A: 0}) {
		t.Errorf("got %+v", c)
	}
	v, err := gomap.FromGo(c)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := doc.Lookup("theme", "color")
	if diff := cmp.Diff(want, v, cmp.Comparer(ir.Equal)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestColorFromStringValue(t *testing.T) {
	c, err := gomap.Get[Color](ir.String("#ff000080"))
	if err != nil {
		t.Fatal(err)
	}
	if c != (Color{R: 255, A: 128}) {
		t.Errorf("got %+v", c)
	}
	if gomap.Is[Color](ir.ObjectOf(ir.KV("r", ir.Int(1)))) {
		t.Error("partial color accepted")
	}
	if gomap.Is[Color](ir.ObjectOf(ir.KV("r", ir.Int(256)), ir.KV("g", ir.Int(0)), ir.KV("b", ir.Int(0)), ir.KV("a", ir.Int(0)))) {
		t.Error("out of range channel accepted")
	}
}

func TestShapes(t *testing.T) {
	doc, err := parse.ParseString("[win]\nframe = { x = 1, y = 2.5, width = 10, height = 20 }\norigin = { x = 0, y = 0 }\n")
	if err != nil {
		t.Fatal(err)
	}
	r, err := gomap.Get[Rect](doc, "win", "frame")
	if err != nil {
		t.Fatal(err)
	}
	if r.Size() != (Size{Width: 10, Height: 20}) || r.Origin() != (Point{X: 1, Y: 2.5}) {
		t.Errorf("got %+v", r)
	}
	if !r.Contains(Point{X: 5, Y: 5}) || r.Contains(Point{X: 11, Y: 5}) {
		t.Error("Contains")
	}
	if gomap.Is[Size](doc, "win", "origin") {
		t.Error("point accepted as size")
	}
	v, err := gomap.FromGo(r)
	if err != nil {
		t.Fatal(err)
	}
	// ints widen to floats on the way in, so compare through Rect
	if back := gomap.As[Rect](v); back != r {
		t.Errorf("round trip %+v != %+v", back, r)
	}
}
