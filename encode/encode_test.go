package encode

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"
)

var irEqual = cmp.Comparer(ir.Equal)

func sample() ir.Value {
	return ir.ObjectOf(
		ir.KV("name", ir.String("player one")),
		ir.KV("level", ir.Int(-42)),
		ir.KV("big", ir.Int(math.MaxInt64)),
		ir.KV("ratio", ir.Float(0.5)),
		ir.KV("whole", ir.Float(3)),
		ir.KV("on", ir.Bool(true)),
		ir.KV("off", ir.Bool(false)),
		ir.KV("nothing", ir.Null()),
		ir.KV("numeric text", ir.String("123")),
		ir.KV("bool text", ir.String("true")),
		ir.KV("empty", ir.String("")),
		ir.KV("padded", ir.String("  pad ")),
		ir.KV("punct", ir.String(`a,b;c#d"e'f\g`)),
		ir.KV("lines", ir.String("first\n  second\nthird\n")),
		ir.KV("unicode", ir.String("héllo wörld")),
		ir.KV("list", ir.ArrayOf(ir.Int(1), ir.String("two"), ir.Float(-2.25), ir.Null())),
		ir.KV("single", ir.ArrayOf(ir.String("only"))),
		ir.KV("none", ir.ArrayOf()),
		ir.KV("matrix", ir.ArrayOf(ir.ArrayOf(ir.Int(1), ir.Int(2)), ir.ArrayOf(ir.Int(3), ir.Int(4)))),
		ir.KV("records", ir.ArrayOf(
			ir.ObjectOf(ir.KV("id", ir.Int(1)), ir.KV("tags", ir.ArrayOf(ir.String("a"), ir.String("b")))),
			ir.ObjectOf(ir.KV("id", ir.Int(2)), ir.KV("tags", ir.ArrayOf())),
		)),
		ir.KV("window", ir.ObjectOf(
			ir.KV("title", ir.String("Main")),
			ir.KV("size", ir.ObjectOf(ir.KV("width", ir.Int(800)), ir.KV("height", ir.Int(600)))),
			ir.KV("empty", ir.ObjectOf()),
		)),
		ir.KV("odd key.with dots", ir.ObjectOf(ir.KV("1", ir.String("x")))),
	)
}

func TestRoundTrip(t *testing.T) {
	for _, f := range format.AllFormats() {
		t.Run(f.String(), func(t *testing.T) {
			v := sample()
			buf := bytes.NewBuffer(nil)
			if err := Encode(v, buf, EncodeFormat(f)); err != nil {
				t.Fatal(err)
			}
			got, err := parse.Parse(buf.Bytes(), parse.ParseFormat(f))
			if err != nil {
				t.Fatalf("%v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(v, got, irEqual); diff != "" {
				t.Errorf("round trip (-want +got):\n%s\n%s", diff, buf.String())
			}
		})
	}
}

func TestXMLTextKey(t *testing.T) {
	src := `<root><a x="1">caption <b>2</b></a></root>`
	v, err := parse.ParseString(src, parse.ParseXML())
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(v, buf, EncodeFormat(format.XMLFormat)); err != nil {
		t.Fatal(err)
	}
	got, err := parse.Parse(buf.Bytes(), parse.ParseXML())
	if err != nil {
		t.Fatalf("%v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(v, got, irEqual); diff != "" {
		t.Errorf("(-want +got):\n%s\n%s", diff, buf.String())
	}
	if !strings.Contains(buf.String(), `<entry key="#text">caption</entry>`) {
		t.Errorf("text key not written as entry:\n%s", buf.String())
	}
}

func TestWireRoundTrip(t *testing.T) {
	for _, f := range []format.Format{format.JSONFormat, format.XMLFormat} {
		v := sample()
		buf := bytes.NewBuffer(nil)
		if err := Encode(v, buf, EncodeFormat(f), EncodeWire(true)); err != nil {
			t.Fatal(err)
		}
		if n := strings.Count(strings.TrimSpace(buf.String()), "\n"); n > 1 {
			t.Errorf("%s: wire output has %d line breaks", f, n)
		}
		got, err := parse.Parse(buf.Bytes(), parse.ParseFormat(f))
		if err != nil {
			t.Fatal(err)
		}
		if !ir.Equal(v, got) {
			t.Errorf("%s: wire round trip differs", f)
		}
	}
}

func TestSpecialFloats(t *testing.T) {
	v := ir.ObjectOf(
		ir.KV("inf", ir.Float(math.Inf(1))),
		ir.KV("ninf", ir.Float(math.Inf(-1))),
		ir.KV("nan", ir.Float(math.NaN())),
	)
	for _, f := range []format.Format{format.INIFormat, format.XMLFormat, format.YAMLFormat, format.BinaryFormat} {
		buf := bytes.NewBuffer(nil)
		if err := Encode(v, buf, EncodeFormat(f)); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		got, err := parse.Parse(buf.Bytes(), parse.ParseFormat(f))
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !ir.Equal(v, got) {
			t.Errorf("%s: got %s", f, got)
		}
	}
	err := Encode(v, bytes.NewBuffer(nil), EncodeFormat(format.JSONFormat))
	if !errors.Is(err, ErrEncode) {
		t.Errorf("json: %v", err)
	}
}

func TestINILayout(t *testing.T) {
	v := ir.ObjectOf(
		ir.KV("title", ir.String("demo")),
		ir.KV("a", ir.ObjectOf(
			ir.KV("x", ir.Int(1)),
			ir.KV("b", ir.ObjectOf(ir.KV("y", ir.ArrayOf(ir.Int(1), ir.Int(2))))),
		)),
		ir.KV("z", ir.Bool(true)),
	)
	want := `title = demo
z = true

[a]
x = 1

[a.b]
y = [ 1, 2 ]
`
	got := bytes.NewBuffer(nil)
	if err := Encode(v, got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestINIComments(t *testing.T) {
	in := `; top
; second line
name = demo
# about the section
[sect]
key = 1
`
	v, err := parse.ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	got := MustString(v)
	want := `; top
; second line
name = demo

# about the section
[sect]
key = 1`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	noComments := MustString(v, EncodeComments(false))
	if strings.Contains(noComments, "top") {
		t.Errorf("comments written: %s", noComments)
	}
}

func TestINIRootMustBeObject(t *testing.T) {
	err := Encode(ir.ArrayOf(), bytes.NewBuffer(nil))
	if !errors.Is(err, ErrEncode) {
		t.Errorf("got %v", err)
	}
}

func TestJSONLayout(t *testing.T) {
	v := ir.ObjectOf(
		ir.KV("a", ir.ArrayOf(ir.Int(1), ir.String("x\ty"))),
		ir.KV("b", ir.ObjectOf()),
	)
	want := "{\n  \"a\": [\n    1,\n    \"x\\ty\"\n  ],\n  \"b\": {}\n}"
	if diff := cmp.Diff(want, MustString(v, EncodeFormat(format.JSONFormat))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	wire := MustString(v, EncodeFormat(format.JSONFormat), EncodeWire(true))
	if wire != `{"a":[1,"x\ty"],"b":{}}` {
		t.Errorf("wire = %s", wire)
	}
}

func TestYAMLQuoting(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"two words", "two words"},
		{"yes", `"yes"`},
		{"Null", `"Null"`},
		{"12", `"12"`},
		{"a: b", `"a: b"`},
		{"", `""`},
		{"- item", `"- item"`},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, tt := range tests {
		if got := yamlString(tt.in); got != tt.want {
			t.Errorf("%q: got %s want %s", tt.in, got, tt.want)
		}
	}
}

func TestColors(t *testing.T) {
	c := NewColors()
	v := ir.ObjectOf(ir.KV("k", ir.String("100%")))
	plain := MustString(v)
	colored := MustString(v, EncodeColors(c))
	if !strings.Contains(colored, "100%") {
		t.Errorf("percent lost: %q", colored)
	}
	if MustString(v, EncodeColors(nil)) != plain {
		t.Error("nil colors changed output")
	}
}
