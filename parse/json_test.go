package parse

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

// TestJSONCorpus checks that files named y_* parse and every other file
// (n_* and the implementation-defined i_*) fails.
func TestJSONCorpus(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "json", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures")
	}
	for _, f := range files {
		name := filepath.Base(f)
		d, err := os.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		_, perr := Parse(d, ParseJSON())
		switch {
		case strings.HasPrefix(name, "y_"):
			if perr != nil {
				t.Errorf("%s: %v", name, perr)
			}
		case perr == nil:
			t.Errorf("%s: parsed", name)
		case !errors.Is(perr, ErrParse):
			t.Errorf("%s: %v does not wrap ErrParse", name, perr)
		}
	}
}

func TestJSONValues(t *testing.T) {
	in := `{
  "i": 1, "f": 1.0, "e": 1e2, "big": 9223372036854775807, "z": -0,
  "s": "é\n", "n": null, "b": [true, false],
  "dup": 1, "o": {}, "dup": 2
}`
	got, err := ParseString(in, ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	want := ir.ObjectOf(
		ir.KV("i", ir.Int(1)),
		ir.KV("f", ir.Float(1)),
		ir.KV("e", ir.Float(100)),
		ir.KV("big", ir.Int(math.MaxInt64)),
		ir.KV("z", ir.Int(0)),
		ir.KV("s", ir.String("é\n")),
		ir.KV("n", ir.Null()),
		ir.KV("b", ir.ArrayOf(ir.Bool(true), ir.Bool(false))),
		ir.KV("dup", ir.Int(2)),
		ir.KV("o", ir.ObjectOf()),
	)
	if diff := cmp.Diff(want, got, irEqual); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	o, _ := got.Object()
	if keys := o.Keys(); keys[8] != "dup" || keys[9] != "o" {
		t.Errorf("duplicate key moved: %v", keys)
	}
}

func TestJSONErrorPosition(t *testing.T) {
	_, err := ParseString("{\n  \"a\": 1,\n  \"b\": ?\n}", ParseJSON())
	var te *token.TokenizeErr
	if !errors.As(err, &te) {
		t.Fatalf("got %T %v", err, err)
	}
	if te.Pos.Line() != 2 {
		t.Errorf("line = %d", te.Pos.Line())
	}
}

func TestJSONRejects(t *testing.T) {
	tcs := []struct {
		name string
		in   string
		line int
	}{
		{name: "int overflow", in: "[9223372036854775808]"},
		{name: "float overflow", in: "[1.5e+9999]"},
		{name: "float underflow", in: "[1e-400]"},
		{name: "lone high", in: "[\"a\",\n\"\\uD800x\"]", line: 1},
		{name: "lone low", in: `{"\uDC00":0}`},
		{name: "swapped pair", in: `["\uDD1E\uD834"]`},
		{name: "high then escape", in: `["\uD800\n"]`},
		{name: "bad utf8", in: "[\"ok\",\n\"\xc3\x28\"]", line: 1},
		{name: "too deep", in: strings.Repeat("[", maxJSONDepth+1) + strings.Repeat("]", maxJSONDepth+1)},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.in, ParseJSON())
			if !errors.Is(err, ErrParse) {
				t.Fatalf("got %v", err)
			}
			if tc.line == 0 {
				return
			}
			var te *token.TokenizeErr
			if !errors.As(err, &te) {
				t.Fatalf("no position in %v", err)
			}
			if te.Pos.Line() != tc.line {
				t.Errorf("line = %d want %d", te.Pos.Line(), tc.line)
			}
		})
	}
}

func TestJSONAccepts(t *testing.T) {
	tcs := []struct {
		in   string
		want ir.Value
	}{
		{in: `"\uD834\uDD1E"`, want: ir.String("\U0001D11E")},
		{in: `"\\uD800"`, want: ir.String(`\uD800`)},
		{in: `"\"\uD83D\uDE00"`, want: ir.String("\"\U0001F600")},
		{in: "-9223372036854775808", want: ir.Int(math.MinInt64)},
		{in: "0e-999", want: ir.Float(0)},
		{in: "5e-324", want: ir.Float(5e-324)},
		{in: strings.Repeat("[", maxJSONDepth) + strings.Repeat("]", maxJSONDepth), want: nest(maxJSONDepth)},
	}
	for _, tc := range tcs {
		got, err := ParseString(tc.in, ParseJSON())
		if err != nil {
			t.Errorf("%.20s: %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got, irEqual); diff != "" {
			t.Errorf("%.20s (-want +got):\n%s", tc.in, diff)
		}
	}
}

func nest(n int) ir.Value {
	v := ir.ArrayOf()
	for i := 1; i < n; i++ {
		v = ir.ArrayOf(v)
	}
	return v
}
