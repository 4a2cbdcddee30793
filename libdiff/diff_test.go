package libdiff

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"
)

var irEqual = cmp.Comparer(ir.Equal)

func mustParse(t *testing.T, doc string) ir.Value {
	t.Helper()
	v, err := parse.ParseString(doc)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDiffApplyReverse(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"same", "a = 1\n", "a = 1\n"},
		{"scalar", "a = 1\n", "a = 2\n"},
		{"type change", "a = 1\n", "a = [1]\n"},
		{"insert key", "a = 1\n", "a = 1\nb = { c = true }\n"},
		{"delete key", "a = 1\nb = 2\n", "b = 2\n"},
		{"nested", "[s]\nx = 1\n[s.t]\ny = 2\n", "[s]\nx = 1\n[s.t]\ny = 3\nz = 4\n"},
		{"array insert middle", "a = [1, 2, 3]\n", "a = [1, 9, 2, 3]\n"},
		{"array delete", "a = [1, 2, 3, 4]\n", "a = [1, 4]\n"},
		{"array replace", "a = [1, 2, 3]\n", "a = [1, x, 3]\n"},
		{"array of objects", "a = [{ k = 1 }, { k = 2 }]\n", "a = [{ k = 1 }, { k = 5 }, { k = 6 }]\n"},
		{"array grow and shrink", "a = [a, b, c, d]\n", "a = [x, b, y, z, w]\n"},
		{"string edit", `s = "the quick brown fox jumps"` + "\n", `s = "the quick red fox jumps"` + "\n"},
		{"multiline", "s = \"\none\ntwo\nthree\n\"\n", "s = \"\none\n2\nthree\n\"\n"},
		{"null to value", "a = null\n", "a = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := mustParse(t, tt.from)
			to := mustParse(t, tt.to)
			changes := Diff(from, to)
			if (len(changes) == 0) != ir.Equal(from, to) {
				t.Fatalf("changes = %v", changes)
			}
			got, err := Apply(from, changes)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(to, got, irEqual); diff != "" {
				t.Errorf("apply (-want +got):\n%s", diff)
			}
			back, err := Apply(to, Reverse(changes))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(from, back, irEqual); diff != "" {
				t.Errorf("reverse (-want +got):\n%s", diff)
			}
			if !ir.Equal(from, mustParse(t, tt.from)) {
				t.Error("Apply modified its input")
			}

			read, err := FromValue(ToValue(changes))
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(changes, read) {
				t.Errorf("document form: %v != %v", read, changes)
			}
		})
	}
}

func TestArrayAlignment(t *testing.T) {
	changes := Diff(mustParse(t, "a = [1, 2, 3]\n"), mustParse(t, "a = [1, 9, 2, 3]\n"))
	if len(changes) != 1 || changes[0].Op != Insert || changes[0].Path.String() != "a[1]" {
		t.Errorf("got %v", changes)
	}
}

func TestStringEdits(t *testing.T) {
	changes := Diff(ir.String("the quick brown fox"), ir.String("the quick red fox"))
	if len(changes) != 1 || len(changes[0].Edits) == 0 {
		t.Fatalf("got %v", changes)
	}
	changes = Diff(ir.String("abc"), ir.String("xyz"))
	if len(changes) != 1 || changes[0].Edits != nil {
		t.Errorf("mostly changed string has edits: %v", changes)
	}
	edits := DiffString("hello world", "hello there world")
	s, err := ApplyEdits("hello world", edits)
	if err != nil || s != "hello there world" {
		t.Errorf("ApplyEdits = %q %v", s, err)
	}
	if _, err := ApplyEdits("goodbye world", edits); !errors.Is(err, ErrConflict) {
		t.Errorf("conflict: %v", err)
	}
}

func TestConflict(t *testing.T) {
	changes := Diff(mustParse(t, "a = 1\n"), mustParse(t, "a = 2\n"))
	if _, err := Apply(mustParse(t, "a = 5\n"), changes); !errors.Is(err, ErrConflict) {
		t.Errorf("got %v", err)
	}
	ins := Diff(mustParse(t, "x = 1\n"), mustParse(t, "x = 1\na = 2\n"))
	if _, err := Apply(mustParse(t, "a = 2\n"), ins); !errors.Is(err, ErrConflict) {
		t.Errorf("insert over existing: %v", err)
	}
}

func TestWrite(t *testing.T) {
	changes := Diff(
		mustParse(t, "a = 1\nb = x\ns = \"one two three four\"\n"),
		mustParse(t, "a = 2\nc = [1]\ns = \"one two 3 four\"\n"),
	)
	buf := &bytes.Buffer{}
	if err := Write(buf, changes, false); err != nil {
		t.Fatal(err)
	}
	want := "~ a: 1 -> 2\n- b = x\n~ s: one two [-three-]{+3+} four\n+ c = [ 1 ]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
