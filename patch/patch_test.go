package patch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"
)

var irEqual = cmp.Comparer(ir.Equal)

func ini(t *testing.T, s string) ir.Value {
	t.Helper()
	v, err := parse.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func js(t *testing.T, s string) ir.Value {
	t.Helper()
	v, err := parse.ParseString(s, parse.ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	return v
}

const doc = `
# listener
[listen]
port = 80
host = example.com
[pool]
sizes = [1, 2]
ratio = 0.5
`

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  string
	}{
		{
			name:  "replace",
			patch: `[{"op": "replace", "path": "/listen/port", "value": 8080}]`,
			want:  "[listen]\nport = 8080\nhost = example.com\n[pool]\nsizes = [1, 2]\nratio = 0.5\n",
		},
		{
			name:  "add and remove",
			patch: `[{"op": "add", "path": "/pool/sizes/1", "value": 9}, {"op": "remove", "path": "/listen/host"}]`,
			want:  "[listen]\nport = 80\n[pool]\nsizes = [1, 9, 2]\nratio = 0.5\n",
		},
		{
			name:  "move",
			patch: `[{"op": "move", "from": "/pool/ratio", "path": "/listen/ratio"}]`,
			want:  "[listen]\nport = 80\nhost = example.com\nratio = 0.5\n[pool]\nsizes = [1, 2]\n",
		},
		{
			name:  "test passes",
			patch: `[{"op": "test", "path": "/listen/port", "value": 80}]`,
			want:  doc,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ini(t, doc)
			got, err := Apply(in, js(t, tt.patch))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(ini(t, tt.want), got, irEqual); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if !ir.Equal(in, ini(t, doc)) {
				t.Error("Apply modified its input")
			}
		})
	}
}

func TestApplyKeepsOrderAndComments(t *testing.T) {
	in := ini(t, doc)
	got, err := Apply(in, js(t, `[{"op": "add", "path": "/listen/tls", "value": true}]`))
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{}
	for k := range mustObject(t, got).All() {
		keys = append(keys, k)
	}
	if diff := cmp.Diff([]string{"listen", "pool"}, keys); diff != "" {
		t.Errorf("top keys (-want +got):\n%s", diff)
	}
	listen, _ := got.Lookup("listen")
	lkeys, _ := listen.Object()
	if diff := cmp.Diff([]string{"port", "host", "tls"}, lkeys.Keys()); diff != "" {
		t.Errorf("listen keys (-want +got):\n%s", diff)
	}
	if listen.Comment() == "" {
		t.Error("comment lost")
	}
	ratio, _ := got.Lookup("pool", "ratio")
	if ratio.Type() != ir.FloatType {
		t.Errorf("ratio is %s", ratio.Type())
	}
}

func mustObject(t *testing.T, v ir.Value) *ir.Object {
	t.Helper()
	o, ok := v.Object()
	if !ok {
		t.Fatalf("%s is not an object", v.Type())
	}
	return o
}

func TestApplyErrors(t *testing.T) {
	in := ini(t, doc)
	_, err := Apply(in, js(t, `[{"op": "test", "path": "/listen/port", "value": 81}]`))
	if !errors.Is(err, ErrTestFailed) || !errors.Is(err, ErrPatch) {
		t.Errorf("test op: %v", err)
	}
	if _, err := Apply(in, js(t, `{"op": "add"}`)); !errors.Is(err, ErrPatch) {
		t.Errorf("not an array: %v", err)
	}
	if _, err := Apply(ir.Int(1), js(t, `[]`)); !errors.Is(err, ErrPatch) {
		t.Errorf("scalar doc: %v", err)
	}
	if _, err := Apply(in, js(t, `[{"op": "remove", "path": "/nope/x"}]`)); !errors.Is(err, ErrPatch) {
		t.Errorf("missing path: %v", err)
	}
}

func TestMerge(t *testing.T) {
	got, err := Merge(ini(t, doc), js(t, `{"listen": {"host": null, "port": 443}, "extra": "x"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := ini(t, "extra = x\n[listen]\nport = 443\n[pool]\nsizes = [1, 2]\nratio = 0.5\n")
	if diff := cmp.Diff(want, got, irEqual); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCreateMerge(t *testing.T) {
	from := ini(t, doc)
	to := ini(t, "[listen]\nport = 443\nhost = example.com\n[pool]\nsizes = [3]\nratio = 0.5\n")
	mp, err := CreateMerge(from, to)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Merge(from, mp)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(to, got, irEqual); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := CreateMerge(ir.Int(1), to); !errors.Is(err, ErrPatch) {
		t.Errorf("scalar: %v", err)
	}
}
