package ir

import (
	"errors"
	"math"
	"testing"
)

func TestObjectAlias(t *testing.T) {
	root := NewObject()
	root.Insert("x", ObjectOf())
	v, _ := root.Get("x")
	a, ok := v.Object()
	if !ok {
		t.Fatal("x is not an object")
	}
	a.Set("y", Int(1))
	got, err := root.Lookup("x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := got.Int(); i != 1 {
		t.Errorf("got %v, want 1", got)
	}

	cp := v
	cpObj, _ := cp.Object()
	cpObj.Set("z", String("s"))
	if !root.Has("x", "z") {
		t.Error("copied handle does not alias")
	}
}

func TestArrayAlias(t *testing.T) {
	root := NewObject()
	root.Insert("list", ArrayOf(Int(1)))
	v, _ := root.Get("list")
	arr, _ := v.Array()
	arr.Add(Int(2))
	got, _ := root.Lookup("list")
	if a, _ := got.Array(); a.Len() != 2 {
		t.Errorf("got len %d, want 2", a.Len())
	}
}

func TestAutoVivify(t *testing.T) {
	obj := NewObject()
	obj.Child("a").Child("b").Set("c", Int(1))
	if !obj.Has("a", "b", "c") {
		t.Fatal("a.b.c not created")
	}
	if obj.Len() != 1 {
		t.Errorf("root has %d keys", obj.Len())
	}

	obj2 := NewObject()
	if err := obj2.SetPath(String("v"), "x", "y", "z"); err != nil {
		t.Fatal(err)
	}
	got, err := obj2.LookupPath("x.y.z")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := got.Str(); s != "v" {
		t.Errorf("got %v", got)
	}

	// a scalar in the way is replaced
	obj2.Insert("s", Int(3))
	obj2.Child("s").Set("k", Bool(true))
	if !obj2.Has("s", "k") {
		t.Error("scalar not replaced by object")
	}
}

func TestNullAssignmentDeletes(t *testing.T) {
	obj := NewObject()
	obj.Set("k", Int(1))
	obj.Set("other", Int(2))
	obj.Set("k", Null())
	if obj.Has("k") {
		t.Error("k still present")
	}
	if obj.Len() != 1 || obj.Keys()[0] != "other" {
		t.Errorf("keys = %v", obj.Keys())
	}

	obj.Child("a").Child("b").Set("c", Int(1))
	if err := obj.SetPath(Null(), "a", "b", "c"); err != nil {
		t.Fatal(err)
	}
	if obj.Has("a", "b", "c") {
		t.Error("a.b.c still present")
	}
	if !obj.Has("a", "b") {
		t.Error("deletion is not shallow")
	}

	obj.Insert("n", Null())
	if !obj.Has("n") {
		t.Error("Insert did not store null")
	}
}

func TestArrayAutoGrow(t *testing.T) {
	arr := NewArray()
	arr.Set(100, Int(1))
	if arr.Len() != 101 {
		t.Fatalf("len = %d, want 101", arr.Len())
	}
	for i := range 100 {
		if arr.TypeAt(i) != NullType {
			t.Fatalf("index %d is %s", i, arr.TypeAt(i))
		}
	}
	if arr.TypeAt(100) != IntType {
		t.Errorf("index 100 is %s", arr.TypeAt(100))
	}
	if arr.TypeAt(500) != NullType {
		t.Errorf("out of range is %s", arr.TypeAt(500))
	}
	arr.Insert(0, String("first"))
	if s, _ := arr.Get(0).Str(); s != "first" || arr.Len() != 102 {
		t.Errorf("insert: %v len %d", arr.Get(0), arr.Len())
	}
	if !arr.Remove(0) || arr.Len() != 101 {
		t.Errorf("remove: len %d", arr.Len())
	}
}

func TestObjectOrder(t *testing.T) {
	obj := NewObject()
	for _, k := range []string{"c", "a", "b"} {
		obj.Set(k, String(k))
	}
	obj.Set("a", Int(9))
	want := []string{"c", "a", "b"}
	keys := obj.Keys()
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	obj.Delete("c")
	i := 0
	for k, v := range obj.All() {
		switch i {
		case 0:
			if n, _ := v.Int(); k != "a" || n != 9 {
				t.Errorf("first = %s %v", k, v)
			}
		case 1:
			if k != "b" {
				t.Errorf("second = %s", k)
			}
		}
		i++
	}
	if got, ok := obj.Get("b"); !ok || got.Type() != StringType {
		t.Error("index not rebuilt after delete")
	}
}

func TestLookupErrors(t *testing.T) {
	obj := ObjectOf(
		KV("a", Int(1)),
		KV("list", ArrayOf(String("x"), ObjectOf(KV("k", Bool(true))))),
	)
	o, _ := obj.Object()
	if _, err := o.Lookup("missing"); !errors.Is(err, ErrUndefined) {
		t.Errorf("missing: %v", err)
	}
	if _, err := o.Lookup("a", "b"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("through scalar: %v", err)
	}
	if _, err := o.Lookup("list", "5"); !errors.Is(err, ErrUndefined) {
		t.Errorf("out of range: %v", err)
	}
	v, err := o.Lookup("list", "1", "k")
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := v.Bool(); !b {
		t.Errorf("got %v", v)
	}
	v, err = o.LookupPath("list[1].k")
	if err != nil || !Equal(v, Bool(true)) {
		t.Errorf("LookupPath: %v %v", v, err)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "a.b.c", want: "a.b.c"},
		{in: "$.a[0]", want: "a[0]"},
		{in: "a[1][2].b", want: "a[1][2].b"},
		{in: `'c.d'.e`, want: `'c.d'.e`},
		{in: `'it\'s'`, want: `'it\'s'`},
		{in: "", want: ""},
		{in: "a..b", err: true},
		{in: "a.", err: true},
		{in: "a[x]", err: true},
		{in: "a[0", err: true},
		{in: "a[0]b", err: true},
		{in: "'open", err: true},
	}
	for _, tt := range tests {
		p, err := ParsePath(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if p.String() != tt.want {
			t.Errorf("%q: got %q want %q", tt.in, p.String(), tt.want)
		}
	}
}

func TestEqualAndClone(t *testing.T) {
	a := ObjectOf(
		KV("n", Null()),
		KV("f", Float(math.NaN())),
		KV("arr", ArrayOf(Int(1), Float(1), ObjectOf(KV("x", String("y"))))),
	)
	b := a.Clone()
	if !Equal(a, b) {
		t.Fatal("clone not equal")
	}
	if Same(a, b) {
		t.Fatal("clone shares storage")
	}
	bo, _ := b.Object()
	bo.Child("new").Set("k", Int(1))
	if Equal(a, b) {
		t.Error("mutating clone changed original")
	}
	if Equal(Int(1), Float(1)) {
		t.Error("int and float compare equal")
	}
	reordered := ObjectOf(KV("y", Int(2)), KV("x", Int(1)))
	if !Equal(ObjectOf(KV("x", Int(1)), KV("y", Int(2))), reordered) {
		t.Error("object equality depends on order")
	}
	if Equal(ArrayOf(Int(1), Int(2)), ArrayOf(Int(2), Int(1))) {
		t.Error("array equality ignores order")
	}
}

func TestMerge(t *testing.T) {
	dst := ObjectOf(KV("a", Int(1)), KV("b", Int(2)))
	src := ObjectOf(KV("b", Int(20)), KV("c", Int(30)))
	do, _ := dst.Object()
	so, _ := src.Object()

	keep := do.Clone()
	keep.Merge(so, KeepExisting)
	if !Equal(FromObject(keep), ObjectOf(KV("a", Int(1)), KV("b", Int(2)), KV("c", Int(30)))) {
		t.Errorf("keep existing: %v", keep)
	}
	over := do.Clone()
	over.Merge(so, Overwrite)
	if !Equal(FromObject(over), ObjectOf(KV("a", Int(1)), KV("b", Int(20)), KV("c", Int(30)))) {
		t.Errorf("overwrite: %v", over)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-5), "-5"},
		{Float(2), "2.0"},
		{Float(0.5), "0.5"},
		{String("plain"), "plain"},
		{ArrayOf(), "[]"},
		{ObjectOf(), "{}"},
		{ArrayOf(Int(1), String("a b"), String("1")), `[ 1, a b, "1" ]`},
		{ObjectOf(KV("k", Int(1)), KV("s", ArrayOf(Bool(false)))), "{ k = 1, s = [ false ] }"},
		{ObjectOf(KV("a.b", String("x,y"))), `{ "a.b" = "x,y" }`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("got %q want %q", got, tt.want)
		}
	}
}

func TestTruth(t *testing.T) {
	if Truth(Null()) || Truth(Int(0)) || Truth(String("")) || Truth(ArrayOf()) {
		t.Error("zero values are truthy")
	}
	if !Truth(Float(0.1)) || !Truth(ObjectOf(KV("a", Null()))) {
		t.Error("non-zero values are falsy")
	}
}
