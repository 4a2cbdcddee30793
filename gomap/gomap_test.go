package gomap

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/cfgtree/ir"
)

var irEqual = cmp.Comparer(ir.Equal)

func TestNumbers(t *testing.T) {
	f := ir.Float(2.9)
	i := ir.Int(3)
	if Is[int64](f) {
		t.Error("Is[int64] on a float")
	}
	if !Is[float64](i) || !Is[float32](f) {
		t.Error("Is[float] on a number")
	}
	if got := As[int64](f); got != 2 {
		t.Errorf("float to int: got %d", got)
	}
	if got := As[int](ir.Float(-2.9)); got != -2 {
		t.Errorf("negative float to int: got %d", got)
	}
	if got := As[float32](i); got != 3 {
		t.Errorf("int to float32: got %v", got)
	}
	if Is[int8](ir.Int(300)) {
		t.Error("Is[int8] on 300")
	}
	if _, err := Get[int8](ir.Int(300)); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("int8 overflow: %v", err)
	}
	if _, err := Get[uint](ir.Int(-1)); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("negative to uint: %v", err)
	}
	if _, err := Get[int64](ir.Float(math.Inf(1))); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("inf to int: %v", err)
	}
	if _, err := Get[int](ir.String("12")); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("string to int: %v", err)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		v    ir.Value
		want string
	}{
		{ir.Bool(true), "true"},
		{ir.Int(-4), "-4"},
		{ir.Float(1), "1.0"},
		{ir.String("as is"), "as is"},
		{ir.ArrayOf(ir.Int(1), ir.Int(2)), "[ 1, 2 ]"},
		{ir.ObjectOf(ir.KV("k", ir.String("v"))), "{ k = v }"},
	}
	for _, tt := range tests {
		got, err := Get[string](tt.v)
		if err != nil {
			t.Errorf("%v: %v", tt.v.Type(), err)
			continue
		}
		if got != tt.want {
			t.Errorf("got %q want %q", got, tt.want)
		}
	}
	if Is[string](ir.Int(1)) {
		t.Error("Is[string] on an int")
	}
}

func TestPathErrors(t *testing.T) {
	doc := ir.ObjectOf(ir.KV("a", ir.ObjectOf(ir.KV("b", ir.Int(1)))))
	_, err := Get[int](doc, "a", "missing")
	if !errors.Is(err, ir.ErrUndefined) {
		t.Fatalf("got %v", err)
	}
	var ce *ConvertError
	if !errors.As(err, &ce) || strings.Join(ce.Path, ".") != "a.missing" {
		t.Errorf("path: %v", err)
	}
	_, err = Get[bool](doc, "a", "b")
	if !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("got %v", err)
	}
	_, err = Get[int](doc, "a", "b", "c")
	if !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("through leaf: %v", err)
	}
	if got := GetOr(doc, 7, "nope"); got != 7 {
		t.Errorf("GetOr = %d", got)
	}
	out := 99
	if TryGet(doc, &out, "a") || out != 99 {
		t.Errorf("TryGet changed out to %d", out)
	}
	if !TryGet(doc, &out, "a", "b") || out != 1 {
		t.Errorf("TryGet = %d", out)
	}
}

type window struct {
	Title   string   `cfg:"title"`
	Width   int      `cfg:"width"`
	Visible bool     `cfg:"visible,omitempty"`
	Tags    []string `cfg:"tags,omitempty"`
	Parent  *window  `cfg:"parent"`
	Skip    int      `cfg:"-"`
	hidden  int
}

func TestStruct(t *testing.T) {
	doc := ir.ObjectOf(
		ir.KV("title", ir.String("main")),
		ir.KV("width", ir.Int(640)),
		ir.KV("tags", ir.ArrayOf(ir.String("a"), ir.String("b"))),
		ir.KV("parent", ir.ObjectOf(ir.KV("title", ir.String("root")), ir.KV("width", ir.Int(1)))),
		ir.KV("Skip", ir.Int(5)),
	)
	if !Is[window](doc) {
		t.Fatal("Is[window] = false")
	}
	w, err := Get[window](doc)
	if err != nil {
		t.Fatal(err)
	}
	want := window{Title: "main", Width: 640, Tags: []string{"a", "b"}, Parent: &window{Title: "root", Width: 1}}
	if diff := cmp.Diff(want, w, cmp.AllowUnexported(window{})); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	back, err := FromGo(w)
	if err != nil {
		t.Fatal(err)
	}
	o, _ := doc.Object()
	o.Delete("Skip")
	if diff := cmp.Diff(doc, back, irEqual); diff != "" {
		t.Errorf("FromGo (-want +got):\n%s", diff)
	}

	missing := ir.ObjectOf(ir.KV("title", ir.String("x")))
	if Is[window](missing) {
		t.Error("Is[window] without width")
	}
	_, err = Get[window](missing)
	var ce *ConvertError
	if !errors.Is(err, ir.ErrUndefined) || !errors.As(err, &ce) || ce.Path[0] != "width" {
		t.Errorf("missing width: %v", err)
	}
}

func TestOptional(t *testing.T) {
	doc := ir.ObjectOf(ir.KV("n", ir.Int(3)), ir.KV("s", ir.String("x")))
	if p := As[*int](doc, "n"); p == nil || *p != 3 {
		t.Errorf("present: %v", p)
	}
	p, err := Get[*int](doc, "absent")
	if err != nil || p != nil {
		t.Errorf("absent: %v %v", p, err)
	}
	p, err = Get[*int](doc, "s")
	if err != nil || p != nil {
		t.Errorf("mismatch: %v %v", p, err)
	}
	if !Is[*int](doc, "absent") {
		t.Error("optional Is on absent path")
	}
}

type pair struct {
	Tuple
	Name  string
	Count int
}

func TestTupleAndArrays(t *testing.T) {
	v := ir.ArrayOf(ir.String("n"), ir.Int(2))
	p, err := Get[pair](v)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "n" || p.Count != 2 {
		t.Errorf("got %+v", p)
	}
	if Is[pair](ir.ArrayOf(ir.String("n"))) {
		t.Error("short tuple")
	}
	back, err := FromGo(p)
	if err != nil || !ir.Equal(back, v) {
		t.Errorf("FromGo = %v %v", back, err)
	}

	if Is[[3]int](ir.ArrayOf(ir.Int(1), ir.Int(2))) {
		t.Error("Go array length not checked")
	}
	a, err := Get[[2]int](ir.ArrayOf(ir.Int(1), ir.Int(2)))
	if err != nil || a != [2]int{1, 2} {
		t.Errorf("Get[[2]int] = %v %v", a, err)
	}
}

func TestSetsAndMaps(t *testing.T) {
	v := ir.ArrayOf(ir.String("b"), ir.String("a"), ir.String("b"))
	set, err := Get[map[string]struct{}](v)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 {
		t.Errorf("set = %v", set)
	}
	back, err := FromGo(set)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ir.ArrayOf(ir.String("a"), ir.String("b")), back, irEqual); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	flags := As[map[int]bool](ir.ArrayOf(ir.Int(3), ir.Int(1)))
	if !flags[3] || !flags[1] || len(flags) != 2 {
		t.Errorf("bool set = %v", flags)
	}

	obj := ir.ObjectOf(ir.KV("10", ir.String("ten")), ir.KV("2", ir.String("two")))
	m, err := Get[map[int]string](obj)
	if err != nil {
		t.Fatal(err)
	}
	if m[10] != "ten" || m[2] != "two" {
		t.Errorf("map = %v", m)
	}
	if Is[map[int]string](ir.ObjectOf(ir.KV("x", ir.String("y")))) {
		t.Error("non-numeric key accepted")
	}
	back, err = FromGo(map[string]int{"z": 1, "a": 2})
	if err != nil {
		t.Fatal(err)
	}
	bo, _ := back.Object()
	if diff := cmp.Diff([]string{"a", "z"}, bo.Keys()); diff != "" {
		t.Errorf("keys not sorted: %s", diff)
	}
}

type shape int

const (
	circle shape = iota
	square
)

type level int

func (l level) MarshalText() ([]byte, error) {
	return []byte(strings.Repeat("*", int(l))), nil
}

func (l *level) UnmarshalText(d []byte) error {
	if strings.Trim(string(d), "*") != "" {
		return fmt.Errorf("bad level %q", d)
	}
	*l = level(len(d))
	return nil
}

func TestEnums(t *testing.T) {
	RegisterEnum(map[shape]string{circle: "Circle", square: "Square"})
	if got := As[shape](ir.String("Square")); got != square {
		t.Errorf("got %v", got)
	}
	if Is[shape](ir.String("square")) {
		t.Error("enum names are case sensitive")
	}
	if _, err := Get[shape](ir.String("Triangle")); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("unknown name: %v", err)
	}
	v, err := FromGo(circle)
	if err != nil || !ir.Equal(v, ir.String("Circle")) {
		t.Errorf("FromGo = %v %v", v, err)
	}
	if _, err := FromGo(shape(7)); err == nil {
		t.Error("unnamed value encoded")
	}
	byShape, err := Get[map[shape]int](ir.ObjectOf(ir.KV("Circle", ir.Int(1))))
	if err != nil || byShape[circle] != 1 {
		t.Errorf("enum keys: %v %v", byShape, err)
	}

	if got := As[level](ir.String("***")); got != 3 {
		t.Errorf("text enum = %d", got)
	}
	if Is[level](ir.String("x")) {
		t.Error("Is accepted a bad text value")
	}
	v, err = FromGo(level(2))
	if err != nil || !ir.Equal(v, ir.String("**")) {
		t.Errorf("FromGo = %v %v", v, err)
	}
}

type celsius float64

func (c celsius) ToValue() (ir.Value, error) {
	return ir.String(fmt.Sprintf("%gC", float64(c))), nil
}

func (c *celsius) FromValue(v ir.Value) error {
	s, ok := v.Str()
	if !ok || !strings.HasSuffix(s, "C") {
		return errors.New("not a temperature")
	}
	var f float64
	if _, err := fmt.Sscanf(s, "%gC", &f); err != nil {
		return err
	}
	*c = celsius(f)
	return nil
}

func TestCustomConversion(t *testing.T) {
	c, err := Get[celsius](ir.String("21.5C"))
	if err != nil || c != 21.5 {
		t.Errorf("got %v %v", c, err)
	}
	if Is[celsius](ir.Float(21.5)) {
		t.Error("Is ignored FromValue")
	}
	_, err = Get[celsius](ir.Int(1))
	if !errors.Is(err, ir.ErrTypeMismatch) || !strings.Contains(err.Error(), "not a temperature") {
		t.Errorf("got %v", err)
	}
	v, err := FromGo(struct {
		T celsius `cfg:"t"`
	}{T: 3})
	if err != nil || !ir.Equal(v, ir.ObjectOf(ir.KV("t", ir.String("3C")))) {
		t.Errorf("FromGo = %v %v", v, err)
	}
}

func TestPassthroughAliases(t *testing.T) {
	doc := ir.ObjectOf(ir.KV("sub", ir.ObjectOf()))
	sub, err := Get[*ir.Object](doc, "sub")
	if err != nil {
		t.Fatal(err)
	}
	sub.Set("k", ir.Int(1))
	if !doc.Has("sub", "k") {
		t.Error("*ir.Object is not a live alias")
	}
	if _, err := Get[*ir.Array](doc, "sub"); !errors.Is(err, ir.ErrTypeMismatch) {
		t.Errorf("got %v", err)
	}
	if !Is[ir.Value](ir.Null()) {
		t.Error("Is[ir.Value]")
	}
}

func TestFirstOf(t *testing.T) {
	tests := []struct {
		name string
		v    ir.Value
		want int
	}{
		{"ints", ir.ArrayOf(ir.Int(1), ir.Int(2), ir.Int(3)), 0},
		{"strings", ir.ArrayOf(ir.String("a"), ir.String("b")), 1},
		{"empty picks first", ir.ArrayOf(), 0},
		{"mixed", ir.ArrayOf(ir.Int(1), ir.String("b")), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				ints []int64
				strs []string
			)
			got, err := FirstOf(tt.v, &ints, &strs)
			if got != tt.want {
				t.Fatalf("got %d want %d (%v)", got, tt.want, err)
			}
			switch got {
			case -1:
				if !errors.Is(err, ir.ErrTypeMismatch) {
					t.Errorf("got %v", err)
				}
			case 0:
				if len(ints) != arrLen(tt.v) {
					t.Errorf("ints = %v", ints)
				}
			case 1:
				if len(strs) != arrLen(tt.v) {
					t.Errorf("strs = %v", strs)
				}
			}
		})
	}
}

func arrLen(v ir.Value) int {
	a, _ := v.Array()
	return a.Len()
}

func TestToGoAny(t *testing.T) {
	doc := ir.ObjectOf(
		ir.KV("a", ir.ArrayOf(ir.Int(1), ir.Float(2.5), ir.Null())),
		ir.KV("b", ir.Bool(true)),
	)
	var got any
	if err := ToGo(doc, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": []any{int64(1), 2.5, nil}, "b": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if err := ToGo(doc, got); err == nil {
		t.Error("non-pointer accepted")
	}
	if diff := cmp.Diff(want, ToAny(doc)); diff != "" {
		t.Errorf("ToAny (-want +got):\n%s", diff)
	}
}

func TestToAny(t *testing.T) {
	tests := []struct {
		in   ir.Value
		want any
	}{
		{in: ir.Null(), want: nil},
		{in: ir.Int(math.MinInt64), want: int64(math.MinInt64)},
		{in: ir.Float(math.Inf(-1)), want: math.Inf(-1)},
		{in: ir.String(""), want: ""},
		{in: ir.ArrayOf(), want: []any{}},
		{in: ir.ObjectOf(), want: map[string]any{}},
		{in: ir.ArrayOf(ir.ObjectOf(ir.KV("x", ir.Null()))), want: []any{map[string]any{"x": nil}}},
	}
	for _, tt := range tests {
		got := ToAny(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%v (-want +got):\n%s", tt.in, diff)
		}
		var dec any
		if err := ToGo(tt.in, &dec); err != nil {
			t.Errorf("%v: ToGo: %v", tt.in, err)
		} else if diff := cmp.Diff(got, dec); diff != "" {
			t.Errorf("%v: ToGo and ToAny differ:\n%s", tt.in, diff)
		}
	}
}
