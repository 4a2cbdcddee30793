package schema

import (
	"cmp"
	"math"
	"regexp"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/signadot/cfgtree/ir"
)

// Constraint names reported in failures.
const (
	ConstraintName      = "Name"
	ConstraintType      = "Type"
	ConstraintMinLength = "MinLength"
	ConstraintMaxLength = "MaxLength"
	ConstraintPattern   = "Pattern"
	ConstraintGlob      = "Glob"
	ConstraintMinValue  = "MinValue"
	ConstraintMaxValue  = "MaxValue"
	ConstraintMinSize   = "MinSize"
	ConstraintMaxSize   = "MaxSize"
	ConstraintItemType  = "ItemType"
	ConstraintGroup     = "Group"
)

// Property constrains one key of an object. Nil refinements are unset.
// Lengths count runes, bounds are inclusive.
type Property struct {
	Name string
	Kind Kind

	MinLength *int
	MaxLength *int
	// Pattern must match the whole string. It is an RE2 expression so
	// matching is linear in the length of the input.
	Pattern *regexp.Regexp
	Glob    glob.Glob

	MinValue *float64
	MaxValue *float64
	// MinInt and MaxInt are exact integer bounds. When set they take the
	// place of MinValue and MaxValue.
	MinInt *int64
	MaxInt *int64

	MinSize  *int
	MaxSize  *int
	ItemKind *Kind

	Schema *Schema
}

type PropOption func(*Property)

func Str(name string, opts ...PropOption) Property   { return newProp(name, StringKind, opts) }
func Int(name string, opts ...PropOption) Property   { return newProp(name, IntKind, opts) }
func Float(name string, opts ...PropOption) Property { return newProp(name, FloatKind, opts) }
func Bool(name string, opts ...PropOption) Property  { return newProp(name, BoolKind, opts) }
func Arr(name string, opts ...PropOption) Property   { return newProp(name, ArrayKind, opts) }
func Obj(name string, opts ...PropOption) Property   { return newProp(name, ObjectKind, opts) }

func newProp(name string, k Kind, opts []PropOption) Property {
	p := Property{Name: name, Kind: k}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func MinLength(n int) PropOption { return func(p *Property) { p.MinLength = &n } }
func MaxLength(n int) PropOption { return func(p *Property) { p.MaxLength = &n } }

// Pattern anchors expr to the whole string. It panics if expr does not
// compile; use CompilePattern for patterns read at run time.
func Pattern(expr string) PropOption {
	re := regexp.MustCompile(anchor(expr))
	return func(p *Property) { p.Pattern = re }
}

func Glob(pattern string) PropOption {
	g := glob.MustCompile(pattern)
	return func(p *Property) { p.Glob = g }
}

func MinValue(f float64) PropOption { return func(p *Property) { p.MinValue = &f } }
func MaxValue(f float64) PropOption { return func(p *Property) { p.MaxValue = &f } }
func MinInt(i int64) PropOption     { return func(p *Property) { p.MinInt = &i } }
func MaxInt(i int64) PropOption     { return func(p *Property) { p.MaxInt = &i } }
func MinSize(n int) PropOption      { return func(p *Property) { p.MinSize = &n } }
func MaxSize(n int) PropOption      { return func(p *Property) { p.MaxSize = &n } }
func ItemKind(k Kind) PropOption    { return func(p *Property) { p.ItemKind = &k } }
func WithSchema(s *Schema) PropOption {
	return func(p *Property) { p.Schema = s }
}

// CompilePattern compiles expr anchored to the whole string.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(anchor(expr))
}

func anchor(expr string) string {
	return `^(?:` + expr + `)$`
}

// check returns the failures of p against obj without a group. Nested
// schema failures come back with their own groups and dotted names.
func (p *Property) check(obj *ir.Object, prefix string, depth int) []Failure {
	name := joinName(prefix, p.Name)
	v, ok := obj.Get(p.Name)
	if !ok {
		return []Failure{{Constraint: ConstraintName, Name: name}}
	}
	if !p.Kind.Matches(v) {
		return []Failure{{Constraint: ConstraintType, Name: name}}
	}
	var res []Failure
	fail := func(c string) {
		res = append(res, Failure{Constraint: c, Name: name})
	}
	switch p.Kind {
	case StringKind:
		s, _ := v.Str()
		n := utf8.RuneCountInString(s)
		if p.MinLength != nil && n < *p.MinLength {
			fail(ConstraintMinLength)
		}
		if p.MaxLength != nil && n > *p.MaxLength {
			fail(ConstraintMaxLength)
		}
		if p.Pattern != nil && !p.Pattern.MatchString(s) {
			fail(ConstraintPattern)
		}
		if p.Glob != nil && !p.Glob.Match(s) {
			fail(ConstraintGlob)
		}
	case IntKind, FloatKind:
		if p.MinInt != nil || p.MinValue != nil {
			if c, ok := cmpBound(v, p.MinInt, p.MinValue); !ok || c < 0 {
				fail(ConstraintMinValue)
			}
		}
		if p.MaxInt != nil || p.MaxValue != nil {
			if c, ok := cmpBound(v, p.MaxInt, p.MaxValue); !ok || c > 0 {
				fail(ConstraintMaxValue)
			}
		}
	case ArrayKind:
		arr, _ := v.Array()
		if p.MinSize != nil && arr.Len() < *p.MinSize {
			fail(ConstraintMinSize)
		}
		if p.MaxSize != nil && arr.Len() > *p.MaxSize {
			fail(ConstraintMaxSize)
		}
		if p.ItemKind != nil {
			for _, item := range arr.All() {
				if !p.ItemKind.Matches(item) {
					fail(ConstraintItemType)
					break
				}
			}
		}
	case ObjectKind:
		if p.Schema != nil {
			sub, _ := v.Object()
			res = append(res, p.Schema.validate(sub, name, depth+1)...)
		}
	}
	return res
}

// cmpBound orders the number v against a bound, given as an int64 (i) or
// else a float64 (f). Integral operands compare as int64 so values past
// 2^53 keep their precision. ok is false when either side is NaN.
func cmpBound(v ir.Value, i *int64, f *float64) (c int, ok bool) {
	x, _ := v.Number()
	n, isInt := v.Int()
	if !isInt && integral(x) {
		n, isInt = int64(x), true
	}
	if i != nil {
		if isInt {
			return cmp.Compare(n, *i), true
		}
		if math.IsNaN(x) {
			return 0, false
		}
		return cmp.Compare(x, float64(*i)), true
	}
	b := *f
	if isInt && integral(b) {
		return cmp.Compare(n, int64(b)), true
	}
	if math.IsNaN(x) || math.IsNaN(b) {
		return 0, false
	}
	return cmp.Compare(x, b), true
}

// integral reports whether f is a whole number inside the int64 range.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + ir.PathField(name)
}

func compileGlob(pattern string) (glob.Glob, error) {
	return glob.Compile(pattern)
}
