package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
)

var (
	ErrSchema  = errors.New("schema error")
	ErrInvalid = errors.New("invalid")
)

// Group names reported in failures.
const (
	GroupAllOf  = "AllOf"
	GroupAnyOf  = "AnyOf"
	GroupOneOf  = "OneOf"
	GroupNoneOf = "NoneOf"
)

// nested schemas deeper than this fail instead of recursing further.
const maxDepth = 1000

type Schema struct {
	Name   string
	AllOf  []Property
	AnyOf  []Property
	OneOf  []Property
	NoneOf []Property
}

// Failure is one violated constraint. Name is the dotted path of the
// property below the validated object.
type Failure struct {
	Constraint string
	Name       string
	Group      string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s (%s)", f.Name, f.Constraint, f.Group)
}

type Result struct {
	Valid    bool
	Failures []Failure
}

func (r *Result) Error() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.String()
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func (s *Schema) Validate(obj *ir.Object) *Result {
	if obj == nil {
		obj = ir.NewObject()
	}
	fs := s.validate(obj, "", 0)
	if debug.Schema() {
		debug.Logf("schema %q: %d failures", s.Name, len(fs))
	}
	return &Result{Valid: len(fs) == 0, Failures: fs}
}

// ValidateValue is Validate for a value that must be an object.
func (s *Schema) ValidateValue(v ir.Value) *Result {
	obj, ok := v.Object()
	if !ok {
		return &Result{Failures: []Failure{{Constraint: ConstraintType, Group: GroupAllOf}}}
	}
	return s.Validate(obj)
}

func (s *Schema) validate(obj *ir.Object, prefix string, depth int) []Failure {
	if depth > maxDepth {
		return []Failure{{Constraint: ConstraintGroup, Name: prefix, Group: GroupAllOf}}
	}
	var res []Failure
	for i := range s.AllOf {
		res = append(res, grouped(s.AllOf[i].check(obj, prefix, depth), GroupAllOf)...)
	}
	if len(s.AnyOf) != 0 {
		var all []Failure
		matched := false
		for i := range s.AnyOf {
			fs := s.AnyOf[i].check(obj, prefix, depth)
			if len(fs) == 0 {
				matched = true
				break
			}
			all = append(all, fs...)
		}
		if !matched {
			res = append(res, grouped(all, GroupAnyOf)...)
		}
	}
	if len(s.OneOf) != 0 {
		var (
			all     []Failure
			matches []string
		)
		for i := range s.OneOf {
			fs := s.OneOf[i].check(obj, prefix, depth)
			if len(fs) == 0 {
				matches = append(matches, joinName(prefix, s.OneOf[i].Name))
				continue
			}
			all = append(all, fs...)
		}
		switch len(matches) {
		case 0:
			res = append(res, grouped(all, GroupOneOf)...)
		case 1:
		default:
			for _, name := range matches[1:] {
				res = append(res, Failure{Constraint: ConstraintGroup, Name: name, Group: GroupOneOf})
			}
		}
	}
	for i := range s.NoneOf {
		if len(s.NoneOf[i].check(obj, prefix, depth)) == 0 {
			res = append(res, Failure{
				Constraint: ConstraintGroup,
				Name:       joinName(prefix, s.NoneOf[i].Name),
				Group:      GroupNoneOf,
			})
		}
	}
	return res
}

// grouped sets the group of failures that have none yet. Failures from
// nested schemas keep theirs.
func grouped(fs []Failure, group string) []Failure {
	for i := range fs {
		if fs[i].Group == "" {
			fs[i].Group = group
		}
	}
	return fs
}
