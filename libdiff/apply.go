package libdiff

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/cfgtree/ir"
)

var (
	ErrConflict = errors.New("diff does not apply")
	ErrBadDiff  = errors.New("bad diff")
)

// Apply applies changes in order to a deep copy of doc. Each change must
// find the value it records as From.
func Apply(doc ir.Value, changes []Change) (ir.Value, error) {
	res := doc.Clone()
	for i := range changes {
		var err error
		if res, err = apply(res, &changes[i]); err != nil {
			return ir.Null(), err
		}
	}
	return res, nil
}

func apply(root ir.Value, c *Change) (ir.Value, error) {
	if len(c.Path) == 0 {
		if c.Op != Replace {
			return ir.Null(), fmt.Errorf("%w: %s at the root", ErrBadDiff, c.Op)
		}
		to, err := replacement(root, c)
		if err != nil {
			return ir.Null(), err
		}
		return to, nil
	}
	parent, err := root.Lookup(c.Path[:len(c.Path)-1].Strings()...)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: %s: %w", ErrConflict, c.Path, err)
	}
	last := c.Path[len(c.Path)-1]
	switch parent.Type() {
	case ir.ObjectType:
		if last.IsIndex {
			return ir.Null(), fmt.Errorf("%w: index into object at %s", ErrConflict, c.Path)
		}
		obj, _ := parent.Object()
		cur, exists := obj.Get(last.Field)
		switch c.Op {
		case Insert:
			if exists {
				return ir.Null(), fmt.Errorf("%w: %s already exists", ErrConflict, c.Path)
			}
			obj.Insert(last.Field, c.To.Clone())
		case Delete:
			if !exists || !ir.Equal(cur, c.From) {
				return ir.Null(), mismatch(c, cur, exists)
			}
			obj.Delete(last.Field)
		case Replace:
			if !exists {
				return ir.Null(), mismatch(c, cur, exists)
			}
			to, err := replacement(cur, c)
			if err != nil {
				return ir.Null(), err
			}
			obj.Insert(last.Field, to)
		}
	case ir.ArrayType:
		if !last.IsIndex {
			return ir.Null(), fmt.Errorf("%w: field of array at %s", ErrConflict, c.Path)
		}
		arr, _ := parent.Array()
		i := last.Index
		exists := i < arr.Len()
		cur := arr.Get(i)
		switch c.Op {
		case Insert:
			if i > arr.Len() {
				return ir.Null(), fmt.Errorf("%w: insert at %s past end %d", ErrConflict, c.Path, arr.Len())
			}
			arr.Insert(i, c.To.Clone())
		case Delete:
			if !exists || !ir.Equal(cur, c.From) {
				return ir.Null(), mismatch(c, cur, exists)
			}
			arr.Remove(i)
		case Replace:
			if !exists {
				return ir.Null(), mismatch(c, cur, exists)
			}
			to, err := replacement(cur, c)
			if err != nil {
				return ir.Null(), err
			}
			arr.Set(i, to)
		}
	default:
		return ir.Null(), fmt.Errorf("%w: %s is under a %s", ErrConflict, c.Path, parent.Type())
	}
	return root, nil
}

// replacement checks cur against c.From and returns the new value.
func replacement(cur ir.Value, c *Change) (ir.Value, error) {
	if !ir.Equal(cur, c.From) {
		return ir.Null(), mismatch(c, cur, true)
	}
	if len(c.Edits) == 0 {
		return c.To.Clone().WithComment(cur.Comment()), nil
	}
	s, _ := cur.Str()
	res, err := ApplyEdits(s, c.Edits)
	if err != nil {
		return ir.Null(), fmt.Errorf("%s: %w", c.Path, err)
	}
	return ir.String(res).WithComment(cur.Comment()), nil
}

func mismatch(c *Change, cur ir.Value, exists bool) error {
	if !exists {
		return fmt.Errorf("%w: %s %s: nothing there", ErrConflict, c.Op, c.Path)
	}
	return fmt.Errorf("%w: %s %s: expected %s, found %s", ErrConflict, c.Op, c.Path, c.From.Inline(), cur.Inline())
}

// Reverse returns the changes undoing changes.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		r := Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Insert:
			r.Op = Delete
		case Delete:
			r.Op = Insert
		case Replace:
			r.Op = Replace
			if c.Edits != nil {
				r.Edits = ReverseEdits(c.Edits)
			}
		}
		res[len(changes)-1-i] = r
	}
	return res
}

// Equal reports whether two change lists are the same.
func Equal(a, b []Change) bool {
	return slices.EqualFunc(a, b, func(x, y Change) bool {
		return x.Op == y.Op &&
			x.Path.String() == y.Path.String() &&
			ir.Equal(x.From, y.From) &&
			ir.Equal(x.To, y.To) &&
			slices.Equal(x.Edits, y.Edits)
	})
}
