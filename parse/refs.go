package parse

import (
	"fmt"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

type resState int

const (
	unresolved resState = iota
	resolving
	resolved
)

// ref is an @path reference whose target did not exist where it appeared.
// It sits in the tree as a placeholder object until the final pass.
type ref struct {
	path  []string
	text  string
	pos   *token.Pos
	state resState
	val   ir.Value
}

// inherit is a pending `[section] @base` default merge.
type inherit struct {
	path  []string
	text  string
	pos   *token.Pos
	state resState
}

// refTable resolves references in two passes. During parsing, a reference
// whose target exists is replaced at once by a deep copy of the target;
// otherwise a placeholder is left in the tree. Once the document is
// complete, resolveAll replaces every reachable placeholder with a copy of
// its target in the final tree.
type refTable struct {
	root *ir.Object
	ph   map[*ir.Object]*ref
	inh  map[*ir.Object][]*inherit
}

func newRefTable(root *ir.Object) *refTable {
	return &refTable{
		root: root,
		ph:   map[*ir.Object]*ref{},
		inh:  map[*ir.Object][]*inherit{},
	}
}

func (t *refTable) placeholder(v ir.Value) (*ref, bool) {
	o, ok := v.Object()
	if !ok {
		return nil, false
	}
	r, ok := t.ph[o]
	return r, ok
}

func (t *refTable) isPlaceholder(o *ir.Object) bool {
	_, ok := t.ph[o]
	return ok
}

func (t *refTable) forward(path []string, text string, pos *token.Pos) ir.Value {
	o := ir.NewObject()
	t.ph[o] = &ref{path: path, text: text, pos: pos}
	if debug.Refs() {
		debug.Logf("@%s at %s: forward", text, pos)
	}
	return ir.FromObject(o)
}

// reference is called by the parser where @path appears.
func (t *refTable) reference(path []string, text string, pos *token.Pos) ir.Value {
	if v, ok := t.lookupNow(path); ok {
		if debug.Refs() {
			debug.Logf("@%s at %s: snapshot %s", text, pos, v.Inline())
		}
		return t.clone(v)
	}
	return t.forward(path, text, pos)
}

// inherit is called by the parser for `[section] @base`.
func (t *refTable) inherit(dst *ir.Object, path []string, text string, pos *token.Pos) error {
	v, ok := t.lookupNow(path)
	if !ok {
		t.inh[dst] = append(t.inh[dst], &inherit{path: path, text: text, pos: pos})
		return nil
	}
	src, isObj := v.Object()
	if !isObj {
		return posErr(fmt.Errorf("%w: section base @%s is %s", ErrNotObject, text, v.Type()), pos)
	}
	for k, c := range src.All() {
		if _, exists := dst.Get(k); !exists {
			dst.Insert(k, t.clone(c))
		}
	}
	for _, in := range t.inh[src] {
		t.inh[dst] = append(t.inh[dst], &inherit{path: in.path, text: in.text, pos: in.pos})
	}
	return nil
}

// lookupNow resolves path against the tree as built so far. It fails if
// the path is missing or runs through an unresolved placeholder.
func (t *refTable) lookupNow(path []string) (ir.Value, bool) {
	cur := ir.FromObject(t.root)
	for _, seg := range path {
		if _, ok := t.placeholder(cur); ok {
			return ir.Null(), false
		}
		next, err := cur.Lookup(seg)
		if err != nil {
			return ir.Null(), false
		}
		cur = next
	}
	return cur, true
}

// clone deep copies v. Placeholders in v become new placeholders for the
// same path and pending inherits are carried over to the copies.
func (t *refTable) clone(v ir.Value) ir.Value {
	switch v.Type() {
	case ir.ObjectType:
		o, _ := v.Object()
		if r, ok := t.ph[o]; ok {
			return t.forward(r.path, r.text, r.pos).WithComment(v.Comment())
		}
		res := ir.NewObject()
		for k, c := range o.All() {
			res.Insert(k, t.clone(c))
		}
		for _, in := range t.inh[o] {
			if in.state == resolved {
				continue
			}
			t.inh[res] = append(t.inh[res], &inherit{path: in.path, text: in.text, pos: in.pos})
		}
		return ir.FromObject(res).WithComment(v.Comment())
	case ir.ArrayType:
		a, _ := v.Array()
		res := ir.NewArray()
		for _, c := range a.All() {
			res.Add(t.clone(c))
		}
		return ir.FromArray(res).WithComment(v.Comment())
	default:
		return v
	}
}

func (t *refTable) resolveAll() error {
	if len(t.ph) == 0 && len(t.inh) == 0 {
		return nil
	}
	return t.resolveIn(ir.FromObject(t.root))
}

// resolveIn replaces every placeholder below v and applies pending
// inherits, in place.
func (t *refTable) resolveIn(v ir.Value) error {
	switch v.Type() {
	case ir.ObjectType:
		o, _ := v.Object()
		if err := t.applyInherits(o); err != nil {
			return err
		}
		for _, k := range o.Keys() {
			c, _ := o.Get(k)
			if r, ok := t.placeholder(c); ok {
				rv, err := t.resolve(r)
				if err != nil {
					return err
				}
				o.Insert(k, rv.WithComment(c.Comment()))
				continue
			}
			if err := t.resolveIn(c); err != nil {
				return err
			}
		}
	case ir.ArrayType:
		a, _ := v.Array()
		for i, c := range a.All() {
			if r, ok := t.placeholder(c); ok {
				rv, err := t.resolve(r)
				if err != nil {
					return err
				}
				a.Set(i, rv.WithComment(c.Comment()))
				continue
			}
			if err := t.resolveIn(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *refTable) resolve(r *ref) (ir.Value, error) {
	switch r.state {
	case resolved:
		return r.val, nil
	case resolving:
		return ir.Null(), posErr(fmt.Errorf("%w through @%s", ErrRefCycle, r.text), r.pos)
	}
	r.state = resolving
	target, err := t.lookupFinal(r.path, r.text, r.pos)
	if err != nil {
		return ir.Null(), err
	}
	if err := t.resolveIn(target); err != nil {
		return ir.Null(), err
	}
	r.val = t.clone(target).WithComment("")
	r.state = resolved
	if debug.Refs() {
		debug.Logf("@%s at %s: resolved %s", r.text, r.pos, r.val.Inline())
	}
	return r.val, nil
}

// lookupFinal resolves path in the completed tree, settling placeholders
// and inherits met on the way.
func (t *refTable) lookupFinal(path []string, text string, pos *token.Pos) (ir.Value, error) {
	cur := ir.FromObject(t.root)
	var err error
	for _, seg := range path {
		cur, err = t.settle(cur)
		if err != nil {
			return ir.Null(), err
		}
		next, lerr := cur.Lookup(seg)
		if lerr != nil {
			return ir.Null(), posErr(fmt.Errorf("%w @%s: %w", ErrNoRef, text, lerr), pos)
		}
		cur = next
	}
	return t.settle(cur)
}

func (t *refTable) settle(v ir.Value) (ir.Value, error) {
	if r, ok := t.placeholder(v); ok {
		rv, err := t.resolve(r)
		if err != nil {
			return ir.Null(), err
		}
		v = rv
	}
	if o, ok := v.Object(); ok {
		if err := t.applyInherits(o); err != nil {
			return ir.Null(), err
		}
	}
	return v, nil
}

func (t *refTable) applyInherits(dst *ir.Object) error {
	for _, in := range t.inh[dst] {
		switch in.state {
		case resolved:
			continue
		case resolving:
			return posErr(fmt.Errorf("%w through section base @%s", ErrRefCycle, in.text), in.pos)
		}
		in.state = resolving
		v, err := t.lookupFinal(in.path, in.text, in.pos)
		if err != nil {
			return err
		}
		src, ok := v.Object()
		if !ok {
			return posErr(fmt.Errorf("%w: section base @%s is %s", ErrNotObject, in.text, v.Type()), in.pos)
		}
		if err := t.resolveIn(v); err != nil {
			return err
		}
		for k, c := range src.All() {
			if _, exists := dst.Get(k); !exists {
				dst.Insert(k, t.clone(c))
			}
		}
		in.state = resolved
		if debug.Refs() {
			debug.Logf("section base @%s at %s: applied", in.text, in.pos)
		}
	}
	return nil
}
