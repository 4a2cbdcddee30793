// Package patch applies RFC 6902 JSON patches and RFC 7386 merge patches
// to documents.
//
// Documents and patches travel through their JSON form, so values JSON
// cannot hold (NaN and infinities) are errors. Object key order and
// comments of the input are kept for keys the patch leaves in place.
package patch

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/encode"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"

	jsonpatch "github.com/evanphx/json-patch"
)

var (
	ErrPatch = errors.New("patch error")
	// ErrTestFailed is returned when a "test" operation does not hold.
	ErrTestFailed = jsonpatch.ErrTestFailed
)

// Patch is a decoded RFC 6902 patch.
type Patch struct {
	ops jsonpatch.Patch
}

// Decode reads a JSON patch held as a document, i.e. an array of
// operations such as {op = add, path = /a/b, value = 1}.
func Decode(p ir.Value) (*Patch, error) {
	if p.Type() != ir.ArrayType {
		return nil, fmt.Errorf("%w: a JSON patch is an array, got %s", ErrPatch, p.Type())
	}
	d, err := toJSON(p)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return &Patch{ops: ops}, nil
}

func (p *Patch) Len() int { return len(p.ops) }

// Apply returns the result of applying p to doc, which must be an object
// or an array. doc is not modified.
func (p *Patch) Apply(doc ir.Value) (ir.Value, error) {
	if !doc.IsContainer() {
		return ir.Null(), fmt.Errorf("%w: cannot patch %s", ErrPatch, doc.Type())
	}
	if debug.Patch() {
		debug.Logf("json patch: %d operations on %s", len(p.ops), doc.Type())
	}
	d, err := toJSON(doc)
	if err != nil {
		return ir.Null(), err
	}
	out, err := p.ops.Apply(d)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return fromJSON(doc, out)
}

// Apply decodes the JSON patch p and applies it to doc.
func Apply(doc, p ir.Value) (ir.Value, error) {
	jp, err := Decode(p)
	if err != nil {
		return ir.Null(), err
	}
	return jp.Apply(doc)
}

// Merge applies the merge patch p to doc: objects in p merge key by key
// into doc, a null deletes a key, and anything else replaces.
func Merge(doc, p ir.Value) (ir.Value, error) {
	if debug.Patch() {
		debug.Logf("merge patch %s", p.Inline())
	}
	d, err := toJSON(doc)
	if err != nil {
		return ir.Null(), err
	}
	pd, err := toJSON(p)
	if err != nil {
		return ir.Null(), err
	}
	out, err := jsonpatch.MergePatch(d, pd)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return fromJSON(doc, out)
}

// CreateMerge returns a merge patch which takes from to to. Both must be
// objects.
func CreateMerge(from, to ir.Value) (ir.Value, error) {
	if from.Type() != ir.ObjectType || to.Type() != ir.ObjectType {
		return ir.Null(), fmt.Errorf("%w: merge patches are made between objects, got %s and %s", ErrPatch, from.Type(), to.Type())
	}
	fd, err := toJSON(from)
	if err != nil {
		return ir.Null(), err
	}
	td, err := toJSON(to)
	if err != nil {
		return ir.Null(), err
	}
	out, err := jsonpatch.CreateMergePatch(fd, td)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return fromJSON(to, out)
}

func toJSON(v ir.Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := encode.Encode(v, buf, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return buf.Bytes(), nil
}

func fromJSON(like ir.Value, d []byte) (ir.Value, error) {
	v, err := parse.Parse(d, parse.ParseJSON())
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: reading result: %w", ErrPatch, err)
	}
	return restore(like, v), nil
}

// restore reorders the keys of objects in v to follow like and copies
// over comments for nodes that kept their place.
func restore(like, v ir.Value) ir.Value {
	if like.Comment() != "" && v.Comment() == "" && like.Type() == v.Type() {
		v = v.WithComment(like.Comment())
	}
	switch v.Type() {
	case ir.ObjectType:
		lo, ok := like.Object()
		if !ok {
			return v
		}
		vo, _ := v.Object()
		res := ir.NewObject()
		for k, lv := range lo.All() {
			if item, ok := vo.Get(k); ok {
				res.Insert(k, restore(lv, item))
			}
		}
		for k, item := range vo.All() {
			if !res.Has(k) {
				res.Insert(k, item)
			}
		}
		return ir.FromObject(res).WithComment(v.Comment())
	case ir.ArrayType:
		la, ok := like.Array()
		if !ok || la.Len() != mustLen(v) {
			return v
		}
		va, _ := v.Array()
		for i, item := range va.All() {
			va.Set(i, restore(la.Get(i), item))
		}
	}
	return v
}

func mustLen(v ir.Value) int {
	a, _ := v.Array()
	return a.Len()
}
