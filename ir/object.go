package ir

import (
	"fmt"
	"iter"
	"slices"
)

// Object is an insertion-ordered mapping from string keys to values.
// *Object is a shared handle: all holders observe the same storage.
type Object struct {
	keys  []string
	vals  []Value
	index map[string]int
}

func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for i, k := range o.keys {
			if !yield(k, o.vals[i]) {
				return
			}
		}
	}
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	i, ok := o.index[key]
	if !ok {
		return Null(), false
	}
	return o.vals[i], true
}

// Insert stores v under key, keeping the position of an existing key.
// Unlike Set, a null v is stored rather than deleting the key.
func (o *Object) Insert(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.vals[i] = v
		return
	}
	if o.index == nil {
		o.index = map[string]int{}
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
}

// Set is assignment: a null v deletes key (only key itself; emptied
// parents are left in place), anything else is stored as by Insert.
func (o *Object) Set(key string, v Value) {
	if v.IsNull() {
		o.Delete(key)
		return
	}
	o.Insert(key, v)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.keys = slices.Delete(o.keys, i, i+1)
	o.vals = slices.Delete(o.vals, i, i+1)
	delete(o.index, key)
	for j := i; j < len(o.keys); j++ {
		o.index[o.keys[j]] = j
	}
	return true
}

// Child returns the object stored under key, creating it if key is absent
// or holds a non-object. The result aliases the stored object.
func (o *Object) Child(key string) *Object {
	if v, ok := o.Get(key); ok && v.typ == ObjectType {
		return v.obj
	}
	c := NewObject()
	o.Insert(key, FromObject(c))
	return c
}

// SetPath assigns v at path, creating intermediate objects as needed.
// A null v deletes the final key only.
func (o *Object) SetPath(v Value, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrBadPath)
	}
	cur := o
	for _, seg := range path[:len(path)-1] {
		cur = cur.Child(seg)
	}
	cur.Set(path[len(path)-1], v)
	return nil
}

// Has reports whether path resolves from o.
func (o *Object) Has(path ...string) bool {
	if len(path) == 0 {
		return o != nil
	}
	_, err := o.Lookup(path...)
	return err == nil
}

// Lookup resolves path from o. Each segment is a key, or an index when the
// current node is an array. Errors wrap ErrUndefined or ErrTypeMismatch.
func (o *Object) Lookup(path ...string) (Value, error) {
	return FromObject(o).Lookup(path...)
}

func (o *Object) LookupPath(p string) (Value, error) {
	return FromObject(o).LookupPath(p)
}

type MergePolicy int

const (
	// Overwrite replaces existing keys with the source's values.
	Overwrite MergePolicy = iota
	// KeepExisting only adds keys missing from the destination.
	KeepExisting
)

// Merge copies src's top-level entries into o according to policy. Values
// are not cloned; containers end up shared between o and src.
func (o *Object) Merge(src *Object, policy MergePolicy) {
	for k, v := range src.All() {
		if _, ok := o.index[k]; ok && policy == KeepExisting {
			continue
		}
		o.Insert(k, v)
	}
}

func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	res := &Object{
		keys:  slices.Clone(o.keys),
		vals:  make([]Value, len(o.vals)),
		index: make(map[string]int, len(o.keys)),
	}
	for i, v := range o.vals {
		res.vals[i] = v.Clone()
		res.index[o.keys[i]] = i
	}
	return res
}

func (o *Object) String() string {
	return FromObject(o).String()
}
