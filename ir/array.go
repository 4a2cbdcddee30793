package ir

import "iter"

// Array is an ordered, growable sequence of values. *Array is a shared
// handle: all holders observe the same storage.
type Array struct {
	items []Value
}

func NewArray(vs ...Value) *Array {
	a := &Array{items: make([]Value, len(vs))}
	copy(a.items, vs)
	return a
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Get returns the value at i, or null if i is out of range.
func (a *Array) Get(i int) Value {
	if a == nil || i < 0 || i >= len(a.items) {
		return Null()
	}
	return a.items[i]
}

// Set stores v at i, growing the array with nulls if i is past the end.
func (a *Array) Set(i int, v Value) {
	if i < 0 {
		panic("ir: negative array index")
	}
	if i >= len(a.items) {
		a.items = append(a.items, make([]Value, i+1-len(a.items))...)
	}
	a.items[i] = v
}

func (a *Array) Add(vs ...Value) {
	a.items = append(a.items, vs...)
}

// Insert places v before index i; i == Len() appends.
func (a *Array) Insert(i int, v Value) {
	if i >= len(a.items) {
		a.Set(i, v)
		return
	}
	a.items = append(a.items, Value{})
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = v
}

// Remove deletes the value at i. It reports whether i was in range.
func (a *Array) Remove(i int) bool {
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
	return true
}

func (a *Array) Clear() {
	a.items = a.items[:0]
}

// TypeAt returns the type of the value at i; out of range is NullType.
func (a *Array) TypeAt(i int) Type {
	return a.Get(i).typ
}

func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if a == nil {
			return
		}
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns a copy of the item slice. Containers inside still alias.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	res := make([]Value, len(a.items))
	copy(res, a.items)
	return res
}

func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	res := &Array{items: make([]Value, len(a.items))}
	for i, v := range a.items {
		res.items[i] = v.Clone()
	}
	return res
}

func (a *Array) String() string {
	return FromArray(a).String()
}
