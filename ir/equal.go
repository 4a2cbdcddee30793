package ir

import "math"

// Equal reports deep structural equality. Object key order and comments
// are ignored; Int(1) and Float(1) differ. NaN floats compare equal to
// each other so that round trips of NaN are checkable.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case NullType:
		return true
	case BoolType:
		return a.b == b.b
	case IntType:
		return a.i == b.i
	case FloatType:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case StringType:
		return a.s == b.s
	case ArrayType:
		if a.arr == b.arr {
			return true
		}
		if a.arr.Len() != b.arr.Len() {
			return false
		}
		for i := range a.arr.items {
			if !Equal(a.arr.items[i], b.arr.items[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if a.obj == b.obj {
			return true
		}
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for i, k := range a.obj.keys {
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(a.obj.vals[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Same reports whether a and b are the same node: equal scalars, or
// handles to the same container storage.
func Same(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case ArrayType:
		return a.arr == b.arr
	case ObjectType:
		return a.obj == b.obj
	}
	return Equal(a, b)
}
