package ir

// Value is a node in a document tree. It holds exactly one of null, bool,
// int64, float64, string, *Array or *Object.
//
// Values have value semantics for scalars. Containers are handles: copying
// a Value holding an array or object copies the handle, and every copy
// observes mutations made through any other. Use Clone for a deep copy.
type Value struct {
	typ     Type
	b       bool
	i       int64
	f       float64
	s       string
	arr     *Array
	obj     *Object
	comment string
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{typ: BoolType, b: b} }

func Int(i int64) Value { return Value{typ: IntType, i: i} }

func Float(f float64) Value { return Value{typ: FloatType, f: f} }

func String(s string) Value { return Value{typ: StringType, s: s} }

// FromArray wraps an array handle. A nil handle yields null.
func FromArray(a *Array) Value {
	if a == nil {
		return Null()
	}
	return Value{typ: ArrayType, arr: a}
}

// FromObject wraps an object handle. A nil handle yields null.
func FromObject(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{typ: ObjectType, obj: o}
}

// ArrayOf builds a new array value holding vs.
func ArrayOf(vs ...Value) Value {
	return FromArray(NewArray(vs...))
}

type KeyVal struct {
	Key string
	Val Value
}

// ObjectOf builds a new object value from kvs in order. Later duplicates
// replace earlier ones.
func ObjectOf(kvs ...KeyVal) Value {
	o := NewObject()
	for _, kv := range kvs {
		o.Insert(kv.Key, kv.Val)
	}
	return FromObject(o)
}

func KV(k string, v Value) KeyVal { return KeyVal{Key: k, Val: v} }

func (v Value) Type() Type { return v.typ }

func (v Value) IsNull() bool { return v.typ == NullType }

func (v Value) IsContainer() bool { return v.typ == ArrayType || v.typ == ObjectType }

func (v Value) Bool() (bool, bool) {
	return v.b, v.typ == BoolType
}

func (v Value) Int() (int64, bool) {
	return v.i, v.typ == IntType
}

func (v Value) Float() (float64, bool) {
	return v.f, v.typ == FloatType
}

// Number returns the numeric payload of an int or float node as a float64.
func (v Value) Number() (float64, bool) {
	switch v.typ {
	case IntType:
		return float64(v.i), true
	case FloatType:
		return v.f, true
	}
	return 0, false
}

func (v Value) Str() (string, bool) {
	return v.s, v.typ == StringType
}

func (v Value) Array() (*Array, bool) {
	return v.arr, v.typ == ArrayType
}

func (v Value) Object() (*Object, bool) {
	return v.obj, v.typ == ObjectType
}

// Comment returns the comment attached to v, if any. Comments are only
// carried through the INI dialect.
func (v Value) Comment() string { return v.comment }

func (v Value) WithComment(c string) Value {
	v.comment = c
	return v
}

// Clone returns a deep copy of v. Containers are copied recursively;
// comments are kept.
func (v Value) Clone() Value {
	switch v.typ {
	case ArrayType:
		v.arr = v.arr.Clone()
	case ObjectType:
		v.obj = v.obj.Clone()
	}
	return v
}

// Visit walks v depth first. f is called before (isPost false) and after
// (isPost true) the children of each node; returning false from the pre
// call skips the children.
func (v Value) Visit(f func(v Value, isPost bool) (bool, error)) error {
	dive, err := f(v, false)
	if err != nil {
		return err
	}
	if dive {
		switch v.typ {
		case ArrayType:
			for _, c := range v.arr.items {
				if err := c.Visit(f); err != nil {
					return err
				}
			}
		case ObjectType:
			for _, c := range v.obj.vals {
				if err := c.Visit(f); err != nil {
					return err
				}
			}
		}
	}
	if _, err := f(v, true); err != nil {
		return err
	}
	return nil
}

// Lookup resolves path starting at v. See Object.Lookup.
func (v Value) Lookup(path ...string) (Value, error) {
	cur := v
	for i, seg := range path {
		next, err := step(cur, seg)
		if err != nil {
			return Null(), pathErr(err, path[:i+1])
		}
		cur = next
	}
	return cur, nil
}

// LookupPath is Lookup with a dotted path string such as "a.b[2]".
func (v Value) LookupPath(p string) (Value, error) {
	segs, err := ParsePath(p)
	if err != nil {
		return Null(), err
	}
	return v.Lookup(segs.Strings()...)
}

func (v Value) Has(path ...string) bool {
	_, err := v.Lookup(path...)
	return err == nil
}
