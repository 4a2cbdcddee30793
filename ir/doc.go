// Package ir provides the in-memory document tree shared by every format.
//
// # Values
//
// A [Value] is a tagged union holding one of null, bool, int64, float64,
// string, array or object, plus an optional comment carried by the INI
// dialect:
//
//	v := ir.Int(42)
//	s := ir.String("hello")
//	obj := ir.ObjectOf(ir.KV("name", s), ir.KV("n", v))
//
// # Shared handles
//
// Arrays and objects live behind *[Array] and *[Object] handles. Copying a
// Value copies the handle, so a container taken out of a parent is a live
// alias:
//
//	child := parent.Child("x")
//	child.Set("y", ir.Int(1)) // visible as parent.x.y
//
// [Value.Clone], [Array.Clone] and [Object.Clone] are the only deep copies.
//
// # Objects
//
// Objects keep insertion order. [Object.Set] is assignment: storing null
// deletes the key (shallowly, leaving emptied parents in place), while
// [Object.Insert] stores null verbatim and is what parsers use.
// [Object.Child] and [Object.SetPath] create missing intermediate objects.
//
// # Paths
//
// Lookup functions take variadic path segments; a segment indexes an array
// when the current node is an array. [ParsePath] reads the dotted form
// `a.b[2].'c.d'`. Missing paths produce errors wrapping [ErrUndefined],
// paths through scalars produce [ErrTypeMismatch].
package ir
