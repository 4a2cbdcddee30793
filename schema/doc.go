// Package schema validates objects against declarative rules.
//
// A Schema holds four groups of property constraints:
//
//   - AllOf: every constraint must hold.
//   - AnyOf: at least one must hold.
//   - OneOf: exactly one must hold.
//   - NoneOf: none may hold.
//
// A Property names a key of the validated object, the Kind of value it
// must hold and refinements for that kind. Object properties may carry a
// nested Schema, which is validated against the nested object.
//
// Validation never fails outright; it returns a Result listing every
// Failure found.
//
// # Schemas as data
//
// FromObject builds a Schema from a document:
//
//	name = window
//	allof = [title, size]
//	anyof = [icon, color]
//
//	[properties]
//	title = { type = string, minlength = 1 }
//	size = { type = object, schema = size }
//	icon = { type = string, glob = "*.png" }
//	color = string
//
//	[schemas.size.properties]
//	width = { type = int, min = 1 }
//	height = { type = int, min = 1 }
//
// Named schemas may refer to each other and to themselves. Names not
// defined in the document are looked up in a Registry.
package schema
