// Package gomap converts between cfgtree values and Go values.
//
// # Usage
//
//	type Window struct {
//	    Title string   `cfg:"title"`
//	    Size  geom.Size `cfg:"size"`
//	    Tags  []string  `cfg:"tags,omitempty"`
//	}
//	w, err := gomap.Get[Window](doc, "window")
//
//	// convenience forms
//	port := gomap.As[int](doc, "server", "port")
//	host := gomap.GetOr(doc, "localhost", "server", "host")
//
//	// Go to value
//	v, err := gomap.FromGo(w)
//
// Is reports whether a node has the shape a Go type expects without
// converting it. Get converts, widening between ints and floats for
// numeric targets and stringifying any node for string targets.
//
// # Mapping
//
//   - bool, ints, uints, floats and strings map to leaves.
//   - slices and Go arrays map to arrays; Go arrays need an exact length.
//   - map[T]struct{} and map[T]bool are sets and map to arrays.
//   - other maps map to objects; keys may be strings, integers, registered
//     enums or encoding.TextUnmarshaler implementations.
//   - structs map to objects keyed by the `cfg:"name,omitempty"` tag, or to
//     fixed-length arrays when they embed Tuple.
//   - pointers are optional: absent or mismatched nodes leave them nil.
//   - ir.Value, *ir.Object and *ir.Array are passed through as live aliases.
//
// Types may take over their own conversion by implementing ValueMarshaler
// and ValueUnmarshaler. Enums map to names through RegisterEnum or through
// encoding.TextMarshaler.
package gomap
