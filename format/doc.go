// Package format names the document formats understood by cfgtree.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	f, ok := format.FromPath("settings.ini")
//	name := "out" + f.Suffix()
//
// # Related Packages
//
//   - github.com/signadot/cfgtree/parse - Parse text to IR
//   - github.com/signadot/cfgtree/encode - Encode IR to text
//   - github.com/signadot/cfgtree/docfile - Load and save by path
package format
