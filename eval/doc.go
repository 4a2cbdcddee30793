// Package eval evaluates expressions against a document.
//
// Expressions use the expr language (github.com/expr-lang/expr). The
// environment is built from a document: each top-level key of an object
// becomes a variable, and the functions below are available.
//
//	getpath("a.b[0]")   the node at a path, or an error
//	haspath("a.b")      whether the path resolves
//	getenv("HOME")      an OS environment variable
//
// Strings inside a document may embed expressions. A string that is
// exactly ".[expr]" is replaced by the result of expr, which may be any
// value. Elsewhere "$[expr]" is replaced by the text of the result. Inside
// brackets, a backslash escapes the next character so "\]" does not close
// the expression.
package eval
