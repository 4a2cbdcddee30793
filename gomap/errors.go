package gomap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/cfgtree/ir"
)

// ConvertError is returned by conversions in either direction. Err is
// ir.ErrUndefined when the path does not resolve and ir.ErrTypeMismatch
// otherwise.
type ConvertError struct {
	Path  []string
	Type  reflect.Type
	Node  ir.Type
	Err   error
	Msg   string
	Cause error
}

func (e *ConvertError) Error() string {
	buf := &strings.Builder{}
	buf.WriteString(e.Err.Error())
	if len(e.Path) != 0 {
		fmt.Fprintf(buf, " at %s", strings.Join(e.Path, "."))
	}
	switch {
	case e.Msg != "":
		fmt.Fprintf(buf, ": %s", e.Msg)
	case e.Type != nil && e.Err == ir.ErrTypeMismatch:
		fmt.Fprintf(buf, ": cannot convert %s to %s", e.Node, e.Type)
	}
	if e.Cause != nil {
		fmt.Fprintf(buf, ": %v", e.Cause)
	}
	return buf.String()
}

func (e *ConvertError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func mismatch(v ir.Value, t reflect.Type, path []string) *ConvertError {
	return &ConvertError{Path: path, Type: t, Node: v.Type(), Err: ir.ErrTypeMismatch}
}

func mismatchf(v ir.Value, t reflect.Type, path []string, format string, args ...any) *ConvertError {
	e := mismatch(v, t, path)
	e.Msg = fmt.Sprintf(format, args...)
	return e
}

func undefined(t reflect.Type, path []string) *ConvertError {
	return &ConvertError{Path: path, Type: t, Err: ir.ErrUndefined}
}

// sub returns path extended by seg without sharing storage with path.
func sub(path []string, seg string) []string {
	res := make([]string, len(path), len(path)+1)
	copy(res, path)
	return append(res, seg)
}
