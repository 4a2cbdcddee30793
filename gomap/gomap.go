package gomap

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/cfgtree/ir"
)

// ValueMarshaler is implemented by types that build their own value.
type ValueMarshaler interface {
	ToValue() (ir.Value, error)
}

// ValueUnmarshaler is implemented by types that read themselves from a
// value. Is on such a type reports whether FromValue succeeds.
type ValueUnmarshaler interface {
	FromValue(ir.Value) error
}

// Tuple marks a struct as a fixed-length array. Its mapped fields are the
// array items in declaration order.
//
//	type Pair struct {
//	    gomap.Tuple
//	    Key   string
//	    Value int
//	}
type Tuple struct{}

// Is reports whether the node at path has the shape T expects.
func Is[T any](v ir.Value, path ...string) bool {
	node, err := v.Lookup(path...)
	t := reflect.TypeFor[T]()
	if err != nil {
		return t.Kind() == reflect.Pointer && !isPassthrough(t)
	}
	return check(node, t)
}

// Get converts the node at path to T. On failure it returns the zero T
// and a *ConvertError.
func Get[T any](v ir.Value, path ...string) (T, error) {
	var res T
	rv := reflect.ValueOf(&res).Elem()
	node, err := v.Lookup(path...)
	if err != nil {
		if rv.Kind() == reflect.Pointer && !isPassthrough(rv.Type()) {
			return res, nil
		}
		return res, lookupErr(err, rv.Type(), path)
	}
	if err := decode(node, rv, path); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}

// As is Get without the error.
func As[T any](v ir.Value, path ...string) T {
	res, _ := Get[T](v, path...)
	return res
}

// GetOr is Get with a default returned on any failure.
func GetOr[T any](v ir.Value, def T, path ...string) T {
	res, err := Get[T](v, path...)
	if err != nil {
		return def
	}
	return res
}

// TryGet stores the converted node in out and reports success. out is
// untouched on failure.
func TryGet[T any](v ir.Value, out *T, path ...string) bool {
	res, err := Get[T](v, path...)
	if err != nil {
		return false
	}
	*out = res
	return true
}

// ToGo converts v into the value ptr points to.
func ToGo(v ir.Value, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("gomap: ToGo needs a non-nil pointer, got %T", ptr)
	}
	return decode(v, rv.Elem(), nil)
}

// FromGo converts a Go value to a value.
func FromGo(x any) (ir.Value, error) {
	return encode(reflect.ValueOf(x), nil)
}

// FirstOf converts v into the first target whose Is check passes and
// returns its index. Targets must be pointers and are tried in order.
func FirstOf(v ir.Value, targets ...any) (int, error) {
	for i, target := range targets {
		rv := reflect.ValueOf(target)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return -1, fmt.Errorf("gomap: FirstOf target %d is %T, not a pointer", i, target)
		}
		if !check(v, rv.Type().Elem()) {
			continue
		}
		return i, decode(v, rv.Elem(), nil)
	}
	return -1, mismatchf(v, nil, nil, "no alternative of %d matches %s", len(targets), v.Type())
}

func lookupErr(err error, t reflect.Type, path []string) error {
	if errors.Is(err, ir.ErrUndefined) {
		return undefined(t, path)
	}
	return &ConvertError{Path: path, Type: t, Err: ir.ErrTypeMismatch, Msg: "path does not resolve"}
}
