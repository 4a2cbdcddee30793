package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/cfgtree/ir"
)

func encode(rv reflect.Value, path []string) (ir.Value, error) {
	if !rv.IsValid() {
		return ir.Null(), nil
	}
	t := rv.Type()
	switch t {
	case valueType:
		return rv.Interface().(ir.Value), nil
	case objectType:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return ir.FromObject(rv.Interface().(*ir.Object)), nil
	case arrayType:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return ir.FromArray(rv.Interface().(*ir.Array)), nil
	}
	if k := t.Kind(); k == reflect.Pointer || k == reflect.Interface {
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return encode(rv.Elem(), path)
	}
	if tab := enumFor(t); tab != nil {
		name, ok := tab.names[rv.Interface()]
		if !ok {
			return ir.Null(), encodeErr(t, path, "no name for %s value %v", t, rv.Interface())
		}
		return ir.String(name), nil
	}
	if m, ok := asInterface[ValueMarshaler](rv, marshalerType); ok {
		v, err := m.ToValue()
		if err != nil {
			e := encodeErr(t, path, "ToValue")
			e.Cause = err
			return ir.Null(), e
		}
		return v, nil
	}
	if m, ok := asInterface[encoding.TextMarshaler](rv, textMarshalerType); ok {
		d, err := m.MarshalText()
		if err != nil {
			e := encodeErr(t, path, "MarshalText")
			e.Cause = err
			return ir.Null(), e
		}
		return ir.String(string(d)), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return ir.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ir.Null(), encodeErr(t, path, "%d overflows int64", u)
		}
		return ir.Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.Float(rv.Float()), nil
	case reflect.String:
		return ir.String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		arr := ir.NewArray()
		for i := range rv.Len() {
			item, err := encode(rv.Index(i), sub(path, strconv.Itoa(i)))
			if err != nil {
				return ir.Null(), err
			}
			arr.Add(item)
		}
		return ir.FromArray(arr), nil
	case reflect.Map:
		return encodeMap(rv, path)
	case reflect.Struct:
		return encodeStruct(rv, path)
	}
	return ir.Null(), encodeErr(t, path, "unsupported Go type %s", t)
}

func encodeErr(t reflect.Type, path []string, format string, args ...any) *ConvertError {
	return &ConvertError{
		Path: path,
		Type: t,
		Err:  ir.ErrTypeMismatch,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// asInterface returns rv as I, taking the address of a copy when only
// the pointer type implements I.
func asInterface[I any](rv reflect.Value, it reflect.Type) (I, bool) {
	var zero I
	if rv.Type().Implements(it) {
		return rv.Interface().(I), true
	}
	if reflect.PointerTo(rv.Type()).Implements(it) {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface().(I), true
	}
	return zero, false
}

// encodeMap writes sets as arrays and other maps as objects, both sorted
// so output does not depend on map order.
func encodeMap(rv reflect.Value, path []string) (ir.Value, error) {
	t := rv.Type()
	if isSet(t.Elem()) {
		var items []ir.Value
		iter := rv.MapRange()
		for iter.Next() {
			if t.Elem().Kind() == reflect.Bool && !iter.Value().Bool() {
				continue
			}
			item, err := encode(iter.Key(), path)
			if err != nil {
				return ir.Null(), err
			}
			items = append(items, item)
		}
		slices.SortFunc(items, func(a, b ir.Value) int {
			return strings.Compare(a.Inline(), b.Inline())
		})
		return ir.ArrayOf(items...), nil
	}
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := formatKey(iter.Key())
		if err != nil {
			return ir.Null(), encodeErr(t.Key(), path, "%v", err)
		}
		entries = append(entries, entry{key: k, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})
	obj := ir.NewObject()
	for _, e := range entries {
		v, err := encode(e.val, sub(path, e.key))
		if err != nil {
			return ir.Null(), err
		}
		obj.Insert(e.key, v)
	}
	return ir.FromObject(obj), nil
}

func encodeStruct(rv reflect.Value, path []string) (ir.Value, error) {
	si := structInfoOf(rv.Type())
	if si.tuple {
		arr := ir.NewArray()
		for i := range si.fields {
			item, err := encode(rv.FieldByIndex(si.fields[i].index), sub(path, strconv.Itoa(i)))
			if err != nil {
				return ir.Null(), err
			}
			arr.Add(item)
		}
		return ir.FromArray(arr), nil
	}
	obj := ir.NewObject()
	for i := range si.fields {
		f := &si.fields[i]
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		v, err := encode(fv, sub(path, f.name))
		if err != nil {
			return ir.Null(), err
		}
		obj.Insert(f.name, v)
	}
	return ir.FromObject(obj), nil
}

func formatKey(k reflect.Value) (string, error) {
	t := k.Type()
	if tab := enumFor(t); tab != nil {
		name, ok := tab.names[k.Interface()]
		if !ok {
			return "", fmt.Errorf("no name for %s value %v", t, k.Interface())
		}
		return name, nil
	}
	if m, ok := asInterface[encoding.TextMarshaler](k, textMarshalerType); ok {
		d, err := m.MarshalText()
		return string(d), err
	}
	switch t.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported key type %s", t)
}
