package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/signadot/cfgtree/ir"
)

var (
	valueType           = reflect.TypeFor[ir.Value]()
	objectType          = reflect.TypeFor[*ir.Object]()
	arrayType           = reflect.TypeFor[*ir.Array]()
	tupleType           = reflect.TypeFor[Tuple]()
	marshalerType       = reflect.TypeFor[ValueMarshaler]()
	unmarshalerType     = reflect.TypeFor[ValueUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func isPassthrough(t reflect.Type) bool {
	return t == valueType || t == objectType || t == arrayType
}

// isSet reports whether a map with element type et is a set.
func isSet(et reflect.Type) bool {
	return et.Kind() == reflect.Bool || (et.Kind() == reflect.Struct && et.NumField() == 0)
}

func customDecoder(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType)
}

// check reports whether v has the shape t expects.
func check(v ir.Value, t reflect.Type) bool {
	switch t {
	case valueType:
		return true
	case objectType:
		return v.Type() == ir.ObjectType
	case arrayType:
		return v.Type() == ir.ArrayType
	}
	if t.Kind() == reflect.Pointer {
		return true
	}
	if tab := enumFor(t); tab != nil {
		s, ok := v.Str()
		_, known := tab.values[s]
		return ok && known
	}
	if customDecoder(t) {
		return decode(v, reflect.New(t).Elem(), nil) == nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return v.Type() == ir.BoolType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.Int()
		return ok && !reflect.Zero(t).OverflowInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := v.Int()
		return ok && i >= 0 && !reflect.Zero(t).OverflowUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, ok := v.Number()
		return ok && !reflect.Zero(t).OverflowFloat(f)
	case reflect.String:
		return v.Type() == ir.StringType
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Slice:
		return checkItems(v, t.Elem(), -1)
	case reflect.Array:
		return checkItems(v, t.Elem(), t.Len())
	case reflect.Map:
		return checkMap(v, t)
	case reflect.Struct:
		return checkStruct(v, t)
	}
	return false
}

func checkItems(v ir.Value, et reflect.Type, n int) bool {
	arr, ok := v.Array()
	if !ok || (n >= 0 && arr.Len() != n) {
		return false
	}
	for _, item := range arr.All() {
		if !check(item, et) {
			return false
		}
	}
	return true
}

func checkMap(v ir.Value, t reflect.Type) bool {
	if v.Type() == ir.ArrayType && isSet(t.Elem()) {
		return checkItems(v, t.Key(), -1)
	}
	obj, ok := v.Object()
	if !ok {
		return false
	}
	for k, item := range obj.All() {
		if parseKey(k, reflect.New(t.Key()).Elem()) != nil || !check(item, t.Elem()) {
			return false
		}
	}
	return true
}

func checkStruct(v ir.Value, t reflect.Type) bool {
	si := structInfoOf(t)
	if si.tuple {
		arr, ok := v.Array()
		if !ok || arr.Len() != len(si.fields) {
			return false
		}
		for i := range si.fields {
			if !check(arr.Get(i), si.fields[i].typ) {
				return false
			}
		}
		return true
	}
	obj, ok := v.Object()
	if !ok {
		return false
	}
	for i := range si.fields {
		f := &si.fields[i]
		item, present := obj.Get(f.name)
		if !present {
			if f.optional() {
				continue
			}
			return false
		}
		if !check(item, f.typ) {
			return false
		}
	}
	return true
}

// decode stores v into rv, which must be settable.
func decode(v ir.Value, rv reflect.Value, path []string) error {
	t := rv.Type()
	switch t {
	case valueType:
		rv.Set(reflect.ValueOf(v))
		return nil
	case objectType:
		obj, ok := v.Object()
		if !ok {
			return mismatch(v, t, path)
		}
		rv.Set(reflect.ValueOf(obj))
		return nil
	case arrayType:
		arr, ok := v.Array()
		if !ok {
			return mismatch(v, t, path)
		}
		rv.Set(reflect.ValueOf(arr))
		return nil
	}
	if t.Kind() == reflect.Pointer {
		if v.IsNull() || !check(v, t.Elem()) {
			rv.SetZero()
			return nil
		}
		ptr := reflect.New(t.Elem())
		if err := decode(v, ptr.Elem(), path); err != nil {
			return err
		}
		rv.Set(ptr)
		return nil
	}
	if tab := enumFor(t); tab != nil {
		s, ok := v.Str()
		if !ok {
			return mismatch(v, t, path)
		}
		e, known := tab.values[s]
		if !known {
			return mismatchf(v, t, path, "unknown %s name %q", t, s)
		}
		rv.Set(reflect.ValueOf(e))
		return nil
	}
	pt := reflect.PointerTo(t)
	if pt.Implements(unmarshalerType) {
		ptr := reflect.New(t)
		if err := ptr.Interface().(ValueUnmarshaler).FromValue(v); err != nil {
			e := mismatch(v, t, path)
			e.Cause = err
			return e
		}
		rv.Set(ptr.Elem())
		return nil
	}
	if pt.Implements(textUnmarshalerType) {
		s, ok := v.Str()
		if !ok {
			return mismatch(v, t, path)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			e := mismatch(v, t, path)
			e.Cause = err
			return e
		}
		rv.Set(ptr.Elem())
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		b, ok := v.Bool()
		if !ok {
			return mismatch(v, t, path)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt(v)
		if !ok || rv.OverflowInt(i) {
			return mismatchf(v, t, path, "%s out of range for %s", v, t)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := toInt(v)
		if !ok || i < 0 || rv.OverflowUint(uint64(i)) {
			return mismatchf(v, t, path, "%s out of range for %s", v, t)
		}
		rv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, ok := v.Number()
		if !ok || rv.OverflowFloat(f) {
			return mismatch(v, t, path)
		}
		rv.SetFloat(f)
	case reflect.String:
		rv.SetString(v.String())
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return mismatchf(v, t, path, "cannot decode into non-empty interface %s", t)
		}
		if x := ToAny(v); x != nil {
			rv.Set(reflect.ValueOf(x))
		} else {
			rv.SetZero()
		}
	case reflect.Slice:
		arr, ok := v.Array()
		if !ok {
			return mismatch(v, t, path)
		}
		s := reflect.MakeSlice(t, arr.Len(), arr.Len())
		if err := decodeItems(arr, s, path); err != nil {
			return err
		}
		rv.Set(s)
	case reflect.Array:
		arr, ok := v.Array()
		if !ok {
			return mismatch(v, t, path)
		}
		if arr.Len() != t.Len() {
			return mismatchf(v, t, path, "array of %d items for %s", arr.Len(), t)
		}
		return decodeItems(arr, rv, path)
	case reflect.Map:
		return decodeMap(v, rv, path)
	case reflect.Struct:
		return decodeStruct(v, rv, path)
	default:
		return mismatchf(v, t, path, "unsupported Go type %s", t)
	}
	return nil
}

// toInt truncates floats toward zero.
func toInt(v ir.Value) (int64, bool) {
	switch v.Type() {
	case ir.IntType:
		return v.Int()
	case ir.FloatType:
		f, _ := v.Float()
		if math.IsNaN(f) || f < -(1<<63) || f >= 1<<63 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// ToAny converts v to nested map[string]any, []any, bool, int64, float64
// and string. Null becomes nil. It cannot fail.
func ToAny(v ir.Value) any {
	switch v.Type() {
	case ir.BoolType:
		b, _ := v.Bool()
		return b
	case ir.IntType:
		i, _ := v.Int()
		return i
	case ir.FloatType:
		f, _ := v.Float()
		return f
	case ir.StringType:
		s, _ := v.Str()
		return s
	case ir.ArrayType:
		arr, _ := v.Array()
		res := make([]any, 0, arr.Len())
		for _, item := range arr.All() {
			res = append(res, ToAny(item))
		}
		return res
	case ir.ObjectType:
		obj, _ := v.Object()
		res := make(map[string]any, obj.Len())
		for k, item := range obj.All() {
			res[k] = ToAny(item)
		}
		return res
	}
	return nil
}

func decodeItems(arr *ir.Array, dst reflect.Value, path []string) error {
	for i, item := range arr.All() {
		if err := decode(item, dst.Index(i), sub(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(v ir.Value, rv reflect.Value, path []string) error {
	t := rv.Type()
	kt, et := t.Key(), t.Elem()
	if arr, ok := v.Array(); ok && isSet(et) {
		m := reflect.MakeMapWithSize(t, arr.Len())
		member := reflect.New(et).Elem()
		if et.Kind() == reflect.Bool {
			member.SetBool(true)
		}
		for i, item := range arr.All() {
			k := reflect.New(kt).Elem()
			if err := decode(item, k, sub(path, strconv.Itoa(i))); err != nil {
				return err
			}
			m.SetMapIndex(k, member)
		}
		rv.Set(m)
		return nil
	}
	obj, ok := v.Object()
	if !ok {
		return mismatch(v, t, path)
	}
	m := reflect.MakeMapWithSize(t, obj.Len())
	for key, item := range obj.All() {
		k := reflect.New(kt).Elem()
		if err := parseKey(key, k); err != nil {
			return &ConvertError{
				Path:  sub(path, key),
				Type:  kt,
				Node:  ir.StringType,
				Err:   ir.ErrTypeMismatch,
				Msg:   fmt.Sprintf("bad key %q", key),
				Cause: err,
			}
		}
		e := reflect.New(et).Elem()
		if err := decode(item, e, sub(path, key)); err != nil {
			return err
		}
		m.SetMapIndex(k, e)
	}
	rv.Set(m)
	return nil
}

func decodeStruct(v ir.Value, rv reflect.Value, path []string) error {
	t := rv.Type()
	si := structInfoOf(t)
	if si.tuple {
		arr, ok := v.Array()
		if !ok {
			return mismatch(v, t, path)
		}
		if arr.Len() != len(si.fields) {
			return mismatchf(v, t, path, "%d items for a %d-tuple", arr.Len(), len(si.fields))
		}
		for i := range si.fields {
			if err := decode(arr.Get(i), rv.FieldByIndex(si.fields[i].index), sub(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	}
	obj, ok := v.Object()
	if !ok {
		return mismatch(v, t, path)
	}
	for i := range si.fields {
		f := &si.fields[i]
		item, present := obj.Get(f.name)
		if !present {
			if f.optional() {
				continue
			}
			return undefined(f.typ, sub(path, f.name))
		}
		if err := decode(item, rv.FieldByIndex(f.index), sub(path, f.name)); err != nil {
			return err
		}
	}
	return nil
}

// parseKey stores the object key s into k.
func parseKey(s string, k reflect.Value) error {
	t := k.Type()
	if tab := enumFor(t); tab != nil {
		e, ok := tab.values[s]
		if !ok {
			return fmt.Errorf("unknown %s name", t)
		}
		k.Set(reflect.ValueOf(e))
		return nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return k.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}
	switch t.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return err
		}
		k.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return err
		}
		k.SetUint(u)
	default:
		return fmt.Errorf("unsupported key type %s", t)
	}
	return nil
}
