package gomap

import (
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag key read by the reflection mapping.
const TagName = "cfg"

type field struct {
	name      string
	index     []int
	typ       reflect.Type
	omitEmpty bool
}

// optional fields may be absent from an object.
func (f *field) optional() bool {
	return f.omitEmpty || f.typ.Kind() == reflect.Pointer
}

type structInfo struct {
	fields []field
	tuple  bool
}

var structCache sync.Map // reflect.Type -> *structInfo

func structInfoOf(t reflect.Type) *structInfo {
	if si, ok := structCache.Load(t); ok {
		return si.(*structInfo)
	}
	si := &structInfo{}
	seen := map[string]bool{}
	si.collect(t, nil, seen)
	res, _ := structCache.LoadOrStore(t, si)
	return res.(*structInfo)
}

func (si *structInfo) collect(t reflect.Type, index []int, seen map[string]bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, omitEmpty, skip := parseTag(f.Tag.Get(TagName))
		if skip {
			continue
		}
		idx := append(append([]int{}, index...), i)
		if f.Anonymous {
			if f.Type == tupleType {
				if len(index) == 0 {
					si.tuple = true
				}
				continue
			}
			if name == "" && f.Type.Kind() == reflect.Struct {
				si.collect(f.Type, idx, seen)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		si.fields = append(si.fields, field{
			name:      name,
			index:     idx,
			typ:       f.Type,
			omitEmpty: omitEmpty,
		})
	}
}

// parseTag splits `cfg:"name,omitempty"`. A tag of "-" skips the field.
func parseTag(tag string) (name string, omitEmpty, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, rest, _ := strings.Cut(tag, ",")
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return strings.TrimSpace(name), omitEmpty, false
}
