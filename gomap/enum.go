package gomap

import (
	"reflect"
	"sync"
)

type enumTable struct {
	names  map[any]string
	values map[string]any
}

var enums sync.Map // reflect.Type -> *enumTable

// RegisterEnum sets the names T values convert to and from. Names are
// case sensitive; converting an unnamed value or an unknown name fails.
// Registering T again replaces its table.
func RegisterEnum[T comparable](names map[T]string) {
	tab := &enumTable{
		names:  make(map[any]string, len(names)),
		values: make(map[string]any, len(names)),
	}
	for v, name := range names {
		tab.names[v] = name
		tab.values[name] = v
	}
	enums.Store(reflect.TypeFor[T](), tab)
}

func enumFor(t reflect.Type) *enumTable {
	tab, ok := enums.Load(t)
	if !ok {
		return nil
	}
	return tab.(*enumTable)
}
