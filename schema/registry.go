package schema

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds named schemas. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Register adds s under s.Name. Names are unique.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("%w: cannot register nil schema", ErrSchema)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: cannot register a schema without a name", ErrSchema)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.Name]; exists {
		return fmt.Errorf("%w: schema %q already registered", ErrSchema, s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

func (r *Registry) Lookup(name string) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[name]
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// Default is the package registry used by Register and Lookup.
var Default = NewRegistry()

func Register(s *Schema) error { return Default.Register(s) }

func Lookup(name string) *Schema { return Default.Lookup(name) }
