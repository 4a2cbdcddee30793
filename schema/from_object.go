package schema

import (
	"fmt"
	"slices"

	"github.com/signadot/cfgtree/gomap"
	"github.com/signadot/cfgtree/ir"
)

// Keys of a schema document.
const (
	keyName       = "name"
	keyProperties = "properties"
	keySchemas    = "schemas"
	keyAllOf      = "allof"
	keyAnyOf      = "anyof"
	keyOneOf      = "oneof"
	keyNoneOf     = "noneof"
)

// Keys of a property description, by the kind they apply to.
var propKeys = map[string][]Kind{
	"type":      nil,
	"minlength": {StringKind},
	"maxlength": {StringKind},
	"pattern":   {StringKind},
	"glob":      {StringKind},
	"min":       {IntKind, FloatKind},
	"max":       {IntKind, FloatKind},
	"minsize":   {ArrayKind},
	"maxsize":   {ArrayKind},
	"itemtype":  {ArrayKind},
	"schema":    {ObjectKind},
}

type FromOption func(*fromOpts)

type fromOpts struct {
	registry *Registry
}

// FromRegistry sets where schema names not defined in the document are
// looked up. The default is Default.
func FromRegistry(r *Registry) FromOption {
	return func(o *fromOpts) { o.registry = r }
}

type pending struct {
	s     *Schema
	obj   *ir.Object
	where string
}

type builder struct {
	opts    *fromOpts
	index   map[string]*Schema
	pending []pending
}

// FromObject builds a schema from its description as data. Named schemas
// under `schemas` are allocated before any is filled, so properties may
// refer to any of them, including the one they belong to.
func FromObject(obj *ir.Object, opts ...FromOption) (*Schema, error) {
	o := &fromOpts{registry: Default}
	for _, opt := range opts {
		opt(o)
	}
	b := &builder{opts: o, index: map[string]*Schema{}}
	root := &Schema{}
	if doc := ir.FromObject(obj); doc.Has(keyName) {
		if !gomap.Is[string](doc, keyName) {
			return nil, fmt.Errorf("%w: %s must be a string", ErrSchema, keyName)
		}
		root.Name = gomap.As[string](doc, keyName)
		b.index[root.Name] = root
	}
	if err := b.collect(obj, ""); err != nil {
		return nil, err
	}
	if err := b.fill(root, obj, ""); err != nil {
		return nil, err
	}
	for i := 0; i < len(b.pending); i++ {
		p := b.pending[i]
		if err := b.fill(p.s, p.obj, p.where); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// FromValue is FromObject for a value that must be an object.
func FromValue(v ir.Value, opts ...FromOption) (*Schema, error) {
	obj, ok := v.Object()
	if !ok {
		return nil, fmt.Errorf("%w: schema is %s, not an object", ErrSchema, v.Type())
	}
	return FromObject(obj, opts...)
}

// collect allocates the schemas named under obj's `schemas`, recursively.
func (b *builder) collect(obj *ir.Object, where string) error {
	v, ok := obj.Get(keySchemas)
	if !ok {
		return nil
	}
	where = joinName(where, keySchemas)
	schemas, ok := v.Object()
	if !ok {
		return fmt.Errorf("%w: %s is %s, not an object", ErrSchema, where, v.Type())
	}
	for name, sv := range schemas.All() {
		at := joinName(where, name)
		sobj, ok := sv.Object()
		if !ok {
			return fmt.Errorf("%w: %s is %s, not an object", ErrSchema, at, sv.Type())
		}
		if _, dup := b.index[name]; dup {
			return fmt.Errorf("%w: schema %q defined twice", ErrSchema, name)
		}
		s := &Schema{Name: name}
		b.index[name] = s
		b.pending = append(b.pending, pending{s: s, obj: sobj, where: at})
		if err := b.collect(sobj, at); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) fill(s *Schema, obj *ir.Object, where string) error {
	for k := range obj.All() {
		switch k {
		case keyName, keyProperties, keySchemas, keyAllOf, keyAnyOf, keyOneOf, keyNoneOf:
		default:
			return fmt.Errorf("%w: unknown key %s", ErrSchema, joinName(where, k))
		}
	}
	props := map[string]Property{}
	var order []string
	if v, ok := obj.Get(keyProperties); ok {
		at := joinName(where, keyProperties)
		po, ok := v.Object()
		if !ok {
			return fmt.Errorf("%w: %s is %s, not an object", ErrSchema, at, v.Type())
		}
		for name, desc := range po.All() {
			p, err := b.property(name, desc, joinName(at, name))
			if err != nil {
				return err
			}
			props[name] = p
			order = append(order, name)
		}
	}
	groups := []struct {
		key string
		dst *[]Property
	}{
		{keyAllOf, &s.AllOf},
		{keyAnyOf, &s.AnyOf},
		{keyOneOf, &s.OneOf},
		{keyNoneOf, &s.NoneOf},
	}
	anyGroup := false
	for _, g := range groups {
		if !obj.Has(g.key) {
			continue
		}
		anyGroup = true
		at := joinName(where, g.key)
		doc := ir.FromObject(obj)
		if !gomap.Is[[]string](doc, g.key) {
			return fmt.Errorf("%w: %s must be an array of property names", ErrSchema, at)
		}
		for _, name := range gomap.As[[]string](doc, g.key) {
			p, ok := props[name]
			if !ok {
				return fmt.Errorf("%w: %s: unknown property %q", ErrSchema, at, name)
			}
			*g.dst = append(*g.dst, p)
		}
	}
	if !anyGroup {
		for _, name := range order {
			s.AllOf = append(s.AllOf, props[name])
		}
	}
	return nil
}

// property reads a property description: a kind name, or an object with
// a type and refinements for that type.
func (b *builder) property(name string, desc ir.Value, where string) (Property, error) {
	p := Property{Name: name}
	if kind, ok := desc.Str(); ok {
		if err := p.Kind.UnmarshalText([]byte(kind)); err != nil {
			return p, fmt.Errorf("%w at %s", err, where)
		}
		return p, nil
	}
	obj, ok := desc.Object()
	if !ok {
		return p, fmt.Errorf("%w: %s is %s, expected a kind name or an object", ErrSchema, where, desc.Type())
	}
	if !obj.Has("type") {
		return p, fmt.Errorf("%w: %s has no type", ErrSchema, where)
	}
	kind, err := gomap.Get[Kind](desc, "type")
	if err != nil {
		return p, fmt.Errorf("%w: %s: %w", ErrSchema, where, err)
	}
	p.Kind = kind
	for k := range obj.All() {
		kinds, known := propKeys[k]
		if !known {
			return p, fmt.Errorf("%w: unknown key %s", ErrSchema, joinName(where, k))
		}
		if kinds != nil && !slices.Contains(kinds, kind) {
			return p, fmt.Errorf("%w: %s does not apply to %s", ErrSchema, joinName(where, k), kind)
		}
	}
	if p.MinLength, err = optional[int](desc, "minlength", where); err != nil {
		return p, err
	}
	if p.MaxLength, err = optional[int](desc, "maxlength", where); err != nil {
		return p, err
	}
	if p.MinInt, p.MinValue, err = bound(desc, "min", where); err != nil {
		return p, err
	}
	if p.MaxInt, p.MaxValue, err = bound(desc, "max", where); err != nil {
		return p, err
	}
	if p.MinSize, err = optional[int](desc, "minsize", where); err != nil {
		return p, err
	}
	if p.MaxSize, err = optional[int](desc, "maxsize", where); err != nil {
		return p, err
	}
	if p.ItemKind, err = optional[Kind](desc, "itemtype", where); err != nil {
		return p, err
	}
	pattern, err := optional[string](desc, "pattern", where)
	if err != nil {
		return p, err
	}
	if pattern != nil {
		if p.Pattern, err = CompilePattern(*pattern); err != nil {
			return p, fmt.Errorf("%w: %s: %w", ErrSchema, joinName(where, "pattern"), err)
		}
	}
	gpat, err := optional[string](desc, "glob", where)
	if err != nil {
		return p, err
	}
	if gpat != nil {
		if p.Glob, err = compileGlob(*gpat); err != nil {
			return p, fmt.Errorf("%w: %s: %w", ErrSchema, joinName(where, "glob"), err)
		}
	}
	if sv, ok := obj.Get("schema"); ok {
		if p.Schema, err = b.schemaRef(sv, joinName(where, "schema")); err != nil {
			return p, err
		}
	}
	return p, nil
}

func optional[T any](desc ir.Value, key, where string) (*T, error) {
	if !desc.Has(key) {
		return nil, nil
	}
	if !gomap.Is[T](desc, key) {
		v, _ := desc.Lookup(key)
		return nil, fmt.Errorf("%w: %s is %s", ErrSchema, joinName(where, key), v.Type())
	}
	x, err := gomap.Get[T](desc, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchema, joinName(where, key), err)
	}
	return &x, nil
}

// bound reads a numeric bound, keeping integer literals exact.
func bound(desc ir.Value, key, where string) (*int64, *float64, error) {
	if v, err := desc.Lookup(key); err == nil && v.Type() == ir.IntType {
		i, err := optional[int64](desc, key, where)
		return i, nil, err
	}
	f, err := optional[float64](desc, key, where)
	return nil, f, err
}

// schemaRef resolves a schema name, or builds an inline schema.
func (b *builder) schemaRef(v ir.Value, where string) (*Schema, error) {
	if name, ok := v.Str(); ok {
		if s, ok := b.index[name]; ok {
			return s, nil
		}
		if b.opts.registry != nil {
			if s := b.opts.registry.Lookup(name); s != nil {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: unknown schema %q", ErrSchema, where, name)
	}
	obj, ok := v.Object()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, expected a schema name or an object", ErrSchema, where, v.Type())
	}
	s := &Schema{}
	if err := b.collect(obj, where); err != nil {
		return nil, err
	}
	if err := b.fill(s, obj, where); err != nil {
		return nil, err
	}
	return s, nil
}
