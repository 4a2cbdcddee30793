package parse

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/signadot/cfgtree/ir"
)

// parseYAML reads a single document. A stream carrying more than one
// non-empty document is an error.
func parseYAML(d []byte) (ir.Value, error) {
	f, err := parser.ParseBytes(d, 0)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: %w", ErrParse, err)
	}
	var docs []*ast.DocumentNode
	for _, doc := range f.Docs {
		if doc.Body != nil {
			docs = append(docs, doc)
		}
	}
	if len(docs) > 1 {
		line := 0
		if tk := docs[1].Body.GetToken(); tk != nil && tk.Position != nil {
			line = tk.Position.Line
		}
		return ir.Null(), fmt.Errorf("%w: YAML stream has %d documents (second at line %d)", ErrParse, len(docs), line)
	}
	var doc any
	if err := yaml.UnmarshalWithOptions(d, &doc, yaml.UseOrderedMap()); err != nil {
		return ir.Null(), fmt.Errorf("%w: %w", ErrParse, err)
	}
	return yamlValue(doc)
}

func yamlValue(x any) (ir.Value, error) {
	switch t := x.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.Bool(t), nil
	case string:
		return ir.String(t), nil
	case int:
		return ir.Int(int64(t)), nil
	case int64:
		return ir.Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return ir.Float(float64(t)), nil
		}
		return ir.Int(int64(t)), nil
	case float32:
		return ir.Float(float64(t)), nil
	case float64:
		return ir.Float(t), nil
	case time.Time:
		return ir.String(t.Format(time.RFC3339Nano)), nil
	case []any:
		arr := ir.NewArray()
		for _, item := range t {
			v, err := yamlValue(item)
			if err != nil {
				return ir.Null(), err
			}
			arr.Add(v)
		}
		return ir.FromArray(arr), nil
	case yaml.MapSlice:
		obj := ir.NewObject()
		for _, item := range t {
			v, err := yamlValue(item.Value)
			if err != nil {
				return ir.Null(), err
			}
			obj.Insert(yamlKey(item.Key), v)
		}
		return ir.FromObject(obj), nil
	case map[string]any:
		obj := ir.NewObject()
		for k, item := range t {
			v, err := yamlValue(item)
			if err != nil {
				return ir.Null(), err
			}
			obj.Insert(k, v)
		}
		return ir.FromObject(obj), nil
	case map[any]any:
		obj := ir.NewObject()
		for k, item := range t {
			v, err := yamlValue(item)
			if err != nil {
				return ir.Null(), err
			}
			obj.Insert(yamlKey(k), v)
		}
		return ir.FromObject(obj), nil
	}
	return ir.Null(), fmt.Errorf("%w: unsupported YAML value %T", ErrParse, x)
}

// yamlKey stringifies a mapping key the way it would print inline.
func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	v, err := yamlValue(k)
	if err != nil {
		return fmt.Sprint(k)
	}
	return v.String()
}
