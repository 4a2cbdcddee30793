package eval

import (
	"maps"

	"github.com/signadot/cfgtree/gomap"
	"github.com/signadot/cfgtree/ir"
)

// Env is the variable environment of an expression.
type Env = map[string]any

// ToAny converts v to nested map[string]any, []any and scalars.
func ToAny(v ir.Value) any {
	return gomap.ToAny(v)
}

// FromAny converts the result of an expression back to a value.
func FromAny(x any) (ir.Value, error) {
	return gomap.FromGo(x)
}

// DocEnv returns an environment holding the top-level keys of doc, merged
// over base. A document which is not an object contributes nothing.
func DocEnv(doc ir.Value, base Env) Env {
	env := Env{}
	maps.Copy(env, base)
	if m, ok := ToAny(doc).(map[string]any); ok {
		maps.Copy(env, m)
	}
	return env
}
