package eval

import (
	"errors"
	"fmt"
	"os"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var ErrEval = errors.New("eval error")

type evalOpts struct {
	env  Env
	root ir.Value
}

type Option func(*evalOpts)

// WithEnv adds variables to the environment. Document keys take
// precedence.
func WithEnv(env Env) Option {
	return func(o *evalOpts) { o.env = env }
}

// WithRoot sets the document that getpath and haspath resolve against.
// By default it is the document being evaluated.
func WithRoot(root ir.Value) Option {
	return func(o *evalOpts) { o.root = root }
}

func exprOpts(root ir.Value) []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			v, err := root.LookupPath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return ToAny(v), nil
		}, new(func(string) any)),
		expr.Function("haspath", func(params ...any) (any, error) {
			_, err := root.LookupPath(params[0].(string))
			return err == nil, nil
		}, new(func(string) bool)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		}, new(func(string) string)),
	}
}

func run(input string, env Env, root ir.Value) (any, error) {
	program, err := expr.Compile(input, exprOpts(root)...)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %q: %w", ErrEval, input, err)
	}
	res, err := vm.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("%w: evaluating %q: %w", ErrEval, input, err)
	}
	if debug.Eval() {
		debug.Logf("eval %q gave %#v", input, res)
	}
	return res, nil
}

// Eval evaluates input with doc as its environment.
func Eval(doc ir.Value, input string, opts ...Option) (ir.Value, error) {
	o := &evalOpts{root: doc}
	for _, opt := range opts {
		opt(o)
	}
	res, err := run(input, DocEnv(doc, o.env), o.root)
	if err != nil {
		return ir.Null(), err
	}
	v, err := FromAny(res)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: result of %q: %w", ErrEval, input, err)
	}
	return v, nil
}

// Expand returns a copy of doc with the expressions in its strings and
// comments evaluated. Expressions see the variables of DocEnv(doc) and
// resolve getpath against doc as it was before expansion.
func Expand(doc ir.Value, opts ...Option) (ir.Value, error) {
	o := &evalOpts{root: doc}
	for _, opt := range opts {
		opt(o)
	}
	x := &expander{env: DocEnv(doc, o.env), root: o.root}
	return x.value(doc.Clone(), nil)
}

type expander struct {
	env  Env
	root ir.Value
}

func (x *expander) value(v ir.Value, path ir.Path) (ir.Value, error) {
	comment := v.Comment()
	if comment != "" {
		c, err := x.str(comment, path)
		if err != nil {
			return ir.Null(), err
		}
		comment = c
	}
	switch v.Type() {
	case ir.StringType:
		s, _ := v.Str()
		if raw, ok := rawExpr(s); ok {
			res, err := run(raw, x.env, x.root)
			if err != nil {
				return ir.Null(), atPath(err, path)
			}
			rv, err := FromAny(res)
			if err != nil {
				return ir.Null(), atPath(fmt.Errorf("%w: result of %q: %w", ErrEval, raw, err), path)
			}
			return rv.WithComment(comment), nil
		}
		s, err := x.str(s, path)
		if err != nil {
			return ir.Null(), err
		}
		return ir.String(s).WithComment(comment), nil
	case ir.ArrayType:
		arr, _ := v.Array()
		for i, item := range arr.All() {
			xi, err := x.value(item, append(path[:len(path):len(path)], ir.Segment{Index: i, IsIndex: true}))
			if err != nil {
				return ir.Null(), err
			}
			arr.Set(i, xi)
		}
	case ir.ObjectType:
		obj, _ := v.Object()
		for _, k := range obj.Keys() {
			item, _ := obj.Get(k)
			xi, err := x.value(item, append(path[:len(path):len(path)], ir.Segment{Field: k}))
			if err != nil {
				return ir.Null(), err
			}
			obj.Insert(k, xi)
		}
	}
	if comment == "" {
		return v, nil
	}
	return v.WithComment(comment), nil
}

func (x *expander) str(s string, path ir.Path) (string, error) {
	res, err := expandString(s, func(e string) (any, error) {
		return run(e, x.env, x.root)
	})
	if err != nil {
		return "", atPath(err, path)
	}
	return res, nil
}

func atPath(err error, path ir.Path) error {
	if len(path) == 0 {
		return err
	}
	return fmt.Errorf("at %s: %w", path, err)
}

// ExpandString replaces each $[expr] or .[expr] in s by the text of its
// result.
func ExpandString(s string, env Env) (string, error) {
	return expandString(s, func(e string) (any, error) {
		return run(e, env, ir.Null())
	})
}
