package main

import (
	"fmt"

	"github.com/signadot/cfgtree/eval"
	"github.com/signadot/cfgtree/ir"

	"github.com/scott-cotton/cli"
)

func evalCmd(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	env := eval.Env{}
	for k, v := range cfg.Env {
		env[k] = v
	}
	var run func(ir.Value) (ir.Value, error)
	if cfg.Expand {
		run = func(v ir.Value) (ir.Value, error) {
			return eval.Expand(v, eval.WithEnv(env))
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("%w: eval requires an expression or -x", cli.ErrUsage)
		}
		e := args[0]
		args = args[1:]
		run = func(v ir.Value) (ir.Value, error) {
			return eval.Eval(v, e, eval.WithEnv(env))
		}
	}
	i := 0
	return eachDoc(cfg.MainConfig, cc, args, func(file string, v ir.Value) error {
		res, err := run(v)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		defer func() { i++ }()
		return writeDocs(cfg.MainConfig, cc.Out, i, res)
	})
}
