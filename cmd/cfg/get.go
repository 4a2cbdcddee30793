package main

import (
	"fmt"

	"github.com/signadot/cfgtree/ir"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path, err := ir.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	i := 0
	return eachDoc(cfg.MainConfig, cc, args[1:], func(file string, v ir.Value) error {
		res, err := v.Lookup(path.Strings()...)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		defer func() { i++ }()
		return writeDocs(cfg.MainConfig, cc.Out, i, res)
	})
}
