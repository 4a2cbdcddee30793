package main

import (
	"github.com/signadot/cfgtree/ir"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	i := 0
	return eachDoc(cfg.MainConfig, cc, args, func(_ string, v ir.Value) error {
		defer func() { i++ }()
		return writeDocs(cfg.MainConfig, cc.Out, i, v)
	})
}
