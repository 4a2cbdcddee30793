package main

import (
	"fmt"

	"github.com/signadot/cfgtree/libdiff"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := readDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if cfg.Reverse {
		a, b = b, a
	}
	changes := libdiff.Diff(a, b)
	theLog.Debug("diff", "changes", len(changes))
	if len(changes) == 0 {
		return nil
	}
	if cfg.Doc {
		if err := writeDocs(cfg.MainConfig, cc.Out, 0, libdiff.ToValue(changes)); err != nil {
			return err
		}
	} else if err := libdiff.Write(cc.Out, changes, cfg.useColor(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
