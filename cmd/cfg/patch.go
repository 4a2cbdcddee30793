package main

import (
	"fmt"

	"github.com/signadot/cfgtree/docfile"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/libdiff"
	"github.com/signadot/cfgtree/patch"

	"github.com/scott-cotton/cli"
)

func patchCmd(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	if cfg.Merge && cfg.Diff {
		return fmt.Errorf("%w: -m and -diff are exclusive", cli.ErrUsage)
	}
	if cfg.Reverse && !cfg.Diff {
		return fmt.Errorf("%w: -r applies to -diff", cli.ErrUsage)
	}
	if cfg.InPlace && len(args) == 1 {
		return fmt.Errorf("%w: -i requires files", cli.ErrUsage)
	}
	pv, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	apply, err := patcher(cfg, pv)
	if err != nil {
		return fmt.Errorf("error in patch %s: %w", args[0], err)
	}
	i := 0
	return eachDoc(cfg.MainConfig, cc, args[1:], func(file string, v ir.Value) error {
		res, err := apply(v)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		if cfg.InPlace {
			theLog.Debug("patch", "file", file)
			return docfile.Save(file, res, cfg.loadOpts()...)
		}
		defer func() { i++ }()
		return writeDocs(cfg.MainConfig, cc.Out, i, res)
	})
}

// patcher returns the function applying the patch document pv.
func patcher(cfg *PatchConfig, pv ir.Value) (func(ir.Value) (ir.Value, error), error) {
	switch {
	case cfg.Merge:
		return func(v ir.Value) (ir.Value, error) {
			return patch.Merge(v, pv)
		}, nil
	case cfg.Diff:
		changes, err := libdiff.FromValue(pv)
		if err != nil {
			return nil, err
		}
		if cfg.Reverse {
			changes = libdiff.Reverse(changes)
		}
		return func(v ir.Value) (ir.Value, error) {
			return libdiff.Apply(v, changes)
		}, nil
	}
	jp, err := patch.Decode(pv)
	if err != nil {
		return nil, err
	}
	return jp.Apply, nil
}
