package main

import (
	"fmt"
	"io"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/schema"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Schema == "" {
		return fmt.Errorf("%w: validate requires -s schemafile", cli.ErrUsage)
	}
	sv, err := readDoc(cfg.MainConfig, cc, cfg.Schema)
	if err != nil {
		return fmt.Errorf("error loading schema %s: %w", cfg.Schema, err)
	}
	s, err := schema.FromValue(sv, schema.FromRegistry(schema.NewRegistry()))
	if err != nil {
		return fmt.Errorf("error in schema %s: %w", cfg.Schema, err)
	}
	failed := 0
	err = eachDoc(cfg.MainConfig, cc, args, func(file string, v ir.Value) error {
		if !report(cc.Out, file, s.ValidateValue(v), cfg.useColor(cc.Out)) {
			failed++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// report prints the outcome of a validation and returns whether it
// passed.
func report(w io.Writer, file string, res *schema.Result, colorize bool) bool {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for _, c := range []*color.Color{ok, bad} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if res.Valid {
		fmt.Fprintf(w, "%s: %s\n", file, ok.Sprint("ok"))
		return true
	}
	fmt.Fprintf(w, "%s: %s\n", file, bad.Sprintf("%d failures", len(res.Failures)))
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return false
}
