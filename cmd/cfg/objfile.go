package main

import (
	"fmt"
	"io"

	"github.com/signadot/cfgtree/docfile"
	"github.com/signadot/cfgtree/encode"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"

	"github.com/scott-cotton/cli"
)

// readDoc reads the document at path, or standard input for "-".
func readDoc(cfg *MainConfig, cc *cli.Context, path string) (ir.Value, error) {
	if path == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return ir.Null(), fmt.Errorf("error reading standard input: %w", err)
		}
		return parse.Parse(d, cfg.parseOpts()...)
	}
	v, status, err := docfile.Load(path, cfg.loadOpts()...)
	theLog.Debug("load", "file", path, "status", status)
	if err != nil {
		return ir.Null(), fmt.Errorf("%s: %w", status, err)
	}
	return v, nil
}

// eachDoc calls f with each named document, or with standard input when
// there are none.
func eachDoc(cfg *MainConfig, cc *cli.Context, files []string, f func(file string, v ir.Value) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		v, err := readDoc(cfg, cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if err := f(file, v); err != nil {
			return err
		}
	}
	return nil
}

func writeDocs(cfg *MainConfig, w io.Writer, i int, v ir.Value) error {
	if i > 0 {
		if _, err := io.WriteString(w, "\n---\n"); err != nil {
			return err
		}
	}
	f := cfg.outFormat()
	opts := cfg.encOpts(w)
	if f == format.INIFormat && v.Type() != ir.ObjectType {
		// INI documents are objects
		f = format.JSONFormat
		opts = append(opts, encode.EncodeFormat(f))
	}
	return docfile.SaveWriter(w, v, docfile.WithFormat(f), docfile.WithEncodeOptions(opts...))
}
