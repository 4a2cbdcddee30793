package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/cfgtree/docfile"
	"github.com/signadot/cfgtree/encode"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color    bool `cli:"name=color desc='encode with color'"`
	WireOut  bool `cli:"name=wire desc='output in compact form'"`
	Comments bool `cli:"name=c desc='keep comments'"`
	Verbose  bool `cli:"name=v desc='log what is done to stderr'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	res := []parse.ParseOption{parse.ParseComments(cfg.Comments)}
	if cfg.InFormat != nil {
		res = append(res, parse.ParseFormat(*cfg.InFormat))
	}
	return res
}

// loadOpts are the options for reading named files. Without -I the
// format comes from the file name.
func (cfg *MainConfig) loadOpts() []docfile.Option {
	res := []docfile.Option{docfile.WithParseOptions(parse.ParseComments(cfg.Comments))}
	if cfg.InFormat != nil {
		res = append(res, docfile.WithFormat(*cfg.InFormat))
	}
	return res
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.INIFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
		encode.EncodeWire(cfg.WireOut),
		encode.EncodeComments(cfg.Comments),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	if cfg.colorSet() {
		return res
	}
	if isTerminal(w) && cfg.outFormat() != format.BinaryFormat {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colorSet reports whether -color was given, as false or true.
func (cfg *MainConfig) colorSet() bool {
	if cfg.Main == nil {
		return false
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" {
			return opt.Value != nil
		}
	}
	return false
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	return !cfg.colorSet() && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Schema string `cli:"name=s desc='schema document file'"`

	Validate *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Doc     bool `cli:"name=d desc='output the diff as a document'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge   bool `cli:"name=m desc='the patch is a merge patch'"`
	Diff    bool `cli:"name=diff desc='the patch is a diff document'"`
	Reverse bool `cli:"name=r desc='apply a diff document reversed'"`
	InPlace bool `cli:"name=i desc='write results back to the files'"`

	Patch *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Expand bool              `cli:"name=x desc='expand expressions embedded in the documents'"`
	Env    map[string]string

	Eval *cli.Command
}
