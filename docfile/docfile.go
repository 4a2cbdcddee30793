// Package docfile loads and saves documents by path, choosing the format
// from the file extension.
package docfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/signadot/cfgtree/bin"
	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/encode"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/parse"
)

// Status classifies the outcome of Load.
type Status int

const (
	StatusOK Status = iota
	StatusFileNotFound
	StatusReadError
	StatusParseError
	StatusUnknownFormat
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFileNotFound:
		return "file not found"
	case StatusReadError:
		return "read error"
	case StatusParseError:
		return "parse error"
	case StatusUnknownFormat:
		return "unknown format"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var ErrUnknownFormat = errors.New("unknown document format")

type opts struct {
	format    format.Format
	formatSet bool
	parse     []parse.ParseOption
	encode    []encode.EncodeOption
}

type Option func(*opts)

// WithFormat overrides the format chosen from the extension.
func WithFormat(f format.Format) Option {
	return func(o *opts) {
		o.format = f
		o.formatSet = true
	}
}

func WithParseOptions(p ...parse.ParseOption) Option {
	return func(o *opts) { o.parse = append(o.parse, p...) }
}

func WithEncodeOptions(e ...encode.EncodeOption) Option {
	return func(o *opts) { o.encode = append(o.encode, e...) }
}

func newOpts(options []Option) *opts {
	o := &opts{}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// formatFor picks the format for path. Without an override or a known
// extension, data starting with the binary header is binary.
func (o *opts) formatFor(path string, data []byte) (format.Format, error) {
	if o.formatSet {
		return o.format, nil
	}
	if f, ok := format.FromPath(path); ok {
		return f, nil
	}
	if bytes.HasPrefix(data, []byte(bin.Magic)) {
		return format.BinaryFormat, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}

// Load reads and parses the document at path.
func Load(path string, options ...Option) (ir.Value, Status, error) {
	o := newOpts(options)
	d, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ir.Null(), StatusFileNotFound, err
		}
		return ir.Null(), StatusReadError, err
	}
	f, err := o.formatFor(path, d)
	if err != nil {
		return ir.Null(), StatusUnknownFormat, err
	}
	if debug.Load() {
		debug.Logf("load %s as %s (%d bytes)", path, f, len(d))
	}
	v, err := parse.Parse(d, append([]parse.ParseOption{parse.ParseFormat(f)}, o.parse...)...)
	if err != nil {
		return ir.Null(), StatusParseError, fmt.Errorf("%s: %w", path, err)
	}
	return v, StatusOK, nil
}

// LoadReader parses a document from r. The format defaults to the INI
// dialect.
func LoadReader(r io.Reader, options ...Option) (ir.Value, Status, error) {
	o := newOpts(options)
	d, err := io.ReadAll(r)
	if err != nil {
		return ir.Null(), StatusReadError, err
	}
	v, err := parse.Parse(d, append([]parse.ParseOption{parse.ParseFormat(o.format)}, o.parse...)...)
	if err != nil {
		return ir.Null(), StatusParseError, err
	}
	return v, StatusOK, nil
}

// Save encodes v to path. The file is written in full to a temporary
// file next to path and renamed over it. An existing file keeps its
// permission bits; a new one is created 0644.
func Save(path string, v ir.Value, options ...Option) error {
	o := newOpts(options)
	f := o.format
	if !o.formatSet {
		var ok bool
		if f, ok = format.FromPath(path); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
		}
	}
	buf := &bytes.Buffer{}
	if err := encode.Encode(v, buf, append([]encode.EncodeOption{encode.EncodeFormat(f)}, o.encode...)...); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if debug.Load() {
		debug.Logf("save %s as %s (%d bytes)", path, f, buf.Len())
	}
	return os.Rename(tmp.Name(), path)
}

// SaveWriter encodes v to w. The format defaults to the INI dialect.
func SaveWriter(w io.Writer, v ir.Value, options ...Option) error {
	o := newOpts(options)
	return encode.Encode(v, w, append([]encode.EncodeOption{encode.EncodeFormat(o.format)}, o.encode...)...)
}
