package encode

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/cfgtree/bin"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

var ErrEncode = errors.New("encode error")

type EncState struct {
	indent   int
	comments bool
	wire     bool
	xmlRoot  string

	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes v to w. The format defaults to the INI dialect.
func Encode(v ir.Value, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:   2,
		comments: true,
		xmlRoot:  "root",
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsBinary() {
		return bin.Encode(w, v)
	}
	bw := bufio.NewWriter(w)
	var err error
	switch es.format {
	case format.INIFormat:
		err = encodeINI(v, bw, es)
	case format.JSONFormat:
		err = encodeJSON(v, bw, es)
	case format.XMLFormat:
		err = encodeXML(v, bw, es)
	case format.YAMLFormat:
		err = encodeYAML(v, bw, es)
	default:
		err = fmt.Errorf("%w: %w", ErrEncode, format.ErrBadFormat)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}
