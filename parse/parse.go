package parse

import (
	"fmt"

	"github.com/signadot/cfgtree/bin"
	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/ir"
)

// Parse reads a document. The format defaults to the INI dialect.
func Parse(d []byte, opts ...ParseOption) (ir.Value, error) {
	pOpts := &parseOpts{format: format.INIFormat, comments: true}
	for _, f := range opts {
		f(pOpts)
	}
	if debug.Parse() {
		debug.Logf("parse %d bytes as %s", len(d), pOpts.format)
	}
	switch pOpts.format {
	case format.INIFormat:
		return parseINI(d, pOpts)
	case format.JSONFormat:
		return parseJSON(d)
	case format.XMLFormat:
		return parseXML(d, pOpts)
	case format.YAMLFormat:
		return parseYAML(d)
	case format.BinaryFormat:
		v, err := bin.Unmarshal(d)
		if err != nil {
			return ir.Null(), fmt.Errorf("%w: %w", ErrParse, err)
		}
		return v, nil
	}
	return ir.Null(), fmt.Errorf("%w: %w", ErrParse, format.ErrBadFormat)
}

func ParseString(s string, opts ...ParseOption) (ir.Value, error) {
	return Parse([]byte(s), opts...)
}

// ParseObject is Parse for documents whose root must be an object.
func ParseObject(d []byte, opts ...ParseOption) (*ir.Object, error) {
	v, err := Parse(d, opts...)
	if err != nil {
		return nil, err
	}
	obj, ok := v.Object()
	if !ok {
		return nil, fmt.Errorf("%w: document root is %s, not an object", ErrParse, v.Type())
	}
	return obj, nil
}
