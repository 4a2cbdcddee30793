package encode

import "github.com/signadot/cfgtree/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// EncodeComments controls whether comments attached to values are
// written. Only the INI and YAML writers carry comments. On by default.
func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeWire selects compact single line output for JSON and XML.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// XMLRoot names the XML root element. The default is "root".
func XMLRoot(name string) EncodeOption {
	return func(es *EncState) { es.xmlRoot = name }
}
