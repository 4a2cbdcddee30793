package parse

import (
	"github.com/signadot/cfgtree/format"
)

type parseOpts struct {
	format   format.Format
	comments bool
	xmlRoot  string
}

type ParseOption func(*parseOpts)

func ParseINI() ParseOption {
	return ParseFormat(format.INIFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseXML() ParseOption {
	return ParseFormat(format.XMLFormat)
}
func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// ParseComments controls whether INI comment lines are attached to the
// values that follow them. It is on by default.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// XMLRoot requires the XML root element to have the given name. By default
// any root name is accepted.
func XMLRoot(name string) ParseOption {
	return func(o *parseOpts) { o.xmlRoot = name }
}
