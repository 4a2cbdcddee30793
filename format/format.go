package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	INIFormat Format = iota
	JSONFormat
	XMLFormat
	YAMLFormat
	BinaryFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"i":    INIFormat,
		"ini":  INIFormat,
		"cfg":  INIFormat,
		"j":    JSONFormat,
		"json": JSONFormat,
		"x":    XMLFormat,
		"xml":  XMLFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"yml":  YAMLFormat,
		"b":    BinaryFormat,
		"bin":  BinaryFormat,
		"bsbd": BinaryFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case INIFormat:
		return []byte("ini"), nil
	case JSONFormat:
		return []byte("json"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case BinaryFormat:
		return []byte("bsbd"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsINI() bool    { return f == INIFormat }
func (f Format) IsJSON() bool   { return f == JSONFormat }
func (f Format) IsXML() bool    { return f == XMLFormat }
func (f Format) IsYAML() bool   { return f == YAMLFormat }
func (f Format) IsBinary() bool { return f == BinaryFormat }

// IsText reports whether documents in f are human readable text.
func (f Format) IsText() bool { return f != BinaryFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case INIFormat:
		return ".ini"
	case JSONFormat:
		return ".json"
	case XMLFormat:
		return ".xml"
	case YAMLFormat:
		return ".yaml"
	case BinaryFormat:
		return ".bsbd"
	default:
		return ""
	}
}

// FromPath picks a format from the extension of path, ignoring case.
func FromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg":
		return INIFormat, true
	case ".json":
		return JSONFormat, true
	case ".xml":
		return XMLFormat, true
	case ".yaml", ".yml":
		return YAMLFormat, true
	case ".bsbd":
		return BinaryFormat, true
	}
	return 0, false
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{INIFormat, JSONFormat, XMLFormat, YAMLFormat, BinaryFormat}
}
