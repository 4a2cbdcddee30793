package encode

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

const (
	xmlItem  = "item"
	xmlEntry = "entry"
)

type xmlEnc struct {
	es  *EncState
	buf strings.Builder
}

// encodeXML writes v as the content of the root element. Control
// attributes (type, and key on <entry>) are added only where the plain
// form would read back differently.
func encodeXML(v ir.Value, w io.Writer, es *EncState) error {
	e := &xmlEnc{es: es}
	e.buf.WriteString(xml.Header)
	root := es.xmlRoot
	if !XMLName(root) {
		root = "root"
	}
	e.elem(root, "", v, 0)
	if !es.wire {
		e.buf.WriteByte('\n')
	}
	_, err := io.WriteString(w, e.buf.String())
	return err
}

// XMLName reports whether k can be used as an element name as is.
func XMLName(k string) bool {
	if k == "" || strings.HasPrefix(strings.ToLower(k), "xml") {
		return false
	}
	for i, r := range k {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return utf8.ValidString(k)
}

func (e *xmlEnc) nl(depth int) {
	if e.es.wire {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(" ", depth*e.es.indent))
}

func (e *xmlEnc) open(name, key, typ string, empty bool) {
	es := e.es
	e.buf.WriteString(es.color(ir.ObjectType, SepColor, "<"))
	e.buf.WriteString(es.color(ir.ObjectType, FieldColor, name))
	if key != "" || name == xmlEntry {
		e.attr("key", key)
	}
	if typ != "" {
		e.attr("type", typ)
	}
	if empty {
		e.buf.WriteString(es.color(ir.ObjectType, SepColor, "/>"))
		return
	}
	e.buf.WriteString(es.color(ir.ObjectType, SepColor, ">"))
}

func (e *xmlEnc) attr(name, val string) {
	sb := &strings.Builder{}
	xml.EscapeText(sb, []byte(val))
	e.buf.WriteString(" " + name + "=\"" + sb.String() + "\"")
}

func (e *xmlEnc) close(name string) {
	e.buf.WriteString(e.es.color(ir.ObjectType, SepColor, "</"+name+">"))
}

func (e *xmlEnc) text(t ir.Type, s string) {
	sb := &strings.Builder{}
	xml.EscapeText(sb, []byte(s))
	e.buf.WriteString(e.es.color(t, ValueColor, sb.String()))
}

func (e *xmlEnc) elem(name, key string, v ir.Value, depth int) {
	switch v.Type() {
	case ir.NullType:
		e.open(name, key, "null", true)
	case ir.BoolType:
		b, _ := v.Bool()
		e.leaf(name, key, ir.BoolType, strconv.FormatBool(b), "")
	case ir.IntType:
		i, _ := v.Int()
		e.leaf(name, key, ir.IntType, strconv.FormatInt(i, 10), "")
	case ir.FloatType:
		f, _ := v.Float()
		e.leaf(name, key, ir.FloatType, token.FormatFloat(f), "")
	case ir.StringType:
		s, _ := v.Str()
		typ := ""
		if token.Classify(s).Kind != token.LitString || strings.TrimSpace(s) != s {
			typ = "string"
		}
		e.leaf(name, key, ir.StringType, s, typ)
	case ir.ArrayType:
		a, _ := v.Array()
		typ := ""
		if a.Len() < 2 {
			typ = "array"
		}
		if a.Len() == 0 {
			e.open(name, key, typ, true)
			return
		}
		e.open(name, key, typ, false)
		for _, item := range a.All() {
			e.nl(depth + 1)
			e.elem(xmlItem, "", item, depth+1)
		}
		e.nl(depth)
		e.close(name)
	case ir.ObjectType:
		o, _ := v.Object()
		if o.Len() == 0 {
			e.open(name, key, "object", true)
			return
		}
		e.open(name, key, "", false)
		for k, item := range o.All() {
			e.nl(depth + 1)
			if XMLName(k) && k != xmlEntry {
				e.elem(k, "", item, depth+1)
			} else {
				e.elem(xmlEntry, k, item, depth+1)
			}
		}
		e.nl(depth)
		e.close(name)
	}
}

func (e *xmlEnc) leaf(name, key string, t ir.Type, s, typ string) {
	e.open(name, key, typ, false)
	e.text(t, s)
	e.close(name)
}
