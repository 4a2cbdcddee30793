package encode

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

type yamlEnc struct {
	es  *EncState
	buf strings.Builder
}

func encodeYAML(v ir.Value, w io.Writer, es *EncState) error {
	e := &yamlEnc{es: es}
	if isYAMLBlock(v) {
		e.block(v, 0)
	} else {
		e.comment(v, 0)
		e.buf.WriteString(e.scalar(v))
		e.buf.WriteByte('\n')
	}
	_, err := io.WriteString(w, e.buf.String())
	return err
}

// isYAMLBlock reports whether v is written as indented block content
// rather than on one line.
func isYAMLBlock(v ir.Value) bool {
	switch v.Type() {
	case ir.ArrayType:
		a, _ := v.Array()
		return a.Len() > 0
	case ir.ObjectType:
		o, _ := v.Object()
		return o.Len() > 0
	}
	return false
}

func (e *yamlEnc) comment(v ir.Value, indent int) {
	if !e.es.comments || v.Comment() == "" {
		return
	}
	pad := strings.Repeat(" ", indent)
	for _, ln := range strings.Split(v.Comment(), "\n") {
		ln = strings.TrimLeft(ln, " \t")
		if ln != "" && token.IsCommentStart(ln[0]) {
			ln = ln[1:]
		}
		e.buf.WriteString(pad + e.es.color(v.Type(), CommentColor, "#"+ln))
		e.buf.WriteByte('\n')
	}
}

func (e *yamlEnc) block(v ir.Value, indent int) {
	pad := strings.Repeat(" ", indent)
	switch v.Type() {
	case ir.ObjectType:
		o, _ := v.Object()
		for k, item := range o.All() {
			e.comment(item, indent)
			e.buf.WriteString(pad)
			e.buf.WriteString(e.es.color(ir.ObjectType, FieldColor, yamlString(k)))
			e.buf.WriteString(e.es.color(ir.ObjectType, SepColor, ":"))
			if isYAMLBlock(item) {
				e.buf.WriteByte('\n')
				e.block(item, indent+e.es.indent)
				continue
			}
			e.buf.WriteByte(' ')
			e.buf.WriteString(e.scalar(item))
			e.buf.WriteByte('\n')
		}
	case ir.ArrayType:
		a, _ := v.Array()
		for _, item := range a.All() {
			e.comment(item, indent)
			if !isYAMLBlock(item) {
				e.buf.WriteString(pad + e.es.color(ir.ArrayType, SepColor, "-") + " ")
				e.buf.WriteString(e.scalar(item))
				e.buf.WriteByte('\n')
				continue
			}
			// render the nested block and hang its first line on the dash
			sub := &yamlEnc{es: e.es}
			sub.block(item, indent+2)
			text := sub.buf.String()
			e.buf.WriteString(pad + e.es.color(ir.ArrayType, SepColor, "-") + " ")
			e.buf.WriteString(strings.TrimPrefix(text, pad+"  "))
		}
	}
}

func (e *yamlEnc) scalar(v ir.Value) string {
	es := e.es
	switch v.Type() {
	case ir.NullType:
		return es.color(ir.NullType, ValueColor, "null")
	case ir.BoolType:
		b, _ := v.Bool()
		return es.color(ir.BoolType, ValueColor, strconv.FormatBool(b))
	case ir.IntType:
		i, _ := v.Int()
		return es.color(ir.IntType, ValueColor, strconv.FormatInt(i, 10))
	case ir.FloatType:
		f, _ := v.Float()
		return es.color(ir.FloatType, ValueColor, yamlFloat(f))
	case ir.StringType:
		s, _ := v.Str()
		return es.color(ir.StringType, ValueColor, yamlString(s))
	case ir.ArrayType:
		return es.color(ir.ArrayType, SepColor, "[]")
	default:
		return es.color(ir.ObjectType, SepColor, "{}")
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := token.FormatFloat(f)
	if i := strings.IndexByte(s, 'e'); i != -1 && !strings.Contains(s[:i], ".") {
		s = s[:i] + ".0" + s[i:]
	}
	return s
}

var yamlReserved = map[string]bool{
	"null": true, "~": true, "true": true, "false": true,
	"yes": true, "no": true, "on": true, "off": true, "y": true, "n": true,
}

// yamlString writes s plain when that is unambiguous and double quoted
// otherwise.
func yamlString(s string) string {
	if yamlPlain(s) {
		return s
	}
	return strconv.Quote(s)
}

func yamlPlain(s string) bool {
	if s == "" || yamlReserved[strings.ToLower(s)] {
		return false
	}
	if strings.TrimSpace(s) != s {
		return false
	}
	c := s[0]
	if !(c == '_' || c == '/' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_' || c == '-' || c == '.' || c == '/' || c == ' ':
		default:
			return false
		}
	}
	return true
}
