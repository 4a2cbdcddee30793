package encode

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

func encodeJSON(v ir.Value, w io.Writer, es *EncState) error {
	buf := &strings.Builder{}
	if err := jsonValue(buf, v, es, 0); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := io.WriteString(w, buf.String())
	return err
}

func jsonNL(buf *strings.Builder, es *EncState, depth int) {
	if es.wire {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", depth*es.indent))
}

func jsonValue(buf *strings.Builder, v ir.Value, es *EncState, depth int) error {
	switch v.Type() {
	case ir.NullType:
		buf.WriteString(es.color(ir.NullType, ValueColor, "null"))
	case ir.BoolType:
		b, _ := v.Bool()
		buf.WriteString(es.color(ir.BoolType, ValueColor, strconv.FormatBool(b)))
	case ir.IntType:
		i, _ := v.Int()
		buf.WriteString(es.color(ir.IntType, ValueColor, strconv.FormatInt(i, 10)))
	case ir.FloatType:
		f, _ := v.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%w: %s cannot be represented in JSON", ErrEncode, token.FormatFloat(f))
		}
		buf.WriteString(es.color(ir.FloatType, ValueColor, token.FormatFloat(f)))
	case ir.StringType:
		s, _ := v.Str()
		buf.WriteString(es.color(ir.StringType, ValueColor, JSONQuote(s)))
	case ir.ArrayType:
		a, _ := v.Array()
		if a.Len() == 0 {
			buf.WriteString(es.color(ir.ArrayType, SepColor, "[]"))
			return nil
		}
		buf.WriteString(es.color(ir.ArrayType, SepColor, "["))
		for i, item := range a.All() {
			if i > 0 {
				buf.WriteString(es.color(ir.ArrayType, SepColor, ","))
			}
			jsonNL(buf, es, depth+1)
			if err := jsonValue(buf, item, es, depth+1); err != nil {
				return err
			}
		}
		jsonNL(buf, es, depth)
		buf.WriteString(es.color(ir.ArrayType, SepColor, "]"))
	case ir.ObjectType:
		o, _ := v.Object()
		if o.Len() == 0 {
			buf.WriteString(es.color(ir.ObjectType, SepColor, "{}"))
			return nil
		}
		buf.WriteString(es.color(ir.ObjectType, SepColor, "{"))
		i := 0
		for k, item := range o.All() {
			if i > 0 {
				buf.WriteString(es.color(ir.ObjectType, SepColor, ","))
			}
			i++
			jsonNL(buf, es, depth+1)
			buf.WriteString(es.color(ir.ObjectType, FieldColor, JSONQuote(k)))
			sep := ": "
			if es.wire {
				sep = ":"
			}
			buf.WriteString(es.color(ir.ObjectType, SepColor, sep))
			if err := jsonValue(buf, item, es, depth+1); err != nil {
				return err
			}
		}
		jsonNL(buf, es, depth)
		buf.WriteString(es.color(ir.ObjectType, SepColor, "}"))
	}
	return nil
}

// JSONQuote quotes s as a JSON string. Invalid UTF-8 is replaced by
// U+FFFD.
func JSONQuote(s string) string {
	buf := &strings.Builder{}
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		i += n
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20 || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
