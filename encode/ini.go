package encode

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

type iniEnc struct {
	es  *EncState
	buf strings.Builder
	// wrote is set once anything has been written, to separate sections
	wrote bool
}

func encodeINI(v ir.Value, w io.Writer, es *EncState) error {
	obj, ok := v.Object()
	if !ok {
		return fmt.Errorf("%w: INI document root must be an object, not %s", ErrEncode, v.Type())
	}
	e := &iniEnc{es: es}
	e.section(nil, obj)
	_, err := io.WriteString(w, e.buf.String())
	return err
}

func (e *iniEnc) section(path []string, obj *ir.Object) {
	for k, v := range obj.All() {
		if v.Type() == ir.ObjectType {
			continue
		}
		e.comment(v)
		e.buf.WriteString(e.es.color(ir.ObjectType, FieldColor, ir.Key(k)))
		e.buf.WriteString(e.es.color(ir.ObjectType, SepColor, " = "))
		e.value(v, false)
		e.buf.WriteByte('\n')
		e.wrote = true
	}
	for k, v := range obj.All() {
		child, ok := v.Object()
		if !ok {
			continue
		}
		sub := append(path[:len(path):len(path)], k)
		if e.wrote {
			e.buf.WriteByte('\n')
		}
		e.comment(v)
		keys := make([]string, len(sub))
		for i, s := range sub {
			keys[i] = ir.Key(s)
		}
		e.buf.WriteString(e.es.color(ir.ObjectType, SectionColor, "["+strings.Join(keys, ".")+"]"))
		e.buf.WriteByte('\n')
		e.wrote = true
		e.section(sub, child)
	}
}

func (e *iniEnc) comment(v ir.Value) {
	if !e.es.comments || v.Comment() == "" {
		return
	}
	for _, ln := range strings.Split(v.Comment(), "\n") {
		if t := strings.TrimLeft(ln, " \t"); t == "" || !token.IsCommentStart(t[0]) {
			ln = "# " + ln
		}
		e.buf.WriteString(e.es.color(v.Type(), CommentColor, ln))
		e.buf.WriteByte('\n')
	}
}

// value writes v in value position. Only statement level strings use
// the multi-line form.
func (e *iniEnc) value(v ir.Value, inline bool) {
	es := e.es
	switch v.Type() {
	case ir.NullType:
		e.buf.WriteString(es.color(ir.NullType, ValueColor, "null"))
	case ir.BoolType:
		b, _ := v.Bool()
		e.buf.WriteString(es.color(ir.BoolType, ValueColor, strconv.FormatBool(b)))
	case ir.IntType:
		i, _ := v.Int()
		e.buf.WriteString(es.color(ir.IntType, ValueColor, strconv.FormatInt(i, 10)))
	case ir.FloatType:
		f, _ := v.Float()
		e.buf.WriteString(es.color(ir.FloatType, ValueColor, token.FormatFloat(f)))
	case ir.StringType:
		s, _ := v.Str()
		switch {
		case !inline && token.IsMultiline(s):
			s = token.QuoteMultiline(s)
		case token.NeedsQuote(s):
			s = token.Quote(s)
		}
		e.buf.WriteString(es.color(ir.StringType, ValueColor, s))
	case ir.ArrayType:
		a, _ := v.Array()
		if a.Len() == 0 {
			e.buf.WriteString(es.color(ir.ArrayType, SepColor, "[]"))
			return
		}
		e.buf.WriteString(es.color(ir.ArrayType, SepColor, "[ "))
		for i, item := range a.All() {
			if i > 0 {
				e.buf.WriteString(es.color(ir.ArrayType, SepColor, ", "))
			}
			e.value(item, true)
		}
		e.buf.WriteString(es.color(ir.ArrayType, SepColor, " ]"))
	case ir.ObjectType:
		o, _ := v.Object()
		if o.Len() == 0 {
			e.buf.WriteString(es.color(ir.ObjectType, SepColor, "{}"))
			return
		}
		e.buf.WriteString(es.color(ir.ObjectType, SepColor, "{ "))
		i := 0
		for k, item := range o.All() {
			if i > 0 {
				e.buf.WriteString(es.color(ir.ObjectType, SepColor, ", "))
			}
			i++
			e.buf.WriteString(es.color(ir.ObjectType, FieldColor, ir.Key(k)))
			e.buf.WriteString(es.color(ir.ObjectType, SepColor, " = "))
			e.value(item, true)
		}
		e.buf.WriteString(es.color(ir.ObjectType, SepColor, " }"))
	}
}
