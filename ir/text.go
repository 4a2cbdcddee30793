package ir

import (
	"strconv"
	"strings"

	"github.com/signadot/cfgtree/token"
)

// String renders v in the dialect's inline form. A top level string is
// returned as is; strings nested in containers are quoted when needed.
func (v Value) String() string {
	if v.typ == StringType {
		return v.s
	}
	buf := &strings.Builder{}
	v.writeInline(buf)
	return buf.String()
}

// Inline renders v exactly as it would appear on the right of '=' in the
// dialect, quoting a top level string when needed.
func (v Value) Inline() string {
	buf := &strings.Builder{}
	v.writeInline(buf)
	return buf.String()
}

func (v Value) writeInline(buf *strings.Builder) {
	switch v.typ {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(v.b))
	case IntType:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case FloatType:
		buf.WriteString(token.FormatFloat(v.f))
	case StringType:
		if token.NeedsQuote(v.s) {
			buf.WriteString(token.Quote(v.s))
			return
		}
		buf.WriteString(v.s)
	case ArrayType:
		if v.arr.Len() == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[ ")
		for i, item := range v.arr.items {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.writeInline(buf)
		}
		buf.WriteString(" ]")
	case ObjectType:
		if v.obj.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{ ")
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(Key(k))
			buf.WriteString(" = ")
			v.obj.vals[i].writeInline(buf)
		}
		buf.WriteString(" }")
	}
}

// Key renders an object key as a single dialect key segment.
func Key(k string) string {
	if token.KeyNeedsQuote(k) {
		return token.Quote(k)
	}
	return k
}
