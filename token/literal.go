package token

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type LitKind int

const (
	LitString LitKind = iota
	LitNull
	LitBool
	LitInt
	LitFloat
)

// Literal is the typed reading of a bare scalar.
type Literal struct {
	Kind  LitKind
	Bool  bool
	Int   int64
	Float float64
	Text  string
}

// Classify gives a bare (unquoted, already trimmed) scalar its type.
func Classify(s string) Literal {
	switch s {
	case "null":
		return Literal{Kind: LitNull, Text: s}
	case "true":
		return Literal{Kind: LitBool, Bool: true, Text: s}
	case "false":
		return Literal{Kind: LitBool, Text: s}
	}
	if i, ok := parseInt(s); ok {
		return Literal{Kind: LitInt, Int: i, Text: s}
	}
	if f, ok := parseFloat(s); ok {
		return Literal{Kind: LitFloat, Float: f, Text: s}
	}
	return Literal{Kind: LitString, Text: s}
}

func parseInt(s string) (int64, bool) {
	body := s
	neg := false
	if len(body) > 0 && (body[0] == '-' || body[0] == '+') {
		neg = body[0] == '-'
		body = body[1:]
	}
	if len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		u, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		if neg {
			if u > 1<<63 {
				return 0, false
			}
			return int64(-u), true
		}
		if u > 1<<63-1 {
			return 0, false
		}
		return int64(u), true
	}
	if !allDigits(body) {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseFloat(s string) (float64, bool) {
	switch s {
	case "inf", "+inf", "-inf", "nan":
		f, _ := strconv.ParseFloat(s, 64)
		return f, true
	}
	if !isDecimalFloat(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// only range errors get here; ParseFloat already returns ±Inf
		return f, true
	}
	return f, true
}

// isDecimalFloat accepts [+-]? digits? ('.' digits?)? ([eE] [+-]? digits)?
// with at least one mantissa digit. Plain integers are accepted too, for
// decimal literals too large for int64.
func isDecimalFloat(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mant := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mant++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			mant++
		}
	}
	if mant == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsKeyByte reports whether c may appear in a bare key segment.
func IsKeyByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', isDigit(c), c >= utf8.RuneSelf:
		return true
	}
	return strings.IndexByte("_-$/+:<>!?~*&^%|", c) != -1
}

// IsCommentStart reports whether c begins a comment.
func IsCommentStart(c byte) bool {
	return c == ';' || c == '#'
}

// KeyNeedsQuote reports whether k must be quoted to be read back as a
// single key segment.
func KeyNeedsQuote(k string) bool {
	if k == "" {
		return true
	}
	for i := 0; i < len(k); i++ {
		if !IsKeyByte(k[i]) {
			return true
		}
	}
	return false
}

// NeedsQuote reports whether s, written bare as a value, would read back
// as something other than the string s.
func NeedsQuote(s string) bool {
	if s == "" || Classify(s).Kind != LitString {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	switch s[0] {
	case '"', '\'', '@', '[', '{':
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f {
			return true
		}
		switch c {
		case ',', '[', ']', '{', '}', ';', '#', '"', '\'', '\\', '=':
			return true
		}
	}
	return !utf8.ValidString(s)
}

// FormatFloat formats f so that Classify reads it back as the same float:
// shortest round-trip digits, always with a '.', an exponent, or one of
// inf, -inf, nan.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch s {
	case "+Inf":
		return "inf"
	case "-Inf":
		return "-inf"
	case "NaN":
		return "nan"
	}
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}
