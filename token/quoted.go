package token

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// scanQuoted reads the quoted string starting at d[i] (which must be ' or
// "). It returns the decoded string and the offset just past the closing
// quote.
func scanQuoted(d []byte, i int, doc *PosDoc) (string, int, error) {
	q := d[i]
	start := i
	i++
	raw := []byte{}
	for i < len(d) {
		c := d[i]
		switch {
		case c == q:
			s, err := decodeQuoted(raw, q, doc, start+1)
			if err != nil {
				return "", 0, err
			}
			return s, i + 1, nil
		case c == '\\' && q == '"':
			if i+1 >= len(d) {
				return "", 0, NewTokenizeErr(ErrUnterminated, doc.Pos(start))
			}
			raw = append(raw, c, d[i+1])
			i += 2
			continue
		case c == '\r' && i+1 < len(d) && d[i+1] == '\n':
			i++
			continue
		}
		raw = append(raw, c)
		i++
	}
	return "", 0, NewTokenizeErr(fmt.Errorf("%w %c", ErrUnterminated, q), doc.Pos(start))
}

func decodeQuoted(raw []byte, q byte, doc *PosDoc, off int) (string, error) {
	if !utf8.Valid(raw) {
		return "", NewTokenizeErr(ErrBadUTF8, doc.Pos(off))
	}
	raw = trimBlankEdges(raw)
	if q == '\'' {
		return string(raw), nil
	}
	return unescape(raw, doc, off)
}

func unescape(raw []byte, doc *PosDoc, off int) (string, error) {
	if bytes.IndexByte(raw, '\\') == -1 {
		return string(raw), nil
	}
	var buf strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", NewTokenizeErr(ErrBadEscape, doc.Pos(off+i))
		}
		switch raw[i] {
		case '\\', '"', '\'', '/':
			buf.WriteByte(raw[i])
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case '0':
			buf.WriteByte(0)
		case 'u', 'U':
			n := 4
			if raw[i] == 'U' {
				n = 8
			}
			if i+1+n > len(raw) {
				return "", NewTokenizeErr(ErrBadUnicode, doc.Pos(off+i))
			}
			r, err := strconv.ParseUint(string(raw[i+1:i+1+n]), 16, 32)
			if err != nil {
				return "", NewTokenizeErr(ErrBadUnicode, doc.Pos(off+i))
			}
			i += n
			if n == 4 && 0xd800 <= r && r < 0xdc00 {
				// surrogate pair
				if i+6 < len(raw) && raw[i+1] == '\\' && raw[i+2] == 'u' {
					lo, err := strconv.ParseUint(string(raw[i+3:i+7]), 16, 32)
					if err == nil && 0xdc00 <= lo && lo < 0xe000 {
						r = 0x10000 + (r-0xd800)<<10 + (lo - 0xdc00)
						i += 6
					}
				}
			}
			if !utf8.ValidRune(rune(r)) {
				return "", NewTokenizeErr(ErrBadUnicode, doc.Pos(off+i))
			}
			buf.WriteRune(rune(r))
		default:
			return "", NewTokenizeErr(fmt.Errorf("%w \\%c", ErrBadEscape, raw[i]), doc.Pos(off+i))
		}
	}
	return buf.String(), nil
}

// Quote returns s as a double quoted string on a single line.
func Quote(s string) string {
	return `"` + escape(s, true) + `"`
}

func escape(s string, newlines bool) string {
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			if newlines {
				buf.WriteString(`\n`)
			} else {
				buf.WriteByte('\n')
			}
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
