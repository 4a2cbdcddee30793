package token

import (
	"bytes"
	"strings"
)

// trimBlankEdges applies the multi-line string rule: when raw spans lines,
// a first line holding only blanks and a last line holding only blanks
// are dropped, each with its line break.
func trimBlankEdges(raw []byte) []byte {
	if bytes.IndexByte(raw, '\n') == -1 {
		return raw
	}
	if i := bytes.IndexByte(raw, '\n'); isBlank(raw[:i]) {
		raw = raw[i+1:]
	}
	if i := bytes.LastIndexByte(raw, '\n'); i != -1 && isBlank(raw[i+1:]) {
		raw = raw[:i]
	}
	return raw
}

func isBlank(d []byte) bool {
	for _, c := range d {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// IsMultiline reports whether s is best written with QuoteMultiline.
func IsMultiline(s string) bool {
	return len(s) > 1 && strings.Contains(s, "\n")
}

// QuoteMultiline writes s as a double quoted string whose line breaks are
// literal. The opening and closing quotes sit on their own lines so that
// the blank edge rule restores s exactly.
func QuoteMultiline(s string) string {
	return "\"\n" + escape(s, false) + "\n\""
}
