package token

import (
	"fmt"
	"strings"
)

// Scanner is a cursor over a dialect document.
type Scanner struct {
	d   []byte
	i   int
	doc *PosDoc
}

func NewScanner(d []byte) *Scanner {
	return &Scanner{d: d, doc: NewPosDoc(d)}
}

func (s *Scanner) Off() int { return s.i }

func (s *Scanner) Pos() *Pos { return s.doc.Pos(s.i) }

func (s *Scanner) PosAt(i int) *Pos { return s.doc.Pos(i) }

func (s *Scanner) EOF() bool { return s.i >= len(s.d) }

// Peek returns the current byte, or 0 at end of input.
func (s *Scanner) Peek() byte {
	if s.i >= len(s.d) {
		return 0
	}
	return s.d[s.i]
}

func (s *Scanner) Advance(n int) {
	s.i = min(s.i+n, len(s.d))
}

// SkipBlanks skips spaces, tabs and carriage returns on the current line.
func (s *Scanner) SkipBlanks() {
	for s.i < len(s.d) {
		switch s.d[s.i] {
		case ' ', '\t', '\r':
			s.i++
		default:
			return
		}
	}
}

// SkipSpace skips blanks and line breaks. When comments is true, comment
// lines are skipped as well.
func (s *Scanner) SkipSpace(comments bool) {
	for {
		s.SkipBlanks()
		c := s.Peek()
		switch {
		case c == '\n':
			s.i++
		case comments && IsCommentStart(c):
			s.RestOfLine()
		default:
			return
		}
	}
}

// AtEOL reports whether only blanks and an optional comment remain on the
// current line. It does not move the cursor.
func (s *Scanner) AtEOL() bool {
	j := s.i
	for j < len(s.d) {
		switch c := s.d[j]; {
		case c == ' ' || c == '\t' || c == '\r':
			j++
		case c == '\n':
			return true
		case IsCommentStart(c):
			return true
		default:
			return false
		}
	}
	return true
}

// EndLine consumes the rest of the current line, which must be blank or a
// comment, and the line break.
func (s *Scanner) EndLine() error {
	if !s.AtEOL() {
		s.SkipBlanks()
		return UnexpectedErr(fmt.Sprintf("%q", s.Peek()), s.Pos())
	}
	s.RestOfLine()
	if s.Peek() == '\n' {
		s.i++
	}
	return nil
}

// RestOfLine returns the text up to (not including) the next line break
// and leaves the cursor on that line break.
func (s *Scanner) RestOfLine() string {
	start := s.i
	for s.i < len(s.d) && s.d[s.i] != '\n' {
		s.i++
	}
	return strings.TrimRight(string(s.d[start:s.i]), "\r")
}

// Quoted reads a quoted string at the cursor.
func (s *Scanner) Quoted() (string, error) {
	str, next, err := scanQuoted(s.d, s.i, s.doc)
	if err != nil {
		return "", err
	}
	s.i = next
	return str, nil
}

// KeySegment reads one bare or quoted key segment.
func (s *Scanner) KeySegment() (string, error) {
	switch s.Peek() {
	case '"', '\'':
		return s.Quoted()
	}
	start := s.i
	for s.i < len(s.d) && IsKeyByte(s.d[s.i]) {
		s.i++
	}
	if s.i == start {
		return "", NewTokenizeErr(ErrEmptyKey, s.Pos())
	}
	return string(s.d[start:s.i]), nil
}

// DottedKey reads segments separated by '.', allowing blanks around the
// dots.
func (s *Scanner) DottedKey() ([]string, error) {
	var res []string
	for {
		seg, err := s.KeySegment()
		if err != nil {
			return nil, err
		}
		res = append(res, seg)
		save := s.i
		s.SkipBlanks()
		if s.Peek() != '.' {
			s.i = save
			return res, nil
		}
		s.i++
		s.SkipBlanks()
	}
}

// Bare reads an unquoted scalar. It stops at a line break, at a comment
// start preceded by a blank, and, when inline is set, at ',', ']' or '}'.
// The result is trimmed.
func (s *Scanner) Bare(inline bool) string {
	start := s.i
	for s.i < len(s.d) {
		c := s.d[s.i]
		if c == '\n' {
			break
		}
		if inline && (c == ',' || c == ']' || c == '}') {
			break
		}
		if IsCommentStart(c) && s.i > start {
			if p := s.d[s.i-1]; p == ' ' || p == '\t' {
				break
			}
		}
		s.i++
	}
	return strings.TrimSpace(string(s.d[start:s.i]))
}
