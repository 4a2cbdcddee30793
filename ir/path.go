package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a field name or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// Path is a parsed dotted path such as `a.b[2].'c.d'`.
type Path []Segment

// Strings returns the segments in the form accepted by the variadic
// Lookup/Has/SetPath functions.
func (p Path) Strings() []string {
	res := make([]string, len(p))
	for i, s := range p {
		res[i] = s.String()
	}
	return res
}

func (p Path) String() string {
	buf := bytes.NewBuffer(nil)
	for i, s := range p {
		if s.IsIndex {
			fmt.Fprintf(buf, "[%d]", s.Index)
			continue
		}
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(PathField(s.Field))
	}
	return buf.String()
}

// PathField quotes f if it cannot appear bare in a path.
func PathField(f string) string {
	if f != "" && strings.IndexAny(f, "'\". []\\") == -1 {
		return f
	}
	return "'" + strings.ReplaceAll(strings.ReplaceAll(f, "\\", "\\\\"), "'", "\\'") + "'"
}

// ParsePath parses a dotted path. Fields are separated by '.', indices are
// written [n], and fields containing special characters are single quoted
// with backslash escapes. A leading '$' or '$.' is accepted and ignored.
func ParsePath(p string) (Path, error) {
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	res := Path{}
	if p == "" {
		return res, nil
	}
	first := true
	for len(p) > 0 {
		switch p[0] {
		case '[':
			i := strings.IndexByte(p, ']')
			if i == -1 {
				return nil, fmt.Errorf("%w: expected '[' <index> ']'", ErrBadPath)
			}
			index, err := strconv.ParseUint(p[1:i], 10, 31)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q", ErrBadPath, p[1:i])
			}
			res = append(res, Segment{Index: int(index), IsIndex: true})
			p = p[i+1:]
		case '.':
			if first {
				return nil, fmt.Errorf("%w: empty field", ErrBadPath)
			}
			p = p[1:]
			fallthrough
		default:
			field, rest, err := parseField(p)
			if err != nil {
				return nil, err
			}
			res = append(res, Segment{Field: field})
			p = rest
		}
		first = false
		if len(p) > 0 && p[0] != '.' && p[0] != '[' {
			return nil, fmt.Errorf("%w: expected '.' or '[' at %q", ErrBadPath, p)
		}
	}
	return res, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("%w: expected field at end of string", ErrBadPath)
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			i = len(frag)
		}
		if i == 0 {
			return "", "", fmt.Errorf("%w: empty field", ErrBadPath)
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case escaped:
			escaped = false
			res = append(res, c)
		case c == '\\':
			escaped = true
		case c == '\'':
			return string(res), frag[i+1:], nil
		default:
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("%w: end of string scanning for \"'\"", ErrBadPath)
}

func step(cur Value, seg string) (Value, error) {
	switch cur.typ {
	case ObjectType:
		v, ok := cur.obj.Get(seg)
		if !ok {
			return Null(), ErrUndefined
		}
		return v, nil
	case ArrayType:
		i, err := strconv.Atoi(seg)
		if err != nil {
			return Null(), fmt.Errorf("%w: index %q into array", ErrTypeMismatch, seg)
		}
		if i < 0 || i >= cur.arr.Len() {
			return Null(), ErrUndefined
		}
		return cur.arr.items[i], nil
	default:
		return Null(), fmt.Errorf("%w: %s is not a container", ErrTypeMismatch, cur.typ)
	}
}

func pathErr(err error, path []string) error {
	return fmt.Errorf("%w at %s", err, strings.Join(path, "."))
}
