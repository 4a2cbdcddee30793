package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// rawExpr reports whether s is exactly .[expr] and returns expr.
func rawExpr(s string) (string, bool) {
	if len(s) < 3 || !strings.HasPrefix(s, ".[") || !strings.HasSuffix(s, "]") {
		return "", false
	}
	body := s[2 : len(s)-1]
	esc := false
	for i := 0; i < len(body); i++ {
		switch {
		case esc:
			esc = false
		case body[i] == '\\':
			esc = true
		case body[i] == ']':
			return "", false
		}
	}
	return strings.TrimSpace(unescape(body)), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// expandString scans s for $[...] and .[...] and replaces them with the
// text of eval's result. An expression that is never closed is kept as
// literal text.
func expandString(s string, eval func(string) (any, error)) (string, error) {
	if !strings.Contains(s, "[") {
		return s, nil
	}
	var out, key strings.Builder
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if (c == '$' || c == '.') && i+1 < len(s) && s[i+1] == '[' {
				start = i
				key.Reset()
				i++
				continue
			}
			out.WriteByte(c)
			continue
		}
		switch c {
		case '\\':
			if i+1 < len(s) {
				i++
				key.WriteByte(s[i])
			}
		case ']':
			e := strings.TrimSpace(key.String())
			res, err := eval(e)
			if err != nil {
				return "", err
			}
			text, err := anyText(res)
			if err != nil {
				return "", fmt.Errorf("%w: result of %q: %w", ErrEval, e, err)
			}
			out.WriteString(text)
			start = -1
		default:
			key.WriteByte(c)
		}
	}
	if start != -1 {
		out.WriteString(s[start:])
	}
	return out.String(), nil
}

func anyText(x any) (string, error) {
	switch v := x.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	v, err := FromAny(x)
	if err != nil {
		return "", err
	}
	return v.Inline(), nil
}
