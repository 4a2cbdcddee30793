package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

// maxJSONDepth bounds array and object nesting.
const maxJSONDepth = 256

func parseJSON(d []byte) (ir.Value, error) {
	if !utf8.Valid(d) {
		off := len(d)
		for i := 0; i < len(d); {
			r, n := utf8.DecodeRune(d[i:])
			if r == utf8.RuneError && n == 1 {
				off = i
				break
			}
			i += n
		}
		return ir.Null(), errAt(token.NewPosDoc(d).Pos(off), "invalid UTF-8")
	}
	if off := loneSurrogate(d); off >= 0 {
		return ir.Null(), errAt(token.NewPosDoc(d).Pos(off), "unpaired surrogate escape")
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == io.EOF {
		return ir.Null(), fmt.Errorf("%w: empty JSON document", ErrParse)
	}
	if err != nil {
		return ir.Null(), jsonErr(err, d)
	}
	v, err := jsonValue(dec, tok, 0)
	if err != nil {
		return ir.Null(), jsonErr(err, d)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return ir.Null(), jsonErr(err, d)
		}
		off := int(dec.InputOffset())
		return ir.Null(), errAt(token.NewPosDoc(d).Pos(off), "trailing data after JSON value")
	}
	return v, nil
}

func jsonValue(dec *json.Decoder, tok json.Token, depth int) (ir.Value, error) {
	switch t := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.Bool(t), nil
	case string:
		return ir.String(t), nil
	case json.Number:
		return jsonNumber(t)
	case json.Delim:
		if depth >= maxJSONDepth {
			return ir.Null(), fmt.Errorf("%w: nesting deeper than %d", ErrParse, maxJSONDepth)
		}
		switch t {
		case '[':
			arr := ir.NewArray()
			for dec.More() {
				it, err := dec.Token()
				if err != nil {
					return ir.Null(), err
				}
				v, err := jsonValue(dec, it, depth+1)
				if err != nil {
					return ir.Null(), err
				}
				arr.Add(v)
			}
			if _, err := dec.Token(); err != nil {
				return ir.Null(), err
			}
			return ir.FromArray(arr), nil
		case '{':
			obj := ir.NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return ir.Null(), err
				}
				key, ok := kt.(string)
				if !ok {
					return ir.Null(), fmt.Errorf("%w: object key is %v", ErrParse, kt)
				}
				vt, err := dec.Token()
				if err != nil {
					return ir.Null(), err
				}
				v, err := jsonValue(dec, vt, depth+1)
				if err != nil {
					return ir.Null(), err
				}
				obj.Insert(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return ir.Null(), err
			}
			return ir.FromObject(obj), nil
		}
	}
	return ir.Null(), fmt.Errorf("%w: unexpected JSON token %v", ErrParse, tok)
}

// jsonNumber keeps integer literals as Int. Literals that do not fit an
// int64 or a float64 are rejected rather than rounded to something else.
func jsonNumber(n json.Number) (ir.Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return ir.Null(), fmt.Errorf("%w: integer %s overflows int64", ErrParse, s)
		}
		return ir.Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ir.Null(), fmt.Errorf("%w: number %s out of range", ErrParse, s)
	}
	if f == 0 {
		mant, _, _ := strings.Cut(strings.ToLower(s), "e")
		if strings.ContainsAny(mant, "123456789") {
			return ir.Null(), fmt.Errorf("%w: number %s underflows", ErrParse, s)
		}
	}
	return ir.Float(f), nil
}

// loneSurrogate returns the offset of the first \u escape in a string of d
// that encodes half of a surrogate pair without its partner, or -1.
func loneSurrogate(d []byte) int {
	in := false
	for i := 0; i < len(d); i++ {
		c := d[i]
		if !in {
			if c == '"' {
				in = true
			}
			continue
		}
		switch c {
		case '"':
			in = false
		case '\\':
			if i+1 >= len(d) {
				return -1
			}
			if d[i+1] != 'u' {
				i++
				continue
			}
			r, ok := hex4(d, i+2)
			if !ok {
				i++
				continue
			}
			switch {
			case r >= 0xdc00 && r <= 0xdfff:
				return i
			case r >= 0xd800 && r <= 0xdbff:
				if i+7 >= len(d) || d[i+6] != '\\' || d[i+7] != 'u' {
					return i
				}
				lo, ok := hex4(d, i+8)
				if !ok || lo < 0xdc00 || lo > 0xdfff {
					return i
				}
				i += 11
			default:
				i += 5
			}
		}
	}
	return -1
}

func hex4(d []byte, i int) (rune, bool) {
	if i+4 > len(d) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(d[i:i+4]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func jsonErr(err error, d []byte) error {
	if errors.Is(err, ErrParse) {
		return err
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return posErr(fmt.Errorf("%w: %w", ErrParse, err), token.NewPosDoc(d).Pos(int(se.Offset)))
	}
	if err == io.ErrUnexpectedEOF {
		return posErr(fmt.Errorf("%w: %w", ErrParse, token.ErrUnterminated), token.NewPosDoc(d).Pos(len(d)))
	}
	return fmt.Errorf("%w: %w", ErrParse, err)
}
