package bin

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/signadot/cfgtree/ir"
)

const (
	Magic   = "BSBD"
	Version = 1

	maxDepth = 10000
)

const (
	kindNull byte = iota
	kindFalse
	kindTrue
	kindInt
	kindFloat
	kindString
	kindArray
	kindObject

	kindMask    = 0x0f
	flagComment = 0x80
)

var (
	ErrCorrupt = errors.New("corrupt binary document")
	ErrVersion = errors.New("unsupported binary version")
)

// Marshal encodes v, header included.
func Marshal(v ir.Value) []byte {
	d := append([]byte(Magic), Version)
	return appendNode(d, v)
}

func Encode(w io.Writer, v ir.Value) error {
	_, err := w.Write(Marshal(v))
	return err
}

func appendNode(d []byte, v ir.Value) []byte {
	var (
		tag  byte
		body []byte
	)
	if c := v.Comment(); c != "" {
		tag |= flagComment
		body = binary.AppendUvarint(body, uint64(len(c)))
		body = append(body, c...)
	}
	switch v.Type() {
	case ir.NullType:
		tag |= kindNull
	case ir.BoolType:
		if b, _ := v.Bool(); b {
			tag |= kindTrue
		} else {
			tag |= kindFalse
		}
	case ir.IntType:
		tag |= kindInt
		i, _ := v.Int()
		body = binary.LittleEndian.AppendUint64(body, uint64(i))
	case ir.FloatType:
		tag |= kindFloat
		f, _ := v.Float()
		body = binary.LittleEndian.AppendUint64(body, math.Float64bits(f))
	case ir.StringType:
		tag |= kindString
		s, _ := v.Str()
		body = append(body, s...)
	case ir.ArrayType:
		tag |= kindArray
		a, _ := v.Array()
		body = binary.AppendUvarint(body, uint64(a.Len()))
		for _, item := range a.All() {
			body = appendNode(body, item)
		}
	case ir.ObjectType:
		tag |= kindObject
		o, _ := v.Object()
		body = binary.AppendUvarint(body, uint64(o.Len()))
		for k, item := range o.All() {
			body = binary.AppendUvarint(body, uint64(len(k)))
			body = append(body, k...)
			body = appendNode(body, item)
		}
	}
	d = append(d, tag)
	d = binary.AppendUvarint(d, uint64(len(body)))
	return append(d, body...)
}

// Unmarshal decodes a document produced by Marshal. Truncated input,
// trailing bytes and inconsistent lengths are ErrCorrupt.
func Unmarshal(d []byte) (ir.Value, error) {
	if !bytes.HasPrefix(d, []byte(Magic)) {
		return ir.Null(), fmt.Errorf("%w: missing %q header", ErrCorrupt, Magic)
	}
	if len(d) < len(Magic)+1 {
		return ir.Null(), fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	if ver := d[len(Magic)]; ver != Version {
		return ir.Null(), fmt.Errorf("%w: %d", ErrVersion, ver)
	}
	r := &reader{d: d, i: len(Magic) + 1}
	v, err := r.node(0)
	if err != nil {
		return ir.Null(), err
	}
	if r.i != len(d) {
		return ir.Null(), r.errf("%d trailing bytes", len(d)-r.i)
	}
	return v, nil
}

func Decode(rd io.Reader) (ir.Value, error) {
	d, err := io.ReadAll(rd)
	if err != nil {
		return ir.Null(), err
	}
	return Unmarshal(d)
}

type reader struct {
	d []byte
	i int
}

func (r *reader) errf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrCorrupt, fmt.Sprintf(format, args...), r.i)
}

func (r *reader) uvarint(limit int) (int, error) {
	u, n := binary.Uvarint(r.d[r.i:limit])
	if n <= 0 {
		return 0, r.errf("bad length")
	}
	if u > math.MaxInt32 {
		return 0, r.errf("length %d out of range", u)
	}
	r.i += n
	return int(u), nil
}

func (r *reader) bytes(n, limit int) ([]byte, error) {
	if n < 0 || n > limit-r.i {
		return nil, r.errf("truncated")
	}
	res := r.d[r.i : r.i+n]
	r.i += n
	return res, nil
}

func (r *reader) node(depth int) (ir.Value, error) {
	if depth > maxDepth {
		return ir.Null(), r.errf("nesting too deep")
	}
	if r.i >= len(r.d) {
		return ir.Null(), r.errf("truncated")
	}
	tag := r.d[r.i]
	r.i++
	if tag&^(kindMask|flagComment) != 0 {
		return ir.Null(), r.errf("bad tag %#x", tag)
	}
	n, err := r.uvarint(len(r.d))
	if err != nil {
		return ir.Null(), err
	}
	if n > len(r.d)-r.i {
		return ir.Null(), r.errf("truncated")
	}
	end := r.i + n
	comment := ""
	if tag&flagComment != 0 {
		cn, err := r.uvarint(end)
		if err != nil {
			return ir.Null(), err
		}
		c, err := r.bytes(cn, end)
		if err != nil {
			return ir.Null(), err
		}
		comment = string(c)
	}
	v, err := r.payload(tag&kindMask, end, depth)
	if err != nil {
		return ir.Null(), err
	}
	if r.i != end {
		return ir.Null(), r.errf("node length mismatch")
	}
	if comment != "" {
		v = v.WithComment(comment)
	}
	return v, nil
}

func (r *reader) payload(kind byte, end, depth int) (ir.Value, error) {
	switch kind {
	case kindNull:
		return ir.Null(), nil
	case kindFalse:
		return ir.Bool(false), nil
	case kindTrue:
		return ir.Bool(true), nil
	case kindInt, kindFloat:
		b, err := r.bytes(8, end)
		if err != nil {
			return ir.Null(), err
		}
		u := binary.LittleEndian.Uint64(b)
		if kind == kindInt {
			return ir.Int(int64(u)), nil
		}
		return ir.Float(math.Float64frombits(u)), nil
	case kindString:
		b, err := r.bytes(end-r.i, end)
		if err != nil {
			return ir.Null(), err
		}
		if !utf8.Valid(b) {
			return ir.Null(), r.errf("string is not utf8")
		}
		return ir.String(string(b)), nil
	case kindArray:
		count, err := r.uvarint(end)
		if err != nil {
			return ir.Null(), err
		}
		if count > end-r.i {
			return ir.Null(), r.errf("array count %d out of range", count)
		}
		arr := ir.NewArray()
		for range count {
			item, err := r.node(depth + 1)
			if err != nil {
				return ir.Null(), err
			}
			if r.i > end {
				return ir.Null(), r.errf("array overruns its length")
			}
			arr.Add(item)
		}
		return ir.FromArray(arr), nil
	case kindObject:
		count, err := r.uvarint(end)
		if err != nil {
			return ir.Null(), err
		}
		if count > end-r.i {
			return ir.Null(), r.errf("object count %d out of range", count)
		}
		obj := ir.NewObject()
		for range count {
			kn, err := r.uvarint(end)
			if err != nil {
				return ir.Null(), err
			}
			k, err := r.bytes(kn, end)
			if err != nil {
				return ir.Null(), err
			}
			item, err := r.node(depth + 1)
			if err != nil {
				return ir.Null(), err
			}
			if r.i > end {
				return ir.Null(), r.errf("object overruns its length")
			}
			obj.Insert(string(k), item)
		}
		return ir.FromObject(obj), nil
	}
	return ir.Null(), r.errf("unknown kind %d", kind)
}
