package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type iniParser struct {
	s        *token.Scanner
	opts     *parseOpts
	root     *ir.Object
	refs     *refTable
	comments []string
}

func parseINI(d []byte, opts *parseOpts) (ir.Value, error) {
	d = bytes.TrimPrefix(d, utf8BOM)
	p := &iniParser{
		s:    token.NewScanner(d),
		opts: opts,
		root: ir.NewObject(),
	}
	p.refs = newRefTable(p.root)
	if err := p.document(); err != nil {
		return ir.Null(), err
	}
	if err := p.refs.resolveAll(); err != nil {
		return ir.Null(), err
	}
	return ir.FromObject(p.root), nil
}

func (p *iniParser) document() error {
	s := p.s
	sect := p.root
	for {
		s.SkipBlanks()
		if s.EOF() {
			return nil
		}
		switch c := s.Peek(); {
		case c == '\n':
			s.Advance(1)
		case token.IsCommentStart(c):
			line := s.RestOfLine()
			if p.opts.comments {
				p.comments = append(p.comments, line)
			}
		case c == '[':
			obj, err := p.section()
			if err != nil {
				return err
			}
			sect = obj
		default:
			if err := p.entry(sect); err != nil {
				return err
			}
		}
	}
}

func (p *iniParser) takeComments() string {
	res := strings.Join(p.comments, "\n")
	p.comments = p.comments[:0]
	return res
}

func (p *iniParser) section() (*ir.Object, error) {
	s := p.s
	open := s.Pos()
	s.Advance(1)
	s.SkipBlanks()
	if s.Peek() == ']' {
		return nil, errAt(open, "empty section name")
	}
	path, err := s.DottedKey()
	if err != nil {
		return nil, wrapTokErr(err)
	}
	s.SkipBlanks()
	if s.Peek() != ']' {
		return nil, errAt(s.Pos(), "expected ']' closing section opened at %s", open)
	}
	s.Advance(1)
	parent, err := p.descend(p.root, path[:len(path)-1], open)
	if err != nil {
		return nil, err
	}
	key := path[len(path)-1]
	obj, err := p.childAt(parent, key, open)
	if err != nil {
		return nil, err
	}
	if len(p.comments) > 0 {
		v, _ := parent.Get(key)
		c := p.takeComments()
		if prev := v.Comment(); prev != "" {
			c = prev + "\n" + c
		}
		parent.Insert(key, v.WithComment(c))
	}
	if debug.Parse() {
		debug.Logf("section [%s] at %s", strings.Join(path, "."), open)
	}
	s.SkipBlanks()
	if s.Peek() == '@' {
		pos := s.Pos()
		text, base, err := p.refPath(false)
		if err != nil {
			return nil, err
		}
		if err := p.refs.inherit(obj, base, text, pos); err != nil {
			return nil, err
		}
	}
	if err := s.EndLine(); err != nil {
		return nil, wrapTokErr(err)
	}
	return obj, nil
}

// childAt returns the object under key in parent, creating it if absent.
// An existing non-object, or a pending reference, is an error.
func (p *iniParser) childAt(parent *ir.Object, key string, pos *token.Pos) (*ir.Object, error) {
	v, ok := parent.Get(key)
	if !ok {
		return parent.Child(key), nil
	}
	o, isObj := v.Object()
	if !isObj {
		return nil, posErr(fmt.Errorf("%w: %s is %s", ErrNotObject, ir.Key(key), v.Type()), pos)
	}
	if p.refs.isPlaceholder(o) {
		return nil, posErr(fmt.Errorf("%w: %s is an unresolved reference", ErrNotObject, ir.Key(key)), pos)
	}
	return o, nil
}

func (p *iniParser) descend(obj *ir.Object, path []string, pos *token.Pos) (*ir.Object, error) {
	for _, seg := range path {
		next, err := p.childAt(obj, seg, pos)
		if err != nil {
			return nil, err
		}
		obj = next
	}
	return obj, nil
}

// entry parses `key = value` at statement level.
func (p *iniParser) entry(sect *ir.Object) error {
	s := p.s
	start := s.Pos()
	path, err := p.keyEq()
	if err != nil {
		return err
	}
	v, err := p.value(false)
	if err != nil {
		return err
	}
	if err := s.EndLine(); err != nil {
		return wrapTokErr(err)
	}
	parent, err := p.descend(sect, path[:len(path)-1], start)
	if err != nil {
		return err
	}
	if p.opts.comments {
		v = v.WithComment(p.takeComments())
	}
	parent.Insert(path[len(path)-1], v)
	return nil
}

// keyEq reads a dotted key and the following '='.
func (p *iniParser) keyEq() ([]string, error) {
	s := p.s
	path, err := s.DottedKey()
	if err != nil {
		return nil, wrapTokErr(err)
	}
	s.SkipBlanks()
	if s.Peek() != '=' {
		return nil, errAt(s.Pos(), "expected '=' after key %s", strings.Join(path, "."))
	}
	s.Advance(1)
	s.SkipBlanks()
	return path, nil
}

func (p *iniParser) value(inline bool) (ir.Value, error) {
	s := p.s
	switch c := s.Peek(); {
	case c == '{':
		return p.inlineObject()
	case c == '[':
		return p.inlineArray()
	case c == '"' || c == '\'':
		str, err := s.Quoted()
		if err != nil {
			return ir.Null(), wrapTokErr(err)
		}
		return ir.String(str), nil
	case c == '@':
		pos := s.Pos()
		text, path, err := p.refPath(inline)
		if err != nil {
			return ir.Null(), err
		}
		return p.refs.reference(path, text, pos), nil
	}
	pos := s.Pos()
	text := s.Bare(inline)
	if text == "" {
		return ir.Null(), errAt(pos, "%w", token.ErrNoValue)
	}
	return literal(token.Classify(text)), nil
}

func literal(l token.Literal) ir.Value {
	switch l.Kind {
	case token.LitNull:
		return ir.Null()
	case token.LitBool:
		return ir.Bool(l.Bool)
	case token.LitInt:
		return ir.Int(l.Int)
	case token.LitFloat:
		return ir.Float(l.Float)
	default:
		return ir.String(l.Text)
	}
}

// refPath reads `@path` and returns the path text and its segments.
func (p *iniParser) refPath(inline bool) (string, []string, error) {
	s := p.s
	pos := s.Pos()
	s.Advance(1)
	var buf []byte
	quoted, escaped := false, false
scan:
	for !s.EOF() {
		c := s.Peek()
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '\'':
			quoted = !quoted
		case c == '\n':
			break scan
		case quoted:
		case c == ' ' || c == '\t' || c == '\r':
			break scan
		case inline && (c == ',' || c == ']' || c == '}'):
			break scan
		}
		buf = append(buf, c)
		s.Advance(1)
	}
	text := string(buf)
	if text == "" {
		return "", nil, errAt(pos, "empty reference")
	}
	path, err := ir.ParsePath(text)
	if err != nil {
		return "", nil, posErr(fmt.Errorf("%w: %w", ErrParse, err), pos)
	}
	if len(path) == 0 {
		return "", nil, errAt(pos, "empty reference")
	}
	return text, path.Strings(), nil
}

func (p *iniParser) inlineObject() (ir.Value, error) {
	s := p.s
	open := s.Pos()
	s.Advance(1)
	obj := ir.NewObject()
	for {
		s.SkipSpace(true)
		if s.EOF() {
			return ir.Null(), posErr(fmt.Errorf("%w: %w '{'", ErrParse, token.ErrUnterminated), open)
		}
		if s.Peek() == '}' {
			s.Advance(1)
			return ir.FromObject(obj), nil
		}
		start := s.Pos()
		path, err := p.keyEq()
		if err != nil {
			return ir.Null(), err
		}
		v, err := p.value(true)
		if err != nil {
			return ir.Null(), err
		}
		parent, err := p.descend(obj, path[:len(path)-1], start)
		if err != nil {
			return ir.Null(), err
		}
		parent.Insert(path[len(path)-1], v)
		if err := p.separator('}'); err != nil {
			return ir.Null(), err
		}
	}
}

func (p *iniParser) inlineArray() (ir.Value, error) {
	s := p.s
	open := s.Pos()
	s.Advance(1)
	arr := ir.NewArray()
	for {
		s.SkipSpace(true)
		if s.EOF() {
			return ir.Null(), posErr(fmt.Errorf("%w: %w '['", ErrParse, token.ErrUnterminated), open)
		}
		if s.Peek() == ']' {
			s.Advance(1)
			return ir.FromArray(arr), nil
		}
		v, err := p.value(true)
		if err != nil {
			return ir.Null(), err
		}
		arr.Add(v)
		if err := p.separator(']'); err != nil {
			return ir.Null(), err
		}
	}
}

// separator consumes what may follow an inline item: a ',', or nothing
// before a line break, a comment or the closing bracket.
func (p *iniParser) separator(closing byte) error {
	s := p.s
	s.SkipBlanks()
	c := s.Peek()
	switch {
	case c == ',':
		s.Advance(1)
		return nil
	case c == closing, c == '\n', token.IsCommentStart(c), s.EOF():
		return nil
	}
	return errAt(s.Pos(), "unexpected %q, expected ',' or %q", c, closing)
}
