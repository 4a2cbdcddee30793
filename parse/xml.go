package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/cfgtree/ir"
	"github.com/signadot/cfgtree/token"
)

// Control attributes understood on any element.
const (
	XMLTypeAttr = "type"
	XMLKeyAttr  = "key"
	XMLItem     = "item"
	XMLEntry    = "entry"
)

// XMLText is the key holding the non-blank text of an element that also
// has attributes or child elements.
const XMLText = "#text"

type xmlElem struct {
	name  string
	attrs []xml.Attr
	kids  []*xmlElem
	text  strings.Builder
	off   int64
}

func (e *xmlElem) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// typeAttr returns the value of a recognised type control attribute.
func (e *xmlElem) typeAttr() string {
	t, _ := e.attr(XMLTypeAttr)
	switch t {
	case "null", "string", "array", "object":
		return t
	}
	return ""
}

// dataAttrs returns the attributes that are not control attributes.
func (e *xmlElem) dataAttrs() []xml.Attr {
	var res []xml.Attr
	for _, a := range e.attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if a.Name.Space == "" && a.Name.Local == XMLTypeAttr && e.typeAttr() != "" {
			continue
		}
		if a.Name.Space == "" && a.Name.Local == XMLKeyAttr && e.name == XMLEntry {
			continue
		}
		res = append(res, a)
	}
	return res
}

func (e *xmlElem) key() string {
	if e.name == XMLEntry {
		if k, ok := e.attr(XMLKeyAttr); ok {
			return k
		}
	}
	return e.name
}

func parseXML(d []byte, opts *parseOpts) (ir.Value, error) {
	root, err := readXML(d)
	if err != nil {
		return ir.Null(), err
	}
	if opts.xmlRoot != "" && root.name != opts.xmlRoot {
		return ir.Null(), errAt(token.NewPosDoc(d).Pos(int(root.off)), "root element is <%s>, expected <%s>", root.name, opts.xmlRoot)
	}
	return xmlValue(root, token.NewPosDoc(d))
}

func readXML(d []byte) (*xmlElem, error) {
	dec := xml.NewDecoder(bytes.NewReader(d))
	dec.Strict = true
	doc := token.NewPosDoc(d)
	var (
		stack []*xmlElem
		root  *xmlElem
	)
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return nil, posErr(fmt.Errorf("%w: %w", ErrParse, err), doc.Pos(int(dec.InputOffset())))
			}
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, errAt(doc.Pos(int(off)), "more than one root element")
			}
			e := &xmlElem{name: t.Name.Local, attrs: t.Attr, off: off}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.kids = append(top.kids, e)
			} else {
				root = e
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
				continue
			}
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, errAt(doc.Pos(int(off)), "text outside root element")
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no XML root element", ErrParse)
	}
	return root, nil
}

func xmlValue(e *xmlElem, doc *token.PosDoc) (ir.Value, error) {
	switch e.typeAttr() {
	case "null":
		return ir.Null(), nil
	case "string":
		return ir.String(e.text.String()), nil
	case "array":
		if e.mixed() {
			return ir.Null(), errAt(doc.Pos(int(e.off)), "text in array element <%s>", e.name)
		}
		return xmlArray(e, doc)
	case "object":
		return xmlObject(e, doc)
	}
	attrs := e.dataAttrs()
	if len(e.kids) == 0 && len(attrs) == 0 {
		text := strings.TrimSpace(e.text.String())
		if text == "" {
			return ir.String(""), nil
		}
		return literal(token.Classify(text)), nil
	}
	if len(attrs) == 0 && len(e.kids) >= 2 && allItems(e.kids) && !e.mixed() {
		return xmlArray(e, doc)
	}
	return xmlObject(e, doc)
}

func (e *xmlElem) mixed() bool {
	return strings.TrimSpace(e.text.String()) != ""
}

func allItems(es []*xmlElem) bool {
	for _, e := range es {
		if e.name != XMLItem {
			return false
		}
	}
	return true
}

func xmlArray(e *xmlElem, doc *token.PosDoc) (ir.Value, error) {
	arr := ir.NewArray()
	for _, k := range e.kids {
		v, err := xmlValue(k, doc)
		if err != nil {
			return ir.Null(), err
		}
		arr.Add(v)
	}
	return ir.FromArray(arr), nil
}

// xmlObject maps attributes and children to keys. Repeated children with
// the same key collect into an array. Text around the children is kept
// under XMLText.
func xmlObject(e *xmlElem, doc *token.PosDoc) (ir.Value, error) {
	obj := ir.NewObject()
	for _, a := range e.dataAttrs() {
		obj.Insert(a.Name.Local, literal(token.Classify(a.Value)))
	}
	if e.mixed() {
		obj.Insert(XMLText, literal(token.Classify(strings.TrimSpace(e.text.String()))))
	}
	repeated := map[string]bool{}
	for _, k := range e.kids {
		key := k.key()
		v, err := xmlValue(k, doc)
		if err != nil {
			return ir.Null(), err
		}
		prev, exists := obj.Get(key)
		if !exists {
			obj.Insert(key, v)
			continue
		}
		if repeated[key] {
			arr, _ := prev.Array()
			arr.Add(v)
			continue
		}
		repeated[key] = true
		obj.Insert(key, ir.ArrayOf(prev, v))
	}
	return ir.FromObject(obj), nil
}
