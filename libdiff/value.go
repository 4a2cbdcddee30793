package libdiff

import (
	"fmt"

	"github.com/signadot/cfgtree/gomap"
	"github.com/signadot/cfgtree/ir"
)

// changeDoc is the document form of a Change.
type changeDoc struct {
	Op    Op        `cfg:"op"`
	Path  string    `cfg:"path"`
	From  ir.Value  `cfg:"from,omitempty"`
	To    ir.Value  `cfg:"to,omitempty"`
	Edits []editDoc `cfg:"edits,omitempty"`
}

type editDoc struct {
	gomap.Tuple
	Op   string
	Text string
}

// ToValue renders changes as an array of objects with keys op, path,
// from, to and edits, so a diff can be written in any format. Null from
// and to values are left out.
func ToValue(changes []Change) ir.Value {
	docs := make([]changeDoc, len(changes))
	for i, c := range changes {
		d := changeDoc{Op: c.Op, Path: "$" + dotted(c.Path), From: c.From, To: c.To}
		for _, e := range c.Edits {
			d.Edits = append(d.Edits, editDoc{Op: e.Op.String(), Text: e.Text})
		}
		docs[i] = d
	}
	v, err := gomap.FromGo(docs)
	if err != nil {
		panic(err)
	}
	return v
}

func dotted(p ir.Path) string {
	s := p.String()
	if s == "" || s[0] == '[' {
		return s
	}
	return "." + s
}

// FromValue reads changes written by ToValue.
func FromValue(v ir.Value) ([]Change, error) {
	docs, err := gomap.Get[[]changeDoc](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDiff, err)
	}
	res := make([]Change, len(docs))
	for i, d := range docs {
		path, err := ir.ParsePath(d.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: change %d: %w", ErrBadDiff, i, err)
		}
		c := Change{Op: d.Op, Path: path, From: d.From, To: d.To}
		for _, e := range d.Edits {
			var op EditOp
			switch e.Op {
			case "=":
				op = Keep
			case "+":
				op = Add
			case "-":
				op = Remove
			default:
				return nil, fmt.Errorf("%w: change %d: edit op %q", ErrBadDiff, i, e.Op)
			}
			c.Edits = append(c.Edits, Edit{Op: op, Text: e.Text})
		}
		res[i] = c
	}
	return res, nil
}
