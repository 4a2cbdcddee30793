package libdiff

import (
	"strconv"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/cfgtree/ir"
)

type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

var opNames = [...]string{Insert: "insert", Delete: "delete", Replace: "replace"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

func (op Op) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

func (op *Op) UnmarshalText(d []byte) error {
	for i, name := range opNames {
		if name == string(d) {
			*op = Op(i)
			return nil
		}
	}
	return ErrBadDiff
}

// Change is one edit at Path. From is unset for Insert and To for Delete.
// Edits is set on string replacements that keep part of the text.
type Change struct {
	Op    Op
	Path  ir.Path
	From  ir.Value
	To    ir.Value
	Edits []Edit
}

// Diff returns the changes turning from into to. Comments are ignored.
func Diff(from, to ir.Value) []Change {
	d := &differ{}
	d.value(nil, from, to)
	return d.changes
}

type differ struct {
	changes []Change
}

func (d *differ) add(c Change) {
	d.changes = append(d.changes, c)
}

func at(path ir.Path, seg ir.Segment) ir.Path {
	res := make(ir.Path, len(path), len(path)+1)
	copy(res, path)
	return append(res, seg)
}

func (d *differ) value(path ir.Path, from, to ir.Value) {
	if from.Type() != to.Type() {
		d.add(Change{Op: Replace, Path: path, From: from, To: to})
		return
	}
	switch from.Type() {
	case ir.ObjectType:
		fo, _ := from.Object()
		tobj, _ := to.Object()
		d.object(path, fo, tobj)
	case ir.ArrayType:
		fa, _ := from.Array()
		ta, _ := to.Array()
		d.array(path, fa, ta)
	case ir.StringType:
		if ir.Equal(from, to) {
			return
		}
		fs, _ := from.Str()
		ts, _ := to.Str()
		d.add(Change{Op: Replace, Path: path, From: from, To: to, Edits: worthEditing(fs, ts)})
	default:
		if !ir.Equal(from, to) {
			d.add(Change{Op: Replace, Path: path, From: from, To: to})
		}
	}
}

func (d *differ) object(path ir.Path, from, to *ir.Object) {
	for k, fv := range from.All() {
		p := at(path, ir.Segment{Field: k})
		tv, ok := to.Get(k)
		if !ok {
			d.add(Change{Op: Delete, Path: p, From: fv})
			continue
		}
		d.value(p, fv, tv)
	}
	for k, tv := range to.All() {
		if _, ok := from.Get(k); !ok {
			d.add(Change{Op: Insert, Path: at(path, ir.Segment{Field: k}), To: tv})
		}
	}
}

// array aligns items by a summary of their content: leaves by value,
// containers by type. Aligned containers are diffed recursively. Indices
// in the changes are positions in the array as edited so far.
func (d *differ) array(path ir.Path, from, to *ir.Array) {
	sums := map[string]rune{}
	fr := summarize(sums, from)
	tr := summarize(sums, to)
	diffs := diffpatch.New().DiffMainRunes(fr, tr, false)

	fi, ti, ri := 0, 0, 0
	lastDelete := -1
	idx := func(i int) ir.Path { return at(path, ir.Segment{Index: i, IsIndex: true}) }
	for _, df := range diffs {
		n := len([]rune(df.Text))
		switch df.Type {
		case diffpatch.DiffEqual:
			for range n {
				d.value(idx(ri), from.Get(fi), to.Get(ti))
				fi++
				ti++
				ri++
			}
			lastDelete = -1
		case diffpatch.DiffDelete:
			for range n {
				d.add(Change{Op: Delete, Path: idx(ri), From: from.Get(fi)})
				lastDelete = len(d.changes) - 1
				fi++
			}
		case diffpatch.DiffInsert:
			for range n {
				// a delete right before becomes a replacement in place
				if lastDelete >= 0 && d.changes[lastDelete].Path[len(path)].Index == ri {
					c := &d.changes[lastDelete]
					c.Op = Replace
					c.To = to.Get(ti)
					if fs, ok := c.From.Str(); ok {
						if ts, ok := c.To.Str(); ok {
							c.Edits = worthEditing(fs, ts)
						}
					}
					lastDelete = -1
				} else {
					d.add(Change{Op: Insert, Path: idx(ri), To: to.Get(ti)})
				}
				ti++
				ri++
			}
		}
	}
}

func summarize(sums map[string]rune, arr *ir.Array) []rune {
	res := make([]rune, arr.Len())
	for i, v := range arr.All() {
		s := v.Type().String()
		if v.Type().IsLeaf() {
			s += ":" + v.Inline()
		}
		r, ok := sums[s]
		if !ok {
			r = rune(len(sums) + 1)
			if r >= 0xd800 {
				// skip surrogates, which do not survive the diff's strings
				r += 0x800
			}
			sums[s] = r
		}
		res[i] = r
	}
	return res
}
