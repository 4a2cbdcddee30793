package libdiff

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Edit is one run of a text diff: text added, removed or kept.
type Edit struct {
	Op   EditOp
	Text string
}

type EditOp int

const (
	Keep EditOp = iota
	Add
	Remove
)

func (op EditOp) String() string {
	switch op {
	case Keep:
		return "="
	case Add:
		return "+"
	case Remove:
		return "-"
	}
	return fmt.Sprintf("EditOp(%d)", int(op))
}

// DiffString diffs two strings. Multi-line strings are diffed line by
// line first.
func DiffString(from, to string) []Edit {
	dmp := diffpatch.New()
	lines := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := dmp.DiffMain(from, to, lines)
	diffs = dmp.DiffCleanupSemantic(diffs)
	res := make([]Edit, 0, len(diffs))
	for _, d := range diffs {
		var op EditOp
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Add
		case diffpatch.DiffDelete:
			op = Remove
		default:
			op = Keep
		}
		res = append(res, Edit{Op: op, Text: d.Text})
	}
	return res
}

// worthEditing returns the edits from one string to the other, or nil
// when more than half the shorter string changes.
func worthEditing(from, to string) []Edit {
	edits := DiffString(from, to)
	changed := 0
	for _, e := range edits {
		if e.Op != Keep {
			changed += len(e.Text)
		}
	}
	if changed > min(len(from), len(to))/2 {
		return nil
	}
	return edits
}

// ApplyEdits applies edits to s. Kept and removed text must match s.
func ApplyEdits(s string, edits []Edit) (string, error) {
	buf := &strings.Builder{}
	rest := s
	for _, e := range edits {
		switch e.Op {
		case Add:
			buf.WriteString(e.Text)
		case Keep, Remove:
			if !strings.HasPrefix(rest, e.Text) {
				return "", fmt.Errorf("%w: expected %q, found %q", ErrConflict, e.Text, clip(rest, len(e.Text)))
			}
			rest = rest[len(e.Text):]
			if e.Op == Keep {
				buf.WriteString(e.Text)
			}
		}
	}
	if rest != "" {
		return "", fmt.Errorf("%w: %q left over", ErrConflict, clip(rest, 32))
	}
	return buf.String(), nil
}

// ReverseEdits returns edits that undo edits.
func ReverseEdits(edits []Edit) []Edit {
	res := make([]Edit, len(edits))
	for i, e := range edits {
		switch e.Op {
		case Add:
			e.Op = Remove
		case Remove:
			e.Op = Add
		}
		res[i] = e
	}
	return res
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
