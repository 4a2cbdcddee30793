package schema

import (
	"fmt"

	"github.com/signadot/cfgtree/ir"
)

// Kind is the type of value a property must hold.
type Kind int

const (
	StringKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	ArrayKind
	ObjectKind
)

var kindNames = [...]string{
	StringKind: "string",
	IntKind:    "int",
	FloatKind:  "float",
	BoolKind:   "bool",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for i, name := range kindNames {
		if name == string(d) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown kind %q", ErrSchema, d)
}

// Matches reports whether v is of kind k. Float accepts ints.
func (k Kind) Matches(v ir.Value) bool {
	switch k {
	case StringKind:
		return v.Type() == ir.StringType
	case IntKind:
		return v.Type() == ir.IntType
	case FloatKind:
		return v.Type().IsNumber()
	case BoolKind:
		return v.Type() == ir.BoolType
	case ArrayKind:
		return v.Type() == ir.ArrayType
	case ObjectKind:
		return v.Type() == ir.ObjectType
	}
	return false
}
