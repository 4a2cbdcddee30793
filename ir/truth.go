package ir

func Truth(v Value) bool {
	switch v.typ {
	case ObjectType:
		return v.obj.Len() != 0
	case ArrayType:
		return v.arr.Len() != 0
	case StringType:
		return v.s != ""
	case IntType:
		return v.i != 0
	case FloatType:
		return v.f != 0.0
	case BoolType:
		return v.b
	case NullType:
		return false
	default:
		panic("type")
	}
}
