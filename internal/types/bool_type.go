package types

type BoolType struct{}

func (*BoolType) Type() string {
	return "bool"
}

func (*BoolType) SameAs(other Type) bool {
	_, ok := other.(*BoolType)
	return ok
}

// CanBeImplicitlyCastedTo allows any integer: booleans are the values 1 and 0.
func (*BoolType) CanBeImplicitlyCastedTo(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}
