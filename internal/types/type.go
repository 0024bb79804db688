package types

type Type interface {
	Type() string
	SameAs(t Type) bool
	CanBeImplicitlyCastedTo(t Type) bool
}

// Wider returns the type both operands of an arithmetic operation are
// promoted to.
func Wider(a Type, b Type) Type {
	if a.CanBeImplicitlyCastedTo(b) {
		return b
	}
	return a
}
