package types

import "fmt"

type IntType struct {
	Signed bool
	Bits   int
}

func (i *IntType) Type() string {
	if i.Signed {
		return fmt.Sprintf("i%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}

func (i *IntType) SameAs(t Type) bool {
	intType, ok := t.(*IntType)
	if !ok {
		return false
	}

	return i.Signed == intType.Signed && i.Bits == intType.Bits
}

func (i *IntType) CanBeImplicitlyCastedTo(t Type) bool {
	intType, ok := t.(*IntType)
	if !ok {
		return false
	}

	if i.Signed != intType.Signed {
		return false
	}

	return i.Bits < intType.Bits
}

// Truncate wraps v to the width of the type.
func (i *IntType) Truncate(v int64) int64 {
	switch i.Bits {
	case 8:
		return int64(int8(v))
	case 16:
		return int64(int16(v))
	case 32:
		return int64(int32(v))
	}
	return v
}
