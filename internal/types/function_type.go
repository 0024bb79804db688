package types

import (
	"fmt"
	"strings"
)

type FunctionType struct {
	Name       string
	Args       []FunctionArgType
	ReturnType Type
}

type FunctionArgType struct {
	Name string
	Type
}

func (f *FunctionType) Type() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.Type.Type()
	}

	return fmt.Sprintf("fun %s(%s) %s", f.Name, strings.Join(args, ", "), f.ReturnType.Type())
}

func (f *FunctionType) SameAs(t Type) bool {
	other, ok := t.(*FunctionType)
	if !ok || len(f.Args) != len(other.Args) || !f.ReturnType.SameAs(other.ReturnType) {
		return false
	}

	for i := range f.Args {
		if !f.Args[i].Type.SameAs(other.Args[i].Type) {
			return false
		}
	}

	return true
}

func (*FunctionType) CanBeImplicitlyCastedTo(Type) bool {
	return false
}
