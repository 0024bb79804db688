package semantic_analyzer

import (
	types "github.com/kievzenit/impc/internal/types"
)

// TypeResolver maps the type names written in source to types.
type TypeResolver struct {
	builtinTypesMap map[string]types.Type
}

func NewTypeResolver() *TypeResolver {
	tr := &TypeResolver{
		builtinTypesMap: make(map[string]types.Type),
	}
	tr.defineBuiltInTypes()

	return tr
}

func (tr *TypeResolver) defineBuiltInTypes() {
	tr.builtinTypesMap["int"] = &types.IntType{
		Signed: true,
		Bits:   32,
	}
	tr.builtinTypesMap["long"] = &types.IntType{
		Signed: true,
		Bits:   64,
	}
	tr.builtinTypesMap["bool"] = &types.BoolType{}
	tr.builtinTypesMap["void"] = &types.VoidType{}
}

func (tr *TypeResolver) Resolve(name string) (types.Type, bool) {
	t, ok := tr.builtinTypesMap[name]
	return t, ok
}

// MustResolve is for names that already passed analysis.
func (tr *TypeResolver) MustResolve(name string) types.Type {
	t, ok := tr.Resolve(name)
	if !ok {
		panic("unknown type " + name)
	}
	return t
}
