package ast

import "slices"

// Equal reports whether two programs have the same structure. Start tokens
// are positions, not structure, and are ignored.
func Equal(a, b *Program) bool {
	if a == nil || b == nil {
		return a == b
	}

	return equalVarDeclLists(a.Globals, b.Globals) && equalFunDeclLists(a.Funcs, b.Funcs)
}

func equalVarDeclLists(a, b *VarDeclList) bool {
	if len(a.Decls) != len(b.Decls) {
		return false
	}

	for i := range a.Decls {
		if a.Decls[i].Type != b.Decls[i].Type || !slices.Equal(a.Decls[i].Names, b.Decls[i].Names) {
			return false
		}
	}

	return true
}

func equalFunDeclLists(a, b *FunDeclList) bool {
	if len(a.Funcs) != len(b.Funcs) {
		return false
	}

	for i := range a.Funcs {
		fa, fb := a.Funcs[i], b.Funcs[i]
		if fa.Name != fb.Name || fa.ReturnType != fb.ReturnType {
			return false
		}
		if !slices.Equal(fa.ParamTypes, fb.ParamTypes) || !slices.Equal(fa.ParamNames, fb.ParamNames) {
			return false
		}
		if !EqualBody(fa.Body, fb.Body) {
			return false
		}
	}

	return true
}

func EqualBody(a, b *Body) bool {
	if a == nil || b == nil {
		return a == b
	}

	if !equalVarDeclLists(a.Decls, b.Decls) || len(a.Stmts.Stmts) != len(b.Stmts.Stmts) {
		return false
	}

	for i := range a.Stmts.Stmts {
		if !EqualStmt(a.Stmts.Stmts[i], b.Stmts.Stmts[i]) {
			return false
		}
	}

	return true
}

func EqualStmt(a, b Stmt) bool {
	switch a := a.(type) {
	case *AssignStmt:
		b, ok := b.(*AssignStmt)
		return ok && a.Target == b.Target && EqualExpr(a.Value, b.Value)
	case *CallStmt:
		b, ok := b.(*CallStmt)
		return ok && a.Name == b.Name && equalExprs(a.Args, b.Args)
	case *PrintStmt:
		b, ok := b.(*PrintStmt)
		return ok && EqualExpr(a.Value, b.Value)
	case *IfStmt:
		b, ok := b.(*IfStmt)
		return ok && EqualExpr(a.Cond, b.Cond) && EqualBody(a.Then, b.Then) && EqualBody(a.Else, b.Else)
	case *WhileStmt:
		b, ok := b.(*WhileStmt)
		return ok && EqualExpr(a.Cond, b.Cond) && EqualBody(a.Body, b.Body)
	case *ForStmt:
		b, ok := b.(*ForStmt)
		return ok && EqualExpr(a.Start, b.Start) && EqualExpr(a.End, b.End) &&
			EqualExpr(a.Step, b.Step) && EqualBody(a.Body, b.Body)
	case *ReturnStmt:
		b, ok := b.(*ReturnStmt)
		return ok && EqualExpr(a.Value, b.Value)
	}

	return false
}

func EqualExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *NumberExpr:
		b, ok := b.(*NumberExpr)
		return ok && a.Value == b.Value
	case *BoolExpr:
		b, ok := b.(*BoolExpr)
		return ok && a.Value == b.Value
	case *IdentExpr:
		b, ok := b.(*IdentExpr)
		return ok && a.Name == b.Name
	case *BinaryExpr:
		b, ok := b.(*BinaryExpr)
		return ok && a.Op == b.Op && EqualExpr(a.Left, b.Left) && EqualExpr(a.Right, b.Right)
	case *IfExpr:
		b, ok := b.(*IfExpr)
		return ok && EqualExpr(a.Cond, b.Cond) && EqualExpr(a.Then, b.Then) && EqualExpr(a.Else, b.Else)
	case *CallExpr:
		b, ok := b.(*CallExpr)
		return ok && a.Name == b.Name && equalExprs(a.Args, b.Args)
	}

	return false
}

func equalExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !EqualExpr(a[i], b[i]) {
			return false
		}
	}

	return true
}
