package ast

import (
	"testing"

	"github.com/kievzenit/impc/internal/lexer"
)

// recordingVisitor remembers which method was called last.
type recordingVisitor struct {
	called string
}

func (r *recordingVisitor) VisitNumberExpr(*NumberExpr) int { r.called = "NumberExpr"; return 1 }
func (r *recordingVisitor) VisitBoolExpr(*BoolExpr) int     { r.called = "BoolExpr"; return 2 }
func (r *recordingVisitor) VisitIdentExpr(*IdentExpr) int   { r.called = "IdentExpr"; return 3 }
func (r *recordingVisitor) VisitBinaryExpr(*BinaryExpr) int { r.called = "BinaryExpr"; return 4 }
func (r *recordingVisitor) VisitIfExpr(*IfExpr) int         { r.called = "IfExpr"; return 5 }
func (r *recordingVisitor) VisitCallExpr(*CallExpr) int     { r.called = "CallExpr"; return 6 }
func (r *recordingVisitor) VisitAssignStmt(*AssignStmt)     { r.called = "AssignStmt" }
func (r *recordingVisitor) VisitCallStmt(*CallStmt)         { r.called = "CallStmt" }
func (r *recordingVisitor) VisitPrintStmt(*PrintStmt)       { r.called = "PrintStmt" }
func (r *recordingVisitor) VisitIfStmt(*IfStmt)             { r.called = "IfStmt" }
func (r *recordingVisitor) VisitWhileStmt(*WhileStmt)       { r.called = "WhileStmt" }
func (r *recordingVisitor) VisitForStmt(*ForStmt)           { r.called = "ForStmt" }
func (r *recordingVisitor) VisitReturnStmt(*ReturnStmt)     { r.called = "ReturnStmt" }
func (r *recordingVisitor) VisitVarDecl(*VarDecl)           { r.called = "VarDecl" }
func (r *recordingVisitor) VisitVarDeclList(*VarDeclList)   { r.called = "VarDeclList" }
func (r *recordingVisitor) VisitStmtList(*StmtList)         { r.called = "StmtList" }
func (r *recordingVisitor) VisitBody(*Body)                 { r.called = "Body" }
func (r *recordingVisitor) VisitFunDecl(*FunDecl)           { r.called = "FunDecl" }
func (r *recordingVisitor) VisitFunDeclList(*FunDeclList)   { r.called = "FunDeclList" }
func (r *recordingVisitor) VisitProgram(*Program)           { r.called = "Program" }

func TestExprAcceptDispatchesOnOwnKind(t *testing.T) {
	tests := []struct {
		node   Expr
		method string
		result int
	}{
		{&NumberExpr{Value: 1}, "NumberExpr", 1},
		{&BoolExpr{Value: true}, "BoolExpr", 2},
		{&IdentExpr{Name: "x"}, "IdentExpr", 3},
		{&BinaryExpr{Left: &NumberExpr{}, Right: &NumberExpr{}, Op: PlusOp}, "BinaryExpr", 4},
		{&IfExpr{Cond: &BoolExpr{}, Then: &NumberExpr{}, Else: &NumberExpr{}}, "IfExpr", 5},
		{&CallExpr{Name: "f"}, "CallExpr", 6},
	}

	for _, tt := range tests {
		v := &recordingVisitor{}
		got := tt.node.Accept(v)
		if v.called != tt.method {
			t.Errorf("%T.Accept called Visit%s, expected Visit%s", tt.node, v.called, tt.method)
		}
		if got != tt.result {
			t.Errorf("%T.Accept returned %d, expected %d", tt.node, got, tt.result)
		}
	}
}

func TestNodeAcceptDispatchesOnOwnKind(t *testing.T) {
	body := &Body{Decls: &VarDeclList{}, Stmts: &StmtList{}}

	tests := []struct {
		node interface{ Accept(Visitor) }
		want string
	}{
		{&AssignStmt{Target: "x", Value: &NumberExpr{}}, "AssignStmt"},
		{&CallStmt{Name: "f"}, "CallStmt"},
		{&PrintStmt{Value: &NumberExpr{}}, "PrintStmt"},
		{&IfStmt{Cond: &BoolExpr{}, Then: body}, "IfStmt"},
		{&WhileStmt{Cond: &BoolExpr{}, Body: body}, "WhileStmt"},
		{&ForStmt{Start: &NumberExpr{}, End: &NumberExpr{}, Step: &NumberExpr{}, Body: body}, "ForStmt"},
		{&ReturnStmt{}, "ReturnStmt"},
		{&VarDecl{Type: "int", Names: []string{"x"}}, "VarDecl"},
		{&VarDeclList{}, "VarDeclList"},
		{&StmtList{}, "StmtList"},
		{body, "Body"},
		{&FunDecl{Name: "f", ReturnType: "int", Body: body}, "FunDecl"},
		{&FunDeclList{}, "FunDeclList"},
		{&Program{Globals: &VarDeclList{}, Funcs: &FunDeclList{}}, "Program"},
	}

	for _, tt := range tests {
		v := &recordingVisitor{}
		tt.node.Accept(v)
		if v.called != tt.want {
			t.Errorf("%T.Accept called Visit%s, expected Visit%s", tt.node, v.called, tt.want)
		}
	}
}

func TestBinaryOpPrecedence(t *testing.T) {
	if !(MulOp.Precedence() > PlusOp.Precedence() && PlusOp.Precedence() > LtOp.Precedence()) {
		t.Fatalf("expected * > + > <, got %d %d %d", MulOp.Precedence(), PlusOp.Precedence(), LtOp.Precedence())
	}
	if DivOp.String() != "/" || LeOp.String() != "<=" || EqOp.String() != "==" {
		t.Fatalf("unexpected operator symbols")
	}
}

func TestEqualIgnoresPositions(t *testing.T) {
	mk := func(line int, n int64) *Program {
		return &Program{
			Globals: &VarDeclList{},
			Funcs: &FunDeclList{Funcs: []*FunDecl{{
				StartToken: &lexer.Token{Kind: lexer.INT, Line: line},
				Name:       "f",
				ReturnType: "int",
				Body: &Body{
					Decls: &VarDeclList{},
					Stmts: &StmtList{Stmts: []Stmt{&ReturnStmt{Value: &NumberExpr{Value: n}}}},
				},
			}}},
		}
	}

	if !Equal(mk(1, 1), mk(2, 1)) {
		t.Errorf("expected structurally identical programs to be equal")
	}
	if Equal(mk(1, 1), mk(1, 2)) {
		t.Errorf("expected programs with different literals to differ")
	}
}
