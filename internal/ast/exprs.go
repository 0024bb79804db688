package ast

import "github.com/kievzenit/impc/internal/lexer"

type BinaryOp int

const (
	LtOp BinaryOp = iota
	LeOp
	EqOp
	PlusOp
	MinusOp
	MulOp
	DivOp
)

func (op BinaryOp) String() string {
	switch op {
	case LtOp:
		return "<"
	case LeOp:
		return "<="
	case EqOp:
		return "=="
	case PlusOp:
		return "+"
	case MinusOp:
		return "-"
	case MulOp:
		return "*"
	case DivOp:
		return "/"
	}
	return "?"
}

// Precedence orders the three binary strata: comparison (1), additive (2)
// and multiplicative (3). Factors bind tighter than all of them.
func (op BinaryOp) Precedence() int {
	switch op {
	case LtOp, LeOp, EqOp:
		return 1
	case PlusOp, MinusOp:
		return 2
	default:
		return 3
	}
}

func (op BinaryOp) IsComparison() bool {
	return op.Precedence() == 1
}

type NumberExpr struct {
	StartToken *lexer.Token

	Value int64
}

type BoolExpr struct {
	StartToken *lexer.Token

	Value bool
}

type IdentExpr struct {
	StartToken *lexer.Token

	Name string
}

type BinaryExpr struct {
	StartToken *lexer.Token

	Left  Expr
	Right Expr
	Op    BinaryOp
}

// IfExpr is `ifexp(cond, then, else)`.
type IfExpr struct {
	StartToken *lexer.Token

	Cond Expr
	Then Expr
	Else Expr
}

type CallExpr struct {
	StartToken *lexer.Token

	Name string
	Args []Expr
}

func (NumberExpr) AstNode() {}
func (BoolExpr) AstNode()   {}
func (IdentExpr) AstNode()  {}
func (BinaryExpr) AstNode() {}
func (IfExpr) AstNode()     {}
func (CallExpr) AstNode()   {}

func (e *NumberExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *BoolExpr) FirstToken() *lexer.Token   { return e.StartToken }
func (e *IdentExpr) FirstToken() *lexer.Token  { return e.StartToken }
func (e *BinaryExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *IfExpr) FirstToken() *lexer.Token     { return e.StartToken }
func (e *CallExpr) FirstToken() *lexer.Token   { return e.StartToken }

func (NumberExpr) ExprNode() {}
func (BoolExpr) ExprNode()   {}
func (IdentExpr) ExprNode()  {}
func (BinaryExpr) ExprNode() {}
func (IfExpr) ExprNode()     {}
func (CallExpr) ExprNode()   {}
