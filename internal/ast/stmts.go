package ast

import "github.com/kievzenit/impc/internal/lexer"

type AssignStmt struct {
	StartToken *lexer.Token

	Target string
	Value  Expr
}

type CallStmt struct {
	StartToken *lexer.Token

	Name string
	Args []Expr
}

// PrintStmt keeps only the printed value; the format string is dropped by the
// parser.
type PrintStmt struct {
	StartToken *lexer.Token

	Value Expr
}

// IfStmt has a nil Else when the source has no else clause.
type IfStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Then *Body
	Else *Body
}

type WhileStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Body *Body
}

type ForStmt struct {
	StartToken *lexer.Token

	Start Expr
	End   Expr
	Step  Expr
	Body  *Body
}

// ReturnStmt has a nil Value for a bare `return`.
type ReturnStmt struct {
	StartToken *lexer.Token

	Value Expr
}

func (s *AssignStmt) AstNode() {}
func (s *CallStmt) AstNode()   {}
func (s *PrintStmt) AstNode()  {}
func (s *IfStmt) AstNode()     {}
func (s *WhileStmt) AstNode()  {}
func (s *ForStmt) AstNode()    {}
func (s *ReturnStmt) AstNode() {}

func (s *AssignStmt) FirstToken() *lexer.Token { return s.StartToken }
func (s *CallStmt) FirstToken() *lexer.Token   { return s.StartToken }
func (s *PrintStmt) FirstToken() *lexer.Token  { return s.StartToken }
func (s *IfStmt) FirstToken() *lexer.Token     { return s.StartToken }
func (s *WhileStmt) FirstToken() *lexer.Token  { return s.StartToken }
func (s *ForStmt) FirstToken() *lexer.Token    { return s.StartToken }
func (s *ReturnStmt) FirstToken() *lexer.Token { return s.StartToken }

func (s *AssignStmt) StmtNode() {}
func (s *CallStmt) StmtNode()   {}
func (s *PrintStmt) StmtNode()  {}
func (s *IfStmt) StmtNode()     {}
func (s *WhileStmt) StmtNode()  {}
func (s *ForStmt) StmtNode()    {}
func (s *ReturnStmt) StmtNode() {}
