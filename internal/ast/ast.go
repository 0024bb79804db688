package ast

import "github.com/kievzenit/impc/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

type Stmt interface {
	AstNode
	StmtNode()
	Accept(v Visitor)
}

type Expr interface {
	AstNode
	ExprNode()
	Accept(v Visitor) int
}

// Program is the root of the tree. The `main` marker that precedes it in the
// source is not kept.
type Program struct {
	StartToken *lexer.Token

	Globals *VarDeclList
	Funcs   *FunDeclList
}

// VarDecl declares one or more names sharing a type: `long a, b`.
type VarDecl struct {
	StartToken *lexer.Token

	Type  string
	Names []string
}

type VarDeclList struct {
	Decls []*VarDecl
}

type StmtList struct {
	Stmts []Stmt
}

// Body is a block: local declarations first, then statements.
type Body struct {
	StartToken *lexer.Token

	Decls *VarDeclList
	Stmts *StmtList
}

// FunDecl keeps parameter types and names in two slices of equal length,
// correlated by position.
type FunDecl struct {
	StartToken *lexer.Token

	Name       string
	ParamTypes []string
	ParamNames []string
	ReturnType string
	Body       *Body
}

type FunDeclList struct {
	Funcs []*FunDecl
}

func (p *Program) AstNode()     {}
func (v *VarDecl) AstNode()     {}
func (v *VarDeclList) AstNode() {}
func (s *StmtList) AstNode()    {}
func (b *Body) AstNode()        {}
func (f *FunDecl) AstNode()     {}
func (f *FunDeclList) AstNode() {}

func (p *Program) FirstToken() *lexer.Token { return p.StartToken }
func (v *VarDecl) FirstToken() *lexer.Token { return v.StartToken }
func (b *Body) FirstToken() *lexer.Token    { return b.StartToken }
func (f *FunDecl) FirstToken() *lexer.Token { return f.StartToken }

func (v *VarDeclList) FirstToken() *lexer.Token {
	if len(v.Decls) == 0 {
		return nil
	}
	return v.Decls[0].StartToken
}

func (s *StmtList) FirstToken() *lexer.Token {
	if len(s.Stmts) == 0 {
		return nil
	}
	return s.Stmts[0].FirstToken()
}

func (f *FunDeclList) FirstToken() *lexer.Token {
	if len(f.Funcs) == 0 {
		return nil
	}
	return f.Funcs[0].StartToken
}
