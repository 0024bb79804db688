package ast

// Visitor is implemented by every operation over the tree. Each node's Accept
// calls back into the one method for its own kind, so a new operation is a
// new Visitor and never a change to the nodes.
//
// Expression methods return an int: the value of the expression under the
// visitor's semantics, or a placeholder when the visitor has none.
type Visitor interface {
	VisitNumberExpr(e *NumberExpr) int
	VisitBoolExpr(e *BoolExpr) int
	VisitIdentExpr(e *IdentExpr) int
	VisitBinaryExpr(e *BinaryExpr) int
	VisitIfExpr(e *IfExpr) int
	VisitCallExpr(e *CallExpr) int

	VisitAssignStmt(s *AssignStmt)
	VisitCallStmt(s *CallStmt)
	VisitPrintStmt(s *PrintStmt)
	VisitIfStmt(s *IfStmt)
	VisitWhileStmt(s *WhileStmt)
	VisitForStmt(s *ForStmt)
	VisitReturnStmt(s *ReturnStmt)

	VisitVarDecl(d *VarDecl)
	VisitVarDeclList(l *VarDeclList)
	VisitStmtList(l *StmtList)
	VisitBody(b *Body)
	VisitFunDecl(f *FunDecl)
	VisitFunDeclList(l *FunDeclList)
	VisitProgram(p *Program)
}

func (e *NumberExpr) Accept(v Visitor) int { return v.VisitNumberExpr(e) }
func (e *BoolExpr) Accept(v Visitor) int   { return v.VisitBoolExpr(e) }
func (e *IdentExpr) Accept(v Visitor) int  { return v.VisitIdentExpr(e) }
func (e *BinaryExpr) Accept(v Visitor) int { return v.VisitBinaryExpr(e) }
func (e *IfExpr) Accept(v Visitor) int     { return v.VisitIfExpr(e) }
func (e *CallExpr) Accept(v Visitor) int   { return v.VisitCallExpr(e) }

func (s *AssignStmt) Accept(v Visitor) { v.VisitAssignStmt(s) }
func (s *CallStmt) Accept(v Visitor)   { v.VisitCallStmt(s) }
func (s *PrintStmt) Accept(v Visitor)  { v.VisitPrintStmt(s) }
func (s *IfStmt) Accept(v Visitor)     { v.VisitIfStmt(s) }
func (s *WhileStmt) Accept(v Visitor)  { v.VisitWhileStmt(s) }
func (s *ForStmt) Accept(v Visitor)    { v.VisitForStmt(s) }
func (s *ReturnStmt) Accept(v Visitor) { v.VisitReturnStmt(s) }

func (d *VarDecl) Accept(v Visitor)     { v.VisitVarDecl(d) }
func (l *VarDeclList) Accept(v Visitor) { v.VisitVarDeclList(l) }
func (l *StmtList) Accept(v Visitor)    { v.VisitStmtList(l) }
func (b *Body) Accept(v Visitor)        { v.VisitBody(b) }
func (f *FunDecl) Accept(v Visitor)     { v.VisitFunDecl(f) }
func (l *FunDeclList) Accept(v Visitor) { v.VisitFunDeclList(l) }
func (p *Program) Accept(v Visitor)     { v.VisitProgram(p) }
