package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/kievzenit/impc/internal/ast"
)

type Style int

const (
	// Outline renders the keyword templates `fun … endfun`, `if … then …
	// endif` and so on. It is meant for reading, not for re-parsing.
	Outline Style = iota
	// Source renders imp source that parses back into the same tree.
	Source
)

func (s Style) String() string {
	switch s {
	case Outline:
		return "outline"
	case Source:
		return "source"
	}
	return "unknown"
}

func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", "outline":
		return Outline, nil
	case "source":
		return Source, nil
	}
	return Outline, fmt.Errorf("unknown print style %q", name)
}

type Options struct {
	Style  Style
	Indent int
}

func DefaultOptions() Options {
	return Options{Style: Outline, Indent: 2}
}

// PrintVisitor serializes a tree. Its only state is the indentation depth,
// which is raised for the duration of every Body.
type PrintVisitor struct {
	w    io.Writer
	opts Options

	depth int
	err   error
}

var _ ast.Visitor = (*PrintVisitor)(nil)

func NewPrintVisitor(w io.Writer, opts Options) *PrintVisitor {
	if opts.Indent < 0 {
		opts.Indent = 0
	}

	return &PrintVisitor{
		w:    w,
		opts: opts,
	}
}

// Print writes the whole program and returns the first write error, if any.
func (p *PrintVisitor) Print(program *ast.Program) error {
	program.Accept(p)
	return p.err
}

func Sprint(program *ast.Program, opts Options) string {
	var buf bytes.Buffer
	_ = NewPrintVisitor(&buf, opts).Print(program)
	return buf.String()
}

func (p *PrintVisitor) write(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *PrintVisitor) printIndent() {
	p.write("%s", strings.Repeat(" ", p.depth*p.opts.Indent))
}

func (p *PrintVisitor) source() bool {
	return p.opts.Style == Source
}

func (p *PrintVisitor) VisitNumberExpr(e *ast.NumberExpr) int {
	p.write("%d", e.Value)
	return 0
}

func (p *PrintVisitor) VisitBoolExpr(e *ast.BoolExpr) int {
	if e.Value {
		p.write("true")
	} else {
		p.write("false")
	}
	return 0
}

func (p *PrintVisitor) VisitIdentExpr(e *ast.IdentExpr) int {
	p.write("%s", e.Name)
	return 0
}

func (p *PrintVisitor) VisitBinaryExpr(e *ast.BinaryExpr) int {
	p.printOperand(e.Left, e.Op, false)
	p.write(" %s ", e.Op)
	p.printOperand(e.Right, e.Op, true)
	return 0
}

// printOperand adds the parentheses the grammar needs to rebuild the same
// tree: a looser operand, a right operand of equal strength (the operators
// are left-associative), and any comparison under a comparison.
func (p *PrintVisitor) printOperand(operand ast.Expr, parent ast.BinaryOp, right bool) {
	child, ok := operand.(*ast.BinaryExpr)
	if !ok {
		operand.Accept(p)
		return
	}

	parens := child.Op.Precedence() < parent.Precedence() ||
		(child.Op.Precedence() == parent.Precedence() && (right || parent.IsComparison()))

	if parens {
		p.write("(")
	}
	operand.Accept(p)
	if parens {
		p.write(")")
	}
}

func (p *PrintVisitor) VisitIfExpr(e *ast.IfExpr) int {
	sep := ","
	if p.source() {
		sep = ", "
	}

	p.write("ifexp(")
	e.Cond.Accept(p)
	p.write("%s", sep)
	e.Then.Accept(p)
	p.write("%s", sep)
	e.Else.Accept(p)
	p.write(")")
	return 0
}

func (p *PrintVisitor) VisitCallExpr(e *ast.CallExpr) int {
	p.printCall(e.Name, e.Args)
	return 0
}

func (p *PrintVisitor) printCall(name string, args []ast.Expr) {
	sep := ","
	if p.source() {
		sep = ", "
	}

	p.write("%s(", name)
	for i, arg := range args {
		if i > 0 {
			p.write("%s", sep)
		}
		arg.Accept(p)
	}
	p.write(")")
}

func (p *PrintVisitor) VisitAssignStmt(s *ast.AssignStmt) {
	p.write("%s = ", s.Target)
	s.Value.Accept(p)
	if !p.source() {
		p.write(";")
	}
}

func (p *PrintVisitor) VisitCallStmt(s *ast.CallStmt) {
	p.printCall(s.Name, s.Args)
}

func (p *PrintVisitor) VisitPrintStmt(s *ast.PrintStmt) {
	if p.source() {
		p.write(`printf("%%d\n", `)
		s.Value.Accept(p)
		p.write(")")
		return
	}

	p.write("print(")
	s.Value.Accept(p)
	p.write(");")
}

func (p *PrintVisitor) VisitIfStmt(s *ast.IfStmt) {
	if p.source() {
		p.write("if (")
		s.Cond.Accept(p)
		p.write(") {\n")
		s.Then.Accept(p)
		p.printIndent()
		p.write("}")
		if s.Else != nil {
			p.write(" else {\n")
			s.Else.Accept(p)
			p.printIndent()
			p.write("}")
		}
		return
	}

	p.write("if ")
	s.Cond.Accept(p)
	p.write(" then\n")
	s.Then.Accept(p)
	if s.Else != nil {
		p.printIndent()
		p.write("else\n")
		s.Else.Accept(p)
	}
	p.printIndent()
	p.write("endif")
}

func (p *PrintVisitor) VisitWhileStmt(s *ast.WhileStmt) {
	p.write("while ")
	s.Cond.Accept(p)
	p.write(" do\n")
	s.Body.Accept(p)
	p.printIndent()
	if p.source() {
		p.write("} endwhile")
	} else {
		p.write("endwhile")
	}
}

func (p *PrintVisitor) VisitForStmt(s *ast.ForStmt) {
	if p.source() {
		p.write("for (")
		s.Start.Accept(p)
		p.write(", ")
		s.End.Accept(p)
		p.write(", ")
		s.Step.Accept(p)
		p.write(") {\n")
		s.Body.Accept(p)
		p.printIndent()
		p.write("}")
		return
	}

	p.write("for ")
	s.Start.Accept(p)
	p.write(" to ")
	s.End.Accept(p)
	p.write(" step ")
	s.Step.Accept(p)
	p.write(" do\n")
	s.Body.Accept(p)
	p.printIndent()
	p.write("endfor")
}

func (p *PrintVisitor) VisitReturnStmt(s *ast.ReturnStmt) {
	if s.Value == nil {
		if p.source() {
			p.write("return")
		} else {
			p.write("return ()")
		}
		return
	}

	p.write("return (")
	s.Value.Accept(p)
	p.write(")")
}

func (p *PrintVisitor) VisitVarDecl(d *ast.VarDecl) {
	if !p.source() {
		p.write("var ")
	}
	p.write("%s %s", d.Type, strings.Join(d.Names, ", "))
	if !p.source() {
		p.write(";")
	}
}

func (p *PrintVisitor) VisitVarDeclList(l *ast.VarDeclList) {
	for _, decl := range l.Decls {
		p.printIndent()
		decl.Accept(p)
		p.write("\n")
	}
}

func (p *PrintVisitor) VisitStmtList(l *ast.StmtList) {
	for _, stmt := range l.Stmts {
		p.printIndent()
		stmt.Accept(p)
		p.write("\n")
	}
}

func (p *PrintVisitor) VisitBody(b *ast.Body) {
	p.depth++
	defer func() { p.depth-- }()

	b.Decls.Accept(p)
	b.Stmts.Accept(p)
}

func (p *PrintVisitor) VisitFunDecl(f *ast.FunDecl) {
	if !p.source() {
		p.write("fun ")
	}
	p.write("%s %s(", f.ReturnType, f.Name)
	for i := range f.ParamTypes {
		if i > 0 {
			p.write(", ")
		}
		p.write("%s %s", f.ParamTypes[i], f.ParamNames[i])
	}

	if p.source() {
		p.write(") {\n")
		f.Body.Accept(p)
		p.write("}")
		return
	}

	p.write(")\n")
	f.Body.Accept(p)
	p.write("endfun")
}

func (p *PrintVisitor) VisitFunDeclList(l *ast.FunDeclList) {
	for _, fun := range l.Funcs {
		fun.Accept(p)
		p.write("\n")
	}
}

func (p *PrintVisitor) VisitProgram(program *ast.Program) {
	if p.source() {
		p.write("main\n")
	}
	program.Globals.Accept(p)
	program.Funcs.Accept(p)
}
