package printer

import (
	"io"
	"strconv"

	"github.com/kievzenit/impc/internal/ast"
	"gopkg.in/yaml.v3"
)

// YAMLVisitor builds a yaml.Node document for a tree. Every node becomes a
// single-key mapping from its kind to its fields, so the dump keeps the node
// kinds that a plain struct encoding would lose.
type YAMLVisitor struct {
	node *yaml.Node
}

var _ ast.Visitor = (*YAMLVisitor)(nil)

func NewYAMLVisitor() *YAMLVisitor {
	return &YAMLVisitor{}
}

// Node returns the document for program.
func (y *YAMLVisitor) Node(program *ast.Program) *yaml.Node {
	program.Accept(y)
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{y.node}}
}

func (y *YAMLVisitor) Encode(w io.Writer, program *ast.Program, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(y.Node(program)); err != nil {
		return err
	}

	return enc.Close()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func typedScalar(tag string, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func flowSequence(items ...*yaml.Node) *yaml.Node {
	seq := sequence(items...)
	seq.Style = yaml.FlowStyle
	return seq
}

// mapping takes alternating keys and values.
func mapping(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(pairs); i += 2 {
		m.Content = append(m.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

func (y *YAMLVisitor) expr(e ast.Expr) *yaml.Node {
	e.Accept(y)
	return y.node
}

func (y *YAMLVisitor) exprs(exprs []ast.Expr) *yaml.Node {
	items := make([]*yaml.Node, len(exprs))
	for i, e := range exprs {
		items[i] = y.expr(e)
	}
	return sequence(items...)
}

func (y *YAMLVisitor) body(b *ast.Body) *yaml.Node {
	b.Accept(y)
	return y.node
}

func (y *YAMLVisitor) VisitNumberExpr(e *ast.NumberExpr) int {
	y.node = typedScalar("!!int", strconv.FormatInt(e.Value, 10))
	return 0
}

func (y *YAMLVisitor) VisitBoolExpr(e *ast.BoolExpr) int {
	y.node = typedScalar("!!bool", strconv.FormatBool(e.Value))
	return 0
}

func (y *YAMLVisitor) VisitIdentExpr(e *ast.IdentExpr) int {
	y.node = mapping("ident", scalar(e.Name))
	return 0
}

func (y *YAMLVisitor) VisitBinaryExpr(e *ast.BinaryExpr) int {
	left := y.expr(e.Left)
	right := y.expr(e.Right)

	y.node = mapping("binary", mapping(
		"op", scalar(e.Op.String()),
		"left", left,
		"right", right,
	))
	return 0
}

func (y *YAMLVisitor) VisitIfExpr(e *ast.IfExpr) int {
	cond := y.expr(e.Cond)
	then := y.expr(e.Then)
	els := y.expr(e.Else)

	y.node = mapping("ifexp", mapping("cond", cond, "then", then, "else", els))
	return 0
}

func (y *YAMLVisitor) VisitCallExpr(e *ast.CallExpr) int {
	y.node = mapping("call", mapping("name", scalar(e.Name), "args", y.exprs(e.Args)))
	return 0
}

func (y *YAMLVisitor) VisitAssignStmt(s *ast.AssignStmt) {
	y.node = mapping("assign", mapping("target", scalar(s.Target), "value", y.expr(s.Value)))
}

func (y *YAMLVisitor) VisitCallStmt(s *ast.CallStmt) {
	y.node = mapping("call", mapping("name", scalar(s.Name), "args", y.exprs(s.Args)))
}

func (y *YAMLVisitor) VisitPrintStmt(s *ast.PrintStmt) {
	y.node = mapping("print", y.expr(s.Value))
}

func (y *YAMLVisitor) VisitIfStmt(s *ast.IfStmt) {
	fields := []any{"cond", y.expr(s.Cond), "then", y.body(s.Then)}
	if s.Else != nil {
		fields = append(fields, "else", y.body(s.Else))
	}

	y.node = mapping("if", mapping(fields...))
}

func (y *YAMLVisitor) VisitWhileStmt(s *ast.WhileStmt) {
	cond := y.expr(s.Cond)
	y.node = mapping("while", mapping("cond", cond, "body", y.body(s.Body)))
}

func (y *YAMLVisitor) VisitForStmt(s *ast.ForStmt) {
	start := y.expr(s.Start)
	end := y.expr(s.End)
	step := y.expr(s.Step)

	y.node = mapping("for", mapping(
		"start", start,
		"end", end,
		"step", step,
		"body", y.body(s.Body),
	))
}

func (y *YAMLVisitor) VisitReturnStmt(s *ast.ReturnStmt) {
	if s.Value == nil {
		y.node = mapping("return", null())
		return
	}

	y.node = mapping("return", y.expr(s.Value))
}

func (y *YAMLVisitor) VisitVarDecl(d *ast.VarDecl) {
	names := make([]*yaml.Node, len(d.Names))
	for i, name := range d.Names {
		names[i] = scalar(name)
	}

	y.node = mapping("var", mapping("type", scalar(d.Type), "names", flowSequence(names...)))
}

func (y *YAMLVisitor) VisitVarDeclList(l *ast.VarDeclList) {
	items := make([]*yaml.Node, len(l.Decls))
	for i, decl := range l.Decls {
		decl.Accept(y)
		items[i] = y.node
	}
	y.node = sequence(items...)
}

func (y *YAMLVisitor) VisitStmtList(l *ast.StmtList) {
	items := make([]*yaml.Node, len(l.Stmts))
	for i, stmt := range l.Stmts {
		stmt.Accept(y)
		items[i] = y.node
	}
	y.node = sequence(items...)
}

func (y *YAMLVisitor) VisitBody(b *ast.Body) {
	b.Decls.Accept(y)
	decls := y.node
	b.Stmts.Accept(y)
	stmts := y.node

	y.node = mapping("decls", decls, "stmts", stmts)
}

func (y *YAMLVisitor) VisitFunDecl(f *ast.FunDecl) {
	params := make([]*yaml.Node, len(f.ParamNames))
	for i := range f.ParamNames {
		param := mapping("type", scalar(f.ParamTypes[i]), "name", scalar(f.ParamNames[i]))
		param.Style = yaml.FlowStyle
		params[i] = param
	}

	y.node = mapping("fun", mapping(
		"name", scalar(f.Name),
		"return", scalar(f.ReturnType),
		"params", sequence(params...),
		"body", y.body(f.Body),
	))
}

func (y *YAMLVisitor) VisitFunDeclList(l *ast.FunDeclList) {
	items := make([]*yaml.Node, len(l.Funcs))
	for i, funDecl := range l.Funcs {
		funDecl.Accept(y)
		items[i] = y.node
	}
	y.node = sequence(items...)
}

func (y *YAMLVisitor) VisitProgram(p *ast.Program) {
	p.Globals.Accept(y)
	globals := y.node
	p.Funcs.Accept(y)
	funcs := y.node

	y.node = mapping("program", mapping("globals", globals, "functions", funcs))
}
