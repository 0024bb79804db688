package semantic_analyzer

import (
	"fmt"
	"math"

	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/compiler_errors"
	"github.com/kievzenit/impc/internal/lexer"
	types "github.com/kievzenit/impc/internal/types"
)

type SemanticError struct {
	message string

	line   int
	column int
}

func (se *SemanticError) GetMessage() string { return se.message }
func (se *SemanticError) GetLine() int       { return se.line }
func (se *SemanticError) GetColumn() int     { return se.column }

func (se *SemanticError) Error() string {
	return fmt.Sprintf("%d:%d: %s", se.line, se.column, se.message)
}

func newSemanticError(token *lexer.Token, format string, args ...any) *SemanticError {
	se := &SemanticError{message: fmt.Sprintf(format, args...)}
	if token != nil {
		se.line = token.Line
		se.column = token.Column
	}

	return se
}

type scope struct {
	parent    *scope
	variables map[string]varDefinition
}

type varDefinition struct {
	Global bool
	Type   types.Type
}

func (s *scope) lookupVar(name string) (varDefinition, bool) {
	t, ok := s.variables[name]
	if ok {
		return t, true
	}

	if s.parent != nil {
		return s.parent.lookupVar(name)
	}

	return varDefinition{}, false
}

func (s *scope) defineVar(name string, v varDefinition) {
	if _, ok := s.variables[name]; ok {
		panic("cannot redefine variable")
	}
	s.variables[name] = v
}

type argDefinition struct {
	Type  types.Type
	Index int
}

// Info is what the analysis learned about a program, for later phases.
type Info struct {
	// Funcs is in declaration order.
	Funcs   []*types.FunctionType
	Globals map[string]types.Type
	Types   map[ast.Expr]types.Type
}

func (i *Info) Func(name string) (*types.FunctionType, bool) {
	for _, f := range i.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// SemanticAnalyzer checks names and calls: every variable and function used
// is declared, calls match the callee's arity, and nothing is declared twice.
// Errors go to the ErrorHandler and analysis carries on, so one run reports
// all of them.
type SemanticAnalyzer struct {
	eh      compiler_errors.ErrorHandler
	program *ast.Program

	typeResolver *TypeResolver

	scope    *scope
	funcArgs map[string]argDefinition
	funcsMap map[string]*types.FunctionType

	info *Info
}

var _ ast.Visitor = (*SemanticAnalyzer)(nil)

func NewSemanticAnalyzer(eh compiler_errors.ErrorHandler, program *ast.Program) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		eh:      eh,
		program: program,

		typeResolver: NewTypeResolver(),

		scope:    &scope{variables: make(map[string]varDefinition)},
		funcArgs: make(map[string]argDefinition),
		funcsMap: make(map[string]*types.FunctionType),

		info: &Info{
			Funcs:   make([]*types.FunctionType, 0),
			Globals: make(map[string]types.Type),
			Types:   make(map[ast.Expr]types.Type),
		},
	}
}

func (sa *SemanticAnalyzer) Analyze() *Info {
	sa.program.Accept(sa)
	return sa.info
}

func (sa *SemanticAnalyzer) enterScope() {
	sa.scope = &scope{parent: sa.scope, variables: make(map[string]varDefinition)}
}

func (sa *SemanticAnalyzer) exitScope() {
	sa.scope = sa.scope.parent
}

func (sa *SemanticAnalyzer) addError(token *lexer.Token, format string, args ...any) {
	sa.eh.AddError(newSemanticError(token, format, args...))
}

func (sa *SemanticAnalyzer) resolveType(token *lexer.Token, name string) types.Type {
	t, ok := sa.typeResolver.Resolve(name)
	if !ok {
		sa.addError(token, "type %s not defined", name)
		return sa.typeResolver.MustResolve("int")
	}

	return t
}

func (sa *SemanticAnalyzer) scanProgramForFunctions(funcs *ast.FunDeclList) {
	for _, funDecl := range funcs.Funcs {
		if _, ok := sa.funcsMap[funDecl.Name]; ok {
			sa.addError(funDecl.StartToken, "function %s already defined", funDecl.Name)
			continue
		}

		args := make([]types.FunctionArgType, 0, len(funDecl.ParamNames))
		for i, name := range funDecl.ParamNames {
			args = append(args, types.FunctionArgType{
				Name: name,
				Type: sa.resolveType(funDecl.StartToken, funDecl.ParamTypes[i]),
			})
		}

		functionType := &types.FunctionType{
			Name:       funDecl.Name,
			Args:       args,
			ReturnType: sa.resolveType(funDecl.StartToken, funDecl.ReturnType),
		}
		sa.funcsMap[funDecl.Name] = functionType
		sa.info.Funcs = append(sa.info.Funcs, functionType)
	}
}

// lookupVar resolves a name the way the program sees it: locals of the
// current function, then its parameters, then globals.
func (sa *SemanticAnalyzer) lookupVar(name string) (types.Type, bool) {
	def, defined := sa.scope.lookupVar(name)
	if defined && !def.Global {
		return def.Type, true
	}

	if arg, ok := sa.funcArgs[name]; ok {
		return arg.Type, true
	}

	if defined {
		return def.Type, true
	}

	return nil, false
}

func (sa *SemanticAnalyzer) typeOf(expr ast.Expr) types.Type {
	expr.Accept(sa)
	return sa.info.Types[expr]
}

func (sa *SemanticAnalyzer) record(expr ast.Expr, t types.Type) int {
	sa.info.Types[expr] = t
	return 0
}

func (sa *SemanticAnalyzer) VisitNumberExpr(e *ast.NumberExpr) int {
	if e.Value < math.MinInt32 || e.Value > math.MaxInt32 {
		return sa.record(e, sa.typeResolver.MustResolve("long"))
	}
	return sa.record(e, sa.typeResolver.MustResolve("int"))
}

func (sa *SemanticAnalyzer) VisitBoolExpr(e *ast.BoolExpr) int {
	return sa.record(e, sa.typeResolver.MustResolve("bool"))
}

func (sa *SemanticAnalyzer) VisitIdentExpr(e *ast.IdentExpr) int {
	t, ok := sa.lookupVar(e.Name)
	if !ok {
		sa.addError(e.StartToken, "variable %s not defined", e.Name)
		t = sa.typeResolver.MustResolve("int")
	}

	return sa.record(e, t)
}

func (sa *SemanticAnalyzer) VisitBinaryExpr(e *ast.BinaryExpr) int {
	left := sa.typeOf(e.Left)
	right := sa.typeOf(e.Right)

	if e.Op.IsComparison() {
		return sa.record(e, sa.typeResolver.MustResolve("bool"))
	}

	result := types.Wider(left, right)
	if _, ok := result.(*types.BoolType); ok {
		result = sa.typeResolver.MustResolve("int")
	}

	return sa.record(e, result)
}

func (sa *SemanticAnalyzer) VisitIfExpr(e *ast.IfExpr) int {
	sa.typeOf(e.Cond)
	then := sa.typeOf(e.Then)
	els := sa.typeOf(e.Else)

	return sa.record(e, types.Wider(then, els))
}

func (sa *SemanticAnalyzer) VisitCallExpr(e *ast.CallExpr) int {
	functionType := sa.checkCall(e.StartToken, e.Name, e.Args)
	if functionType == nil {
		return sa.record(e, sa.typeResolver.MustResolve("int"))
	}

	return sa.record(e, functionType.ReturnType)
}

func (sa *SemanticAnalyzer) checkCall(token *lexer.Token, name string, args []ast.Expr) *types.FunctionType {
	for _, arg := range args {
		sa.typeOf(arg)
	}

	functionType, ok := sa.funcsMap[name]
	if !ok {
		sa.addError(token, "function %s not defined", name)
		return nil
	}

	if len(args) != len(functionType.Args) {
		sa.addError(token, "function %s expects %d arguments, got %d",
			name, len(functionType.Args), len(args))
	}

	return functionType
}

func (sa *SemanticAnalyzer) VisitAssignStmt(s *ast.AssignStmt) {
	if _, ok := sa.lookupVar(s.Target); !ok {
		sa.addError(s.StartToken, "variable %s not defined", s.Target)
	}

	sa.typeOf(s.Value)
}

func (sa *SemanticAnalyzer) VisitCallStmt(s *ast.CallStmt) {
	sa.checkCall(s.StartToken, s.Name, s.Args)
}

func (sa *SemanticAnalyzer) VisitPrintStmt(s *ast.PrintStmt) {
	sa.typeOf(s.Value)
}

func (sa *SemanticAnalyzer) VisitIfStmt(s *ast.IfStmt) {
	sa.typeOf(s.Cond)
	s.Then.Accept(sa)
	if s.Else != nil {
		s.Else.Accept(sa)
	}
}

func (sa *SemanticAnalyzer) VisitWhileStmt(s *ast.WhileStmt) {
	sa.typeOf(s.Cond)
	s.Body.Accept(sa)
}

func (sa *SemanticAnalyzer) VisitForStmt(s *ast.ForStmt) {
	sa.typeOf(s.Start)
	sa.typeOf(s.End)
	sa.typeOf(s.Step)

	if n, ok := s.Step.(*ast.NumberExpr); ok && n.Value == 0 {
		sa.addError(s.StartToken, "for step cannot be zero")
	}

	s.Body.Accept(sa)
}

func (sa *SemanticAnalyzer) VisitReturnStmt(s *ast.ReturnStmt) {
	if s.Value != nil {
		sa.typeOf(s.Value)
	}
}

func (sa *SemanticAnalyzer) VisitVarDecl(d *ast.VarDecl) {
	varType := sa.resolveType(d.StartToken, d.Type)
	global := sa.scope.parent == nil

	for _, name := range d.Names {
		def, defined := sa.scope.lookupVar(name)
		if defined && (global || !def.Global) {
			sa.addError(d.StartToken, "variable %s already defined", name)
			continue
		}

		if _, ok := sa.funcArgs[name]; ok && !global {
			sa.addError(d.StartToken, "variable %s shadows function argument", name)
			continue
		}

		sa.scope.defineVar(name, varDefinition{Global: global, Type: varType})
		if global {
			sa.info.Globals[name] = varType
		}
	}
}

func (sa *SemanticAnalyzer) VisitVarDeclList(l *ast.VarDeclList) {
	for _, decl := range l.Decls {
		decl.Accept(sa)
	}
}

func (sa *SemanticAnalyzer) VisitStmtList(l *ast.StmtList) {
	for _, stmt := range l.Stmts {
		stmt.Accept(sa)
	}
}

func (sa *SemanticAnalyzer) VisitBody(b *ast.Body) {
	sa.enterScope()
	defer sa.exitScope()

	b.Decls.Accept(sa)
	b.Stmts.Accept(sa)
}

func (sa *SemanticAnalyzer) VisitFunDecl(f *ast.FunDecl) {
	functionType, ok := sa.funcsMap[f.Name]
	if !ok {
		return
	}

	sa.funcArgs = make(map[string]argDefinition)
	defer func() { sa.funcArgs = make(map[string]argDefinition) }()

	for i, arg := range functionType.Args {
		if _, ok := sa.funcArgs[arg.Name]; ok {
			sa.addError(f.StartToken, "parameter %s already defined", arg.Name)
			continue
		}

		sa.funcArgs[arg.Name] = argDefinition{
			Type:  arg.Type,
			Index: i,
		}
	}

	f.Body.Accept(sa)
}

func (sa *SemanticAnalyzer) VisitFunDeclList(l *ast.FunDeclList) {
	seen := make(map[string]bool)

	for _, funDecl := range l.Funcs {
		// the duplicate was reported while scanning
		if seen[funDecl.Name] {
			continue
		}
		seen[funDecl.Name] = true

		funDecl.Accept(sa)
	}
}

func (sa *SemanticAnalyzer) VisitProgram(p *ast.Program) {
	sa.scanProgramForFunctions(p.Funcs)

	p.Globals.Accept(sa)
	p.Funcs.Accept(sa)
}
