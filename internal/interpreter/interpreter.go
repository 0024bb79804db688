package interpreter

import (
	"errors"
	"fmt"
	"io"

	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/lexer"
	"github.com/kievzenit/impc/internal/semantic_analyzer"
	types "github.com/kievzenit/impc/internal/types"
)

type RuntimeError struct {
	message string

	line   int
	column int
}

func (re *RuntimeError) GetMessage() string { return re.message }
func (re *RuntimeError) GetLine() int       { return re.line }
func (re *RuntimeError) GetColumn() int     { return re.column }

func (re *RuntimeError) Error() string {
	if re.line == 0 {
		return "runtime error: " + re.message
	}
	return fmt.Sprintf("%d:%d: runtime error: %s", re.line, re.column, re.message)
}

func newRuntimeError(token *lexer.Token, format string, args ...any) *RuntimeError {
	re := &RuntimeError{message: fmt.Sprintf(format, args...)}
	if token != nil {
		re.line = token.Line
		re.column = token.Column
	}

	return re
}

type Options struct {
	// Entry names the function to run. Empty means the last one declared.
	Entry        string
	MaxCallDepth int
}

func DefaultOptions() Options {
	return Options{MaxCallDepth: 1000}
}

type variable struct {
	value int64
	typ   *types.IntType
}

type environment struct {
	parent    *environment
	variables map[string]*variable
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent, variables: make(map[string]*variable)}
}

func (env *environment) lookup(name string) (*variable, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

type bailout struct{}

// Interpreter evaluates a program directly on the tree. Expression visits
// return the value of the expression; int and long values are both carried
// in a Go int and wrapped to their declared width on every store.
type Interpreter struct {
	program *ast.Program
	out     io.Writer
	opts    Options

	typeResolver *semantic_analyzer.TypeResolver

	globals *environment
	env     *environment
	funcs   map[string]*ast.FunDecl

	depth     int
	returning bool
	result    int64

	err error
}

var _ ast.Visitor = (*Interpreter)(nil)

func NewInterpreter(program *ast.Program, out io.Writer, opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultOptions().MaxCallDepth
	}

	return &Interpreter{
		program: program,
		out:     out,
		opts:    opts,

		typeResolver: semantic_analyzer.NewTypeResolver(),

		globals: newEnvironment(nil),
		funcs:   make(map[string]*ast.FunDecl),
	}
}

// Run declares the globals and then calls the entry function, which must take
// no arguments. It returns the entry function's result.
func (in *Interpreter) Run() (result int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			result, err = 0, in.err
		}
	}()

	in.program.Accept(in)

	entry, err := in.entry()
	if err != nil {
		return 0, err
	}

	return in.call(entry.StartToken, entry.Name, nil), nil
}

func (in *Interpreter) entry() (*ast.FunDecl, error) {
	funcs := in.program.Funcs.Funcs
	if len(funcs) == 0 {
		return nil, newRuntimeError(nil, "program has no functions")
	}

	entry := funcs[len(funcs)-1]
	if in.opts.Entry != "" {
		var ok bool
		entry, ok = in.funcs[in.opts.Entry]
		if !ok {
			return nil, newRuntimeError(nil, "entry function %s not defined", in.opts.Entry)
		}
	}

	if len(entry.ParamNames) != 0 {
		return nil, newRuntimeError(entry.StartToken,
			"entry function %s must not take parameters", entry.Name)
	}

	return entry, nil
}

func (in *Interpreter) fail(err error) {
	in.err = err
	panic(bailout{})
}

func (in *Interpreter) failAt(token *lexer.Token, format string, args ...any) {
	in.fail(newRuntimeError(token, format, args...))
}

func (in *Interpreter) eval(expr ast.Expr) int64 {
	return int64(expr.Accept(in))
}

func (in *Interpreter) intType(token *lexer.Token, name string) *types.IntType {
	t, ok := in.typeResolver.Resolve(name)
	if !ok {
		in.failAt(token, "type %s not defined", name)
	}

	intType, ok := t.(*types.IntType)
	if !ok {
		in.failAt(token, "variables of type %s are not supported", name)
	}

	return intType
}

func (in *Interpreter) lookup(token *lexer.Token, name string) *variable {
	v, ok := in.env.lookup(name)
	if !ok {
		in.failAt(token, "variable %s not defined", name)
	}
	return v
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (in *Interpreter) VisitNumberExpr(e *ast.NumberExpr) int {
	return int(e.Value)
}

func (in *Interpreter) VisitBoolExpr(e *ast.BoolExpr) int {
	return int(boolValue(e.Value))
}

func (in *Interpreter) VisitIdentExpr(e *ast.IdentExpr) int {
	return int(in.lookup(e.StartToken, e.Name).value)
}

func (in *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) int {
	left := in.eval(e.Left)
	right := in.eval(e.Right)

	switch e.Op {
	case ast.LtOp:
		return int(boolValue(left < right))
	case ast.LeOp:
		return int(boolValue(left <= right))
	case ast.EqOp:
		return int(boolValue(left == right))
	case ast.PlusOp:
		return int(left + right)
	case ast.MinusOp:
		return int(left - right)
	case ast.MulOp:
		return int(left * right)
	case ast.DivOp:
		if right == 0 {
			in.failAt(e.StartToken, "division by zero")
		}
		return int(left / right)
	}

	panic(fmt.Sprintf("unknown operator %s", e.Op))
}

func (in *Interpreter) VisitIfExpr(e *ast.IfExpr) int {
	if in.eval(e.Cond) != 0 {
		return e.Then.Accept(in)
	}
	return e.Else.Accept(in)
}

func (in *Interpreter) VisitCallExpr(e *ast.CallExpr) int {
	args := make([]int64, len(e.Args))
	for i, arg := range e.Args {
		args[i] = in.eval(arg)
	}

	return int(in.call(e.StartToken, e.Name, args))
}

func (in *Interpreter) call(token *lexer.Token, name string, args []int64) int64 {
	funDecl, ok := in.funcs[name]
	if !ok {
		in.failAt(token, "function %s not defined", name)
	}

	if len(args) != len(funDecl.ParamNames) {
		in.failAt(token, "function %s expects %d arguments, got %d",
			name, len(funDecl.ParamNames), len(args))
	}

	if in.depth >= in.opts.MaxCallDepth {
		in.failAt(token, "maximum call depth %d exceeded", in.opts.MaxCallDepth)
	}

	params := newEnvironment(in.globals)
	for i, paramName := range funDecl.ParamNames {
		paramType := in.intType(funDecl.StartToken, funDecl.ParamTypes[i])
		params.variables[paramName] = &variable{
			value: paramType.Truncate(args[i]),
			typ:   paramType,
		}
	}

	callerEnv := in.env
	in.env = params
	in.depth++
	defer func() {
		in.env = callerEnv
		in.depth--
	}()

	in.returning = false
	in.result = 0

	funDecl.Body.Accept(in)

	result := in.result
	in.returning = false
	in.result = 0

	return in.intType(funDecl.StartToken, funDecl.ReturnType).Truncate(result)
}

func (in *Interpreter) VisitAssignStmt(s *ast.AssignStmt) {
	value := in.eval(s.Value)

	v := in.lookup(s.StartToken, s.Target)
	v.value = v.typ.Truncate(value)
}

func (in *Interpreter) VisitCallStmt(s *ast.CallStmt) {
	args := make([]int64, len(s.Args))
	for i, arg := range s.Args {
		args[i] = in.eval(arg)
	}

	in.call(s.StartToken, s.Name, args)
}

func (in *Interpreter) VisitPrintStmt(s *ast.PrintStmt) {
	value := in.eval(s.Value)

	if _, err := fmt.Fprintf(in.out, "%d\n", value); err != nil {
		in.fail(fmt.Errorf("print: %w", err))
	}
}

func (in *Interpreter) VisitIfStmt(s *ast.IfStmt) {
	if in.eval(s.Cond) != 0 {
		s.Then.Accept(in)
	} else if s.Else != nil {
		s.Else.Accept(in)
	}
}

func (in *Interpreter) VisitWhileStmt(s *ast.WhileStmt) {
	for !in.returning && in.eval(s.Cond) != 0 {
		s.Body.Accept(in)
	}
}

// VisitForStmt evaluates its three clauses once and runs the body with a
// hidden counter, from start towards end (exclusive) by step.
func (in *Interpreter) VisitForStmt(s *ast.ForStmt) {
	start := in.eval(s.Start)
	end := in.eval(s.End)
	step := in.eval(s.Step)

	if step == 0 {
		in.failAt(s.StartToken, "for step cannot be zero")
	}

	for i := start; !in.returning && ((step > 0 && i < end) || (step < 0 && i > end)); {
		s.Body.Accept(in)

		// A counter that would wrap around has passed end.
		next := i + step
		if (step > 0 && next < i) || (step < 0 && next > i) {
			break
		}
		i = next
	}
}

func (in *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) {
	in.result = 0
	if s.Value != nil {
		in.result = in.eval(s.Value)
	}
	in.returning = true
}

func (in *Interpreter) VisitVarDecl(d *ast.VarDecl) {
	varType := in.intType(d.StartToken, d.Type)

	for _, name := range d.Names {
		in.env.variables[name] = &variable{typ: varType}
	}
}

func (in *Interpreter) VisitVarDeclList(l *ast.VarDeclList) {
	for _, decl := range l.Decls {
		decl.Accept(in)
	}
}

func (in *Interpreter) VisitStmtList(l *ast.StmtList) {
	for _, stmt := range l.Stmts {
		if in.returning {
			return
		}
		stmt.Accept(in)
	}
}

func (in *Interpreter) VisitBody(b *ast.Body) {
	in.env = newEnvironment(in.env)
	defer func() { in.env = in.env.parent }()

	b.Decls.Accept(in)
	b.Stmts.Accept(in)
}

func (in *Interpreter) VisitFunDecl(f *ast.FunDecl) {
	if _, ok := in.funcs[f.Name]; ok {
		in.failAt(f.StartToken, "function %s already defined", f.Name)
	}
	in.funcs[f.Name] = f
}

func (in *Interpreter) VisitFunDeclList(l *ast.FunDeclList) {
	for _, funDecl := range l.Funcs {
		funDecl.Accept(in)
	}
}

// VisitProgram sets up the globals, zero-initialized, and the function
// table. Nothing runs until Run calls the entry function.
func (in *Interpreter) VisitProgram(p *ast.Program) {
	in.env = in.globals
	p.Globals.Accept(in)
	p.Funcs.Accept(in)
}

// IsRuntimeError reports whether err was raised by the running program
// rather than by the interpreter's surroundings.
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return errors.As(err, &runtimeErr)
}
