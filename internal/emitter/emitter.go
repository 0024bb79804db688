package emitter

import (
	"fmt"

	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/semantic_analyzer"
	types "github.com/kievzenit/impc/internal/types"
	"tinygo.org/x/go-llvm"
)

type Options struct {
	ModuleName string
	// Entry is the function the generated C main calls. Empty means the last
	// one declared.
	Entry  string
	Verify bool
}

type varSlot struct {
	ptr llvm.Value
	typ llvm.Type
}

type varScope struct {
	parent    *varScope
	variables map[string]varSlot
}

func (s *varScope) lookupVar(name string) (varSlot, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if slot, ok := scope.variables[name]; ok {
			return slot, true
		}
	}
	return varSlot{}, false
}

// Emitter lowers a checked program to LLVM IR. Every expression is computed
// as i64 and converted to the width of the variable, parameter or return
// value it ends up in.
type Emitter struct {
	program *ast.Program
	info    *semantic_analyzer.Info
	opts    Options

	typeResolver *semantic_analyzer.TypeResolver

	typesMap   map[string]llvm.Type
	globalsMap map[string]varSlot
	funcsMap   map[string]llvm.Value
	scope      *varScope

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	printfFunc   llvm.Value
	printfFormat llvm.Value
	trapFunc     llvm.Value

	currentFunc            llvm.Value
	currentFuncType        *types.FunctionType
	currentAllocBasicBlock llvm.BasicBlock

	controlFlowHappen bool
	nextBasicBlock    llvm.BasicBlock

	// value is the result of the last expression visited.
	value llvm.Value
}

var _ ast.Visitor = (*Emitter)(nil)

func NewEmitter(program *ast.Program, info *semantic_analyzer.Info, opts Options) *Emitter {
	if opts.ModuleName == "" {
		opts.ModuleName = "main"
	}

	context := llvm.NewContext()
	return &Emitter{
		program: program,
		info:    info,
		opts:    opts,

		typeResolver: semantic_analyzer.NewTypeResolver(),

		typesMap:   make(map[string]llvm.Type),
		globalsMap: make(map[string]varSlot),
		funcsMap:   make(map[string]llvm.Value),

		context: context,
		module:  context.NewModule(opts.ModuleName),
		builder: context.NewBuilder(),
	}
}

// Emit builds the module. The module belongs to the emitter's context, so it
// stays valid until Dispose.
func (e *Emitter) Emit() (llvm.Module, error) {
	e.declareTypes()
	e.declarePrintf()
	e.declareFuncPrototypes()

	e.program.Accept(e)

	if err := e.emitMain(); err != nil {
		return llvm.Module{}, err
	}

	if e.opts.Verify {
		if err := llvm.VerifyModule(e.module, llvm.ReturnStatusAction); err != nil {
			return llvm.Module{}, fmt.Errorf("verify module: %w", err)
		}
	}

	return e.module, nil
}

func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.context.Dispose()
}

func (e *Emitter) declareTypes() {
	e.typesMap["bool"] = e.context.Int1Type()
	e.typesMap["i32"] = e.context.Int32Type()
	e.typesMap["i64"] = e.context.Int64Type()
	e.typesMap["void"] = e.context.VoidType()
}

func (e *Emitter) getLlvmTypeForType(t types.Type) llvm.Type {
	if llvmType, ok := e.typesMap[t.Type()]; ok {
		return llvmType
	}

	panic("type not found")
}

func (e *Emitter) i64() llvm.Type {
	return e.typesMap["i64"]
}

func (e *Emitter) declarePrintf() {
	ptrType := llvm.PointerType(e.context.Int8Type(), 0)
	printfType := llvm.FunctionType(e.context.Int32Type(), []llvm.Type{ptrType}, true)
	e.printfFunc = llvm.AddFunction(e.module, "printf", printfType)
}

// trap returns llvm.trap, declaring it on first use.
func (e *Emitter) trap() llvm.Value {
	if e.trapFunc.IsNil() {
		trapType := llvm.FunctionType(e.context.VoidType(), nil, false)
		e.trapFunc = llvm.AddFunction(e.module, "llvm.trap", trapType)
	}
	return e.trapFunc
}

func (e *Emitter) declareFuncPrototypes() {
	for _, funcType := range e.info.Funcs {
		funcName := funcType.Name
		returnType := e.getLlvmTypeForType(funcType.ReturnType)
		argsTypes := make([]llvm.Type, 0)
		for _, arg := range funcType.Args {
			argsTypes = append(argsTypes, e.getLlvmTypeForType(arg.Type))
		}
		llvmFuncType := llvm.FunctionType(returnType, argsTypes, false)
		funcValue := llvm.AddFunction(e.module, funcName, llvmFuncType)
		e.funcsMap[funcName] = funcValue

		for i, arg := range funcType.Args {
			funcValue.Param(i).SetName(arg.Name)
		}

		framePointerAttr := e.context.CreateStringAttribute("frame-pointer", "all")
		noTrappingMathAttr := e.context.CreateStringAttribute("no-trapping-math", "true")
		stackProtectorBufferSizeAttr := e.context.CreateStringAttribute("stack-protector-buffer-size", "8")
		funcValue.AddFunctionAttr(framePointerAttr)
		funcValue.AddFunctionAttr(noTrappingMathAttr)
		funcValue.AddFunctionAttr(stackProtectorBufferSizeAttr)
	}
}

// emitMain adds the C entry point, which calls the entry function and returns
// its result as the exit status.
func (e *Emitter) emitMain() error {
	if len(e.info.Funcs) == 0 {
		return nil
	}

	entry := e.info.Funcs[len(e.info.Funcs)-1]
	if e.opts.Entry != "" {
		var ok bool
		entry, ok = e.info.Func(e.opts.Entry)
		if !ok {
			return fmt.Errorf("entry function %s not defined", e.opts.Entry)
		}
	}

	if len(entry.Args) != 0 {
		return fmt.Errorf("entry function %s must not take parameters", entry.Name)
	}

	i32 := e.typesMap["i32"]
	mainFunc := llvm.AddFunction(e.module, "main", llvm.FunctionType(i32, nil, false))
	e.builder.SetInsertPointAtEnd(e.context.AddBasicBlock(mainFunc, "entry"))

	entryFunc := e.funcsMap[entry.Name]
	result := e.builder.CreateCall(entryFunc.GlobalValueType(), entryFunc, nil, "result")
	e.builder.CreateRet(e.convert(result, e.getLlvmTypeForType(entry.ReturnType), i32))

	return nil
}

// convert moves an integer between widths: sign extension when growing, except
// for i1 which is zero extended, and truncation when shrinking.
func (e *Emitter) convert(value llvm.Value, from llvm.Type, to llvm.Type) llvm.Value {
	fromBits := from.IntTypeWidth()
	toBits := to.IntTypeWidth()

	switch {
	case fromBits == toBits:
		return value
	case fromBits > toBits:
		return e.builder.CreateTrunc(value, to, "trunctmp")
	case fromBits == 1:
		return e.builder.CreateZExt(value, to, "zexttmp")
	default:
		return e.builder.CreateSExt(value, to, "sexttmp")
	}
}

func (e *Emitter) emitExpr(expr ast.Expr) llvm.Value {
	expr.Accept(e)
	return e.value
}

// emitCond turns an i64 into the i1 a branch needs.
func (e *Emitter) emitCond(expr ast.Expr) llvm.Value {
	value := e.emitExpr(expr)
	return e.builder.CreateICmp(llvm.IntNE, value, llvm.ConstInt(e.i64(), 0, false), "condtmp")
}

func (e *Emitter) lookupVar(name string) varSlot {
	if slot, ok := e.scope.lookupVar(name); ok {
		return slot
	}
	if slot, ok := e.globalsMap[name]; ok {
		return slot
	}

	panic(fmt.Sprintf("variable %s not found", name))
}

func (e *Emitter) enterScope() {
	e.scope = &varScope{parent: e.scope, variables: make(map[string]varSlot)}
}

func (e *Emitter) exitScope() {
	e.scope = e.scope.parent
}

// createAlloca puts the stack slot in the function's alloc block, so loops
// do not grow the stack.
func (e *Emitter) createAlloca(typ llvm.Type, name string) llvm.Value {
	currBasicBlock := e.builder.GetInsertBlock()
	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	allocValue := e.builder.CreateAlloca(typ, name)
	e.builder.SetInsertPointAtEnd(currBasicBlock)

	return allocValue
}

func (e *Emitter) addBasicBlocks(names ...string) []llvm.BasicBlock {
	blocks := make([]llvm.BasicBlock, len(names))
	for i, name := range names {
		blocks[i] = e.context.AddBasicBlock(e.currentFunc, name)
		blocks[i].MoveBefore(e.nextBasicBlock)
	}
	return blocks
}

func (e *Emitter) VisitNumberExpr(n *ast.NumberExpr) int {
	e.value = llvm.ConstInt(e.i64(), uint64(n.Value), true)
	return 0
}

func (e *Emitter) VisitBoolExpr(b *ast.BoolExpr) int {
	var intValue uint64
	if b.Value {
		intValue = 1
	}
	e.value = llvm.ConstInt(e.i64(), intValue, false)
	return 0
}

func (e *Emitter) VisitIdentExpr(i *ast.IdentExpr) int {
	slot := e.lookupVar(i.Name)
	loaded := e.builder.CreateLoad(slot.typ, slot.ptr, "loadtmp")
	e.value = e.convert(loaded, slot.typ, e.i64())
	return 0
}

func (e *Emitter) VisitBinaryExpr(b *ast.BinaryExpr) int {
	leftValue := e.emitExpr(b.Left)
	rightValue := e.emitExpr(b.Right)

	var cmp llvm.Value
	switch b.Op {
	case ast.PlusOp:
		e.value = e.builder.CreateAdd(leftValue, rightValue, "addtmp")
		return 0
	case ast.MinusOp:
		e.value = e.builder.CreateSub(leftValue, rightValue, "subtmp")
		return 0
	case ast.MulOp:
		e.value = e.builder.CreateMul(leftValue, rightValue, "multmp")
		return 0
	case ast.DivOp:
		e.value = e.builder.CreateSDiv(leftValue, rightValue, "divtmp")
		return 0
	case ast.LtOp:
		cmp = e.builder.CreateICmp(llvm.IntSLT, leftValue, rightValue, "lttmp")
	case ast.LeOp:
		cmp = e.builder.CreateICmp(llvm.IntSLE, leftValue, rightValue, "letmp")
	case ast.EqOp:
		cmp = e.builder.CreateICmp(llvm.IntEQ, leftValue, rightValue, "eqtmp")
	default:
		panic("not implemented")
	}

	e.value = e.builder.CreateZExt(cmp, e.i64(), "booltmp")
	return 0
}

func (e *Emitter) VisitIfExpr(i *ast.IfExpr) int {
	privNextBasicBlock := e.nextBasicBlock

	blocks := e.addBasicBlocks("ifexpthen", "ifexpelse", "ifexpafter")
	thenBlock, elseBlock, afterBlock := blocks[0], blocks[1], blocks[2]

	e.nextBasicBlock = thenBlock
	condValue := e.emitCond(i.Cond)
	e.builder.CreateCondBr(condValue, thenBlock, elseBlock)

	e.builder.SetInsertPointAtEnd(thenBlock)
	e.nextBasicBlock = elseBlock
	thenValue := e.emitExpr(i.Then)
	thenEnd := e.builder.GetInsertBlock()
	e.builder.CreateBr(afterBlock)

	e.builder.SetInsertPointAtEnd(elseBlock)
	e.nextBasicBlock = afterBlock
	elseValue := e.emitExpr(i.Else)
	elseEnd := e.builder.GetInsertBlock()
	e.builder.CreateBr(afterBlock)

	e.builder.SetInsertPointAtEnd(afterBlock)
	phi := e.builder.CreatePHI(e.i64(), "ifexptmp")
	phi.AddIncoming([]llvm.Value{thenValue, elseValue}, []llvm.BasicBlock{thenEnd, elseEnd})

	e.nextBasicBlock = privNextBasicBlock
	e.value = phi
	return 0
}

func (e *Emitter) VisitCallExpr(c *ast.CallExpr) int {
	e.value = e.emitCall(c.Name, c.Args)
	return 0
}

func (e *Emitter) emitCall(name string, args []ast.Expr) llvm.Value {
	funcValue := e.funcsMap[name]
	funcType := funcValue.GlobalValueType()
	paramTypes := funcType.ParamTypes()

	argValues := make([]llvm.Value, 0, len(args))
	for i, arg := range args {
		argValues = append(argValues, e.convert(e.emitExpr(arg), e.i64(), paramTypes[i]))
	}

	result := e.builder.CreateCall(funcType, funcValue, argValues, "calltmp")
	return e.convert(result, funcType.ReturnType(), e.i64())
}

func (e *Emitter) VisitAssignStmt(s *ast.AssignStmt) {
	value := e.emitExpr(s.Value)
	slot := e.lookupVar(s.Target)
	e.builder.CreateStore(e.convert(value, e.i64(), slot.typ), slot.ptr)
}

func (e *Emitter) VisitCallStmt(s *ast.CallStmt) {
	e.emitCall(s.Name, s.Args)
}

func (e *Emitter) VisitPrintStmt(s *ast.PrintStmt) {
	value := e.emitExpr(s.Value)

	if e.printfFormat.IsNil() {
		e.printfFormat = e.builder.CreateGlobalStringPtr("%lld\n", "printfmt")
	}

	e.builder.CreateCall(
		e.printfFunc.GlobalValueType(),
		e.printfFunc,
		[]llvm.Value{e.printfFormat, value},
		"",
	)
}

func (e *Emitter) VisitIfStmt(s *ast.IfStmt) {
	privNextBasicBlock := e.nextBasicBlock

	blocks := e.addBasicBlocks("ifcheck", "ifbody", "ifelse", "ifafter")
	checkBlock, ifBody, elseBlock, afterIfBlock := blocks[0], blocks[1], blocks[2], blocks[3]

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = ifBody
	condResult := e.emitCond(s.Cond)
	e.builder.CreateCondBr(condResult, ifBody, elseBlock)

	e.nextBasicBlock = elseBlock
	e.builder.SetInsertPointAtEnd(ifBody)
	s.Then.Accept(e)
	if !e.controlFlowHappen {
		e.builder.CreateBr(afterIfBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(elseBlock)
	if s.Else != nil {
		e.nextBasicBlock = afterIfBlock
		s.Else.Accept(e)
	}

	if !e.controlFlowHappen {
		e.builder.CreateBr(afterIfBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(afterIfBlock)
	e.nextBasicBlock = privNextBasicBlock
}

func (e *Emitter) VisitWhileStmt(s *ast.WhileStmt) {
	privNextBasicBlock := e.nextBasicBlock

	blocks := e.addBasicBlocks("whilecheck", "whilebody", "whileafter")
	checkBlock, bodyBlock, afterBlock := blocks[0], blocks[1], blocks[2]

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = bodyBlock
	condValue := e.emitCond(s.Cond)
	e.builder.CreateCondBr(condValue, bodyBlock, afterBlock)

	e.builder.SetInsertPointAtEnd(bodyBlock)
	e.nextBasicBlock = afterBlock
	s.Body.Accept(e)
	if !e.controlFlowHappen {
		e.builder.CreateBr(checkBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(afterBlock)
	e.nextBasicBlock = privNextBasicBlock
}

// VisitForStmt keeps the counter, end and step in hidden slots. The loop runs
// while the counter is below end for a positive step, or above it otherwise,
// and stops when adding step would wrap the counter. A zero step traps.
func (e *Emitter) VisitForStmt(s *ast.ForStmt) {
	privNextBasicBlock := e.nextBasicBlock

	blocks := e.addBasicBlocks("forinit", "forcheck", "forbody", "forpost", "fortrap", "forafter")
	initBlock, checkBlock, bodyBlock, postBlock, trapBlock, afterBlock :=
		blocks[0], blocks[1], blocks[2], blocks[3], blocks[4], blocks[5]

	counter := e.createAlloca(e.i64(), "for.i")
	end := e.createAlloca(e.i64(), "for.end")
	step := e.createAlloca(e.i64(), "for.step")
	zero := llvm.ConstInt(e.i64(), 0, false)

	e.builder.CreateBr(initBlock)
	e.builder.SetInsertPointAtEnd(initBlock)
	e.nextBasicBlock = checkBlock
	e.builder.CreateStore(e.emitExpr(s.Start), counter)
	e.builder.CreateStore(e.emitExpr(s.End), end)
	stepValue := e.emitExpr(s.Step)
	e.builder.CreateStore(stepValue, step)
	zeroStep := e.builder.CreateICmp(llvm.IntEQ, stepValue, zero, "forzero")
	e.builder.CreateCondBr(zeroStep, trapBlock, checkBlock)

	e.builder.SetInsertPointAtEnd(checkBlock)
	e.nextBasicBlock = bodyBlock
	counterValue := e.builder.CreateLoad(e.i64(), counter, "fori")
	endValue := e.builder.CreateLoad(e.i64(), end, "forend")
	stepValue = e.builder.CreateLoad(e.i64(), step, "forstep")
	ascending := e.builder.CreateICmp(llvm.IntSGT, stepValue, zero, "forup")
	below := e.builder.CreateICmp(llvm.IntSLT, counterValue, endValue, "forbelow")
	above := e.builder.CreateICmp(llvm.IntSGT, counterValue, endValue, "forabove")
	condValue := e.builder.CreateSelect(ascending, below, above, "forcond")
	e.builder.CreateCondBr(condValue, bodyBlock, afterBlock)

	e.builder.SetInsertPointAtEnd(bodyBlock)
	e.nextBasicBlock = postBlock
	s.Body.Accept(e)
	if !e.controlFlowHappen {
		e.builder.CreateBr(postBlock)
	}
	e.controlFlowHappen = false

	e.builder.SetInsertPointAtEnd(postBlock)
	e.nextBasicBlock = trapBlock
	counterValue = e.builder.CreateLoad(e.i64(), counter, "fori")
	stepValue = e.builder.CreateLoad(e.i64(), step, "forstep")
	nextValue := e.builder.CreateAdd(counterValue, stepValue, "fornext")
	ascending = e.builder.CreateICmp(llvm.IntSGT, stepValue, zero, "forup")
	wrappedUp := e.builder.CreateICmp(llvm.IntSLT, nextValue, counterValue, "forwrapup")
	wrappedDown := e.builder.CreateICmp(llvm.IntSGT, nextValue, counterValue, "forwrapdown")
	wrapped := e.builder.CreateSelect(ascending, wrappedUp, wrappedDown, "forwrapped")
	e.builder.CreateStore(nextValue, counter)
	e.builder.CreateCondBr(wrapped, afterBlock, checkBlock)

	e.builder.SetInsertPointAtEnd(trapBlock)
	e.nextBasicBlock = afterBlock
	trapFunc := e.trap()
	e.builder.CreateCall(trapFunc.GlobalValueType(), trapFunc, nil, "")
	e.builder.CreateUnreachable()

	e.builder.SetInsertPointAtEnd(afterBlock)
	e.nextBasicBlock = privNextBasicBlock
}

func (e *Emitter) VisitReturnStmt(s *ast.ReturnStmt) {
	returnType := e.getLlvmTypeForType(e.currentFuncType.ReturnType)

	value := llvm.ConstInt(e.i64(), 0, false)
	if s.Value != nil {
		value = e.emitExpr(s.Value)
	}

	e.builder.CreateRet(e.convert(value, e.i64(), returnType))
	e.controlFlowHappen = true
}

func (e *Emitter) VisitVarDecl(d *ast.VarDecl) {
	varType := e.getLlvmTypeForType(e.typeResolver.MustResolve(d.Type))

	for _, name := range d.Names {
		if e.scope == nil {
			global := llvm.AddGlobal(e.module, varType, name)
			global.SetLinkage(llvm.InternalLinkage)
			global.SetInitializer(llvm.ConstInt(varType, 0, false))
			e.globalsMap[name] = varSlot{ptr: global, typ: varType}
			continue
		}

		allocValue := e.createAlloca(varType, name)
		e.builder.CreateStore(llvm.ConstInt(varType, 0, false), allocValue)
		e.scope.variables[name] = varSlot{ptr: allocValue, typ: varType}
	}
}

func (e *Emitter) VisitVarDeclList(l *ast.VarDeclList) {
	for _, decl := range l.Decls {
		decl.Accept(e)
	}
}

// VisitStmtList stops at the first statement that leaves the block; whatever
// follows it cannot run.
func (e *Emitter) VisitStmtList(l *ast.StmtList) {
	for _, stmt := range l.Stmts {
		if e.controlFlowHappen {
			return
		}
		stmt.Accept(e)
	}
}

func (e *Emitter) VisitBody(b *ast.Body) {
	e.enterScope()
	defer e.exitScope()

	b.Decls.Accept(e)
	b.Stmts.Accept(e)
}

func (e *Emitter) VisitFunDecl(f *ast.FunDecl) {
	funcType, ok := e.info.Func(f.Name)
	if !ok {
		panic(fmt.Sprintf("function %s was not analyzed", f.Name))
	}

	funcValue := e.funcsMap[f.Name]
	e.currentFunc = funcValue
	e.currentFuncType = funcType

	allocBasicBlock := llvm.AddBasicBlock(funcValue, "alloc")
	e.currentAllocBasicBlock = allocBasicBlock

	entryBasicBlock := llvm.AddBasicBlock(funcValue, "entry")

	unreachableBasicBlock := llvm.AddBasicBlock(funcValue, "unreachable")
	e.nextBasicBlock = unreachableBasicBlock
	e.builder.SetInsertPointAtEnd(unreachableBasicBlock)
	e.builder.CreateUnreachable()

	e.builder.SetInsertPointAtEnd(entryBasicBlock)

	e.enterScope()
	for i, arg := range funcType.Args {
		argType := e.getLlvmTypeForType(arg.Type)
		allocValue := e.createAlloca(argType, arg.Name+".addr")
		e.builder.CreateStore(funcValue.Param(i), allocValue)
		e.scope.variables[arg.Name] = varSlot{ptr: allocValue, typ: argType}
	}

	f.Body.Accept(e)
	e.exitScope()

	if !e.controlFlowHappen {
		returnType := e.getLlvmTypeForType(funcType.ReturnType)
		e.builder.CreateRet(llvm.ConstInt(returnType, 0, false))
	}

	e.builder.SetInsertPointAtEnd(allocBasicBlock)
	e.builder.CreateBr(entryBasicBlock)
	e.currentAllocBasicBlock = llvm.BasicBlock{}
	e.nextBasicBlock = llvm.BasicBlock{}
	e.controlFlowHappen = false
}

func (e *Emitter) VisitFunDeclList(l *ast.FunDeclList) {
	for _, funDecl := range l.Funcs {
		funDecl.Accept(e)
	}
}

func (e *Emitter) VisitProgram(p *ast.Program) {
	p.Globals.Accept(e)
	p.Funcs.Accept(e)
}
