package parser

import (
	"strconv"

	"slices"

	"github.com/kievzenit/impc/internal/ast"
	"github.com/kievzenit/impc/internal/lexer"
)

// bailout unwinds the recursive descent on the first error. ParseProgram
// recovers it and returns the recorded error.
type bailout struct{}

type Parser struct {
	scanner lexer.TokenScanner

	curr lexer.Token
	prev lexer.Token

	err error
}

var typeKinds = []lexer.TokenKind{lexer.INT, lexer.LONG}

var comparisonOps = map[lexer.TokenKind]ast.BinaryOp{
	lexer.LT:  ast.LtOp,
	lexer.LEQ: ast.LeOp,
	lexer.EQ:  ast.EqOp,
}

var additiveOps = map[lexer.TokenKind]ast.BinaryOp{
	lexer.PLUS:  ast.PlusOp,
	lexer.MINUS: ast.MinusOp,
}

var multiplicativeOps = map[lexer.TokenKind]ast.BinaryOp{
	lexer.ASTERISK: ast.MulOp,
	lexer.SLASH:    ast.DivOp,
}

func NewParser(scanner lexer.TokenScanner) *Parser {
	return &Parser{
		scanner: scanner,
	}
}

// ParseProgram parses a whole program. It returns either a complete tree or
// the first *SyntaxError / *LexicalError met; there is no recovery.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			program, err = nil, p.err
		}
	}()

	p.advance()
	return p.parseProgram(), nil
}

func (p *Parser) parseProgram() *ast.Program {
	for !p.check(lexer.MAIN) {
		if p.check(lexer.EOF) {
			p.unexpected(lexer.MAIN.Symbol())
		}
		p.advance()
	}
	startToken := p.token()
	p.advance()

	globals, funcs := p.parseTopLevel()

	p.expect(lexer.EOF)

	return &ast.Program{
		StartToken: startToken,

		Globals: globals,
		Funcs:   funcs,
	}
}

// parseTopLevel reads the global declarations and then the functions. Both
// start with a type and a name, so that prefix is read once and the token
// after it decides: '(' starts the first function.
func (p *Parser) parseTopLevel() (*ast.VarDeclList, *ast.FunDeclList) {
	globals := &ast.VarDeclList{Decls: make([]*ast.VarDecl, 0)}

	for p.isCurrAny(typeKinds...) {
		startToken := p.token()
		typeName := p.parseType()
		name := p.expect(lexer.IDENT).Value

		if p.check(lexer.LPAREN) {
			first := p.parseFunDeclRest(startToken, typeName, name)
			return globals, p.parseFunDeclList(first)
		}

		globals.Decls = append(globals.Decls, p.parseVarDeclRest(startToken, typeName, name))
	}

	return globals, &ast.FunDeclList{Funcs: make([]*ast.FunDecl, 0)}
}

func (p *Parser) parseVarDeclList() *ast.VarDeclList {
	vdl := &ast.VarDeclList{Decls: make([]*ast.VarDecl, 0)}

	for p.isCurrAny(typeKinds...) {
		vdl.Decls = append(vdl.Decls, p.parseVarDecl())
	}

	return vdl
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	startToken := p.token()
	typeName := p.parseType()
	name := p.expect(lexer.IDENT).Value

	return p.parseVarDeclRest(startToken, typeName, name)
}

func (p *Parser) parseVarDeclRest(startToken *lexer.Token, typeName string, first string) *ast.VarDecl {
	names := []string{first}
	for p.match(lexer.COMMA) {
		names = append(names, p.expect(lexer.IDENT).Value)
	}

	return &ast.VarDecl{
		StartToken: startToken,

		Type:  typeName,
		Names: names,
	}
}

func (p *Parser) parseFunDeclList(first *ast.FunDecl) *ast.FunDeclList {
	fdl := &ast.FunDeclList{Funcs: []*ast.FunDecl{first}}

	for p.isCurrAny(typeKinds...) {
		fdl.Funcs = append(fdl.Funcs, p.parseFunDecl())
	}

	return fdl
}

func (p *Parser) parseFunDecl() *ast.FunDecl {
	startToken := p.token()
	returnType := p.parseType()
	name := p.expect(lexer.IDENT).Value

	return p.parseFunDeclRest(startToken, returnType, name)
}

func (p *Parser) parseFunDeclRest(startToken *lexer.Token, returnType string, name string) *ast.FunDecl {
	p.expect(lexer.LPAREN)

	paramTypes := make([]string, 0)
	paramNames := make([]string, 0)
	if !p.check(lexer.RPAREN) {
		for {
			paramTypes = append(paramTypes, p.parseType())
			paramNames = append(paramNames, p.expect(lexer.IDENT).Value)

			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	body := p.parseBody()

	return &ast.FunDecl{
		StartToken: startToken,

		Name:       name,
		ParamTypes: paramTypes,
		ParamNames: paramNames,
		ReturnType: returnType,
		Body:       body,
	}
}

func (p *Parser) parseType() string {
	p.expectAny(typeKinds...)
	typeName := p.curr.Value
	p.advance()

	return typeName
}

// parseBody is entered after the opening '{' (or 'do' for while) and
// consumes the closing '}'.
func (p *Parser) parseBody() *ast.Body {
	startToken := p.token()

	decls := p.parseVarDeclList()
	stmts := p.parseStmtList()

	p.expect(lexer.RBRACE)

	return &ast.Body{
		StartToken: startToken,

		Decls: decls,
		Stmts: stmts,
	}
}

func (p *Parser) parseStmtList() *ast.StmtList {
	sl := &ast.StmtList{Stmts: make([]ast.Stmt, 0)}

	for !p.check(lexer.RBRACE) {
		if p.match(lexer.SEMICOLON) {
			continue
		}

		if p.check(lexer.EOF) {
			p.unexpected(lexer.RBRACE.Symbol())
		}

		sl.Stmts = append(sl.Stmts, p.parseStmt())
		p.match(lexer.SEMICOLON)
	}

	return sl
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.IDENT:
		return p.parseIdentStmt()
	case lexer.PRINTF:
		return p.parsePrintStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	}

	p.unexpected("statement")
	panic("unreachable")
}

// parseIdentStmt parses the two statements that start with a name:
// assignment and call.
func (p *Parser) parseIdentStmt() ast.Stmt {
	startToken := p.token()
	name := p.expect(lexer.IDENT).Value

	if p.match(lexer.ASSIGN) {
		return &ast.AssignStmt{
			StartToken: startToken,

			Target: name,
			Value:  p.parseCExp(),
		}
	}

	if p.match(lexer.LPAREN) {
		return &ast.CallStmt{
			StartToken: startToken,

			Name: name,
			Args: p.parseArgs(),
		}
	}

	p.unexpected(lexer.ASSIGN.Symbol(), lexer.LPAREN.Symbol())
	panic("unreachable")
}

func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	startToken := p.token()
	p.expect(lexer.PRINTF)
	p.expect(lexer.LPAREN)
	p.expect(lexer.STRING)
	p.expect(lexer.COMMA)

	value := p.parseCExp()

	p.expect(lexer.RPAREN)

	return &ast.PrintStmt{
		StartToken: startToken,

		Value: value,
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	startToken := p.token()
	p.expect(lexer.IF)
	p.expect(lexer.LPAREN)

	cond := p.parseCExp()

	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	then := p.parseBody()

	var els *ast.Body
	if p.match(lexer.ELSE) {
		p.expect(lexer.LBRACE)
		els = p.parseBody()
	}

	return &ast.IfStmt{
		StartToken: startToken,

		Cond: cond,
		Then: then,
		Else: els,
	}
}

// parseWhileStmt follows the grammar as given: there is no '{' after 'do',
// but the body still ends with '}' and then 'endwhile'.
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	startToken := p.token()
	p.expect(lexer.WHILE)

	cond := p.parseCExp()

	p.expect(lexer.DO)

	body := p.parseBody()

	p.expect(lexer.ENDWHILE)

	return &ast.WhileStmt{
		StartToken: startToken,

		Cond: cond,
		Body: body,
	}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	startToken := p.token()
	p.expect(lexer.FOR)
	p.expect(lexer.LPAREN)

	start := p.parseCExp()
	p.expect(lexer.COMMA)
	end := p.parseCExp()
	p.expect(lexer.COMMA)
	step := p.parseCExp()

	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	body := p.parseBody()

	return &ast.ForStmt{
		StartToken: startToken,

		Start: start,
		End:   end,
		Step:  step,
		Body:  body,
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	startToken := p.token()
	p.expect(lexer.RETURN)

	var value ast.Expr
	if p.match(lexer.LPAREN) {
		value = p.parseCExp()
		p.expect(lexer.RPAREN)
	}

	return &ast.ReturnStmt{
		StartToken: startToken,

		Value: value,
	}
}

// parseArgs is entered after '(' and consumes the closing ')'.
func (p *Parser) parseArgs() []ast.Expr {
	args := make([]ast.Expr, 0)

	if !p.check(lexer.RPAREN) {
		args = append(args, p.parseCExp())
		for p.match(lexer.COMMA) {
			args = append(args, p.parseCExp())
		}
	}

	p.expect(lexer.RPAREN)

	return args
}

// parseCExp allows at most one comparison, so `a < b < c` leaves the second
// '<' for the caller to reject.
func (p *Parser) parseCExp() ast.Expr {
	startToken := p.token()
	left := p.parseExpression()

	if op, ok := comparisonOps[p.curr.Kind]; ok {
		p.advance()
		right := p.parseExpression()

		return &ast.BinaryExpr{
			StartToken: startToken,

			Left:  left,
			Right: right,
			Op:    op,
		}
	}

	return left
}

func (p *Parser) parseExpression() ast.Expr {
	startToken := p.token()
	left := p.parseTerm()

	for {
		op, ok := additiveOps[p.curr.Kind]
		if !ok {
			return left
		}
		p.advance()

		left = &ast.BinaryExpr{
			StartToken: startToken,

			Left:  left,
			Right: p.parseTerm(),
			Op:    op,
		}
	}
}

func (p *Parser) parseTerm() ast.Expr {
	startToken := p.token()
	left := p.parseFactor()

	for {
		op, ok := multiplicativeOps[p.curr.Kind]
		if !ok {
			return left
		}
		p.advance()

		left = &ast.BinaryExpr{
			StartToken: startToken,

			Left:  left,
			Right: p.parseFactor(),
			Op:    op,
		}
	}
}

func (p *Parser) parseFactor() ast.Expr {
	startToken := p.token()

	switch p.curr.Kind {
	case lexer.TRUE, lexer.FALSE:
		value := p.curr.Kind == lexer.TRUE
		p.advance()

		return &ast.BoolExpr{
			StartToken: startToken,

			Value: value,
		}

	case lexer.NUM:
		return p.parseNumberExpr()

	case lexer.IDENT:
		name := p.curr.Value
		p.advance()

		if p.match(lexer.LPAREN) {
			return &ast.CallExpr{
				StartToken: startToken,

				Name: name,
				Args: p.parseArgs(),
			}
		}

		return &ast.IdentExpr{
			StartToken: startToken,

			Name: name,
		}

	case lexer.IFEXP:
		return p.parseIfExpr()

	case lexer.LPAREN:
		p.advance()
		inner := p.parseCExp()
		p.expect(lexer.RPAREN)

		return inner
	}

	p.unexpected("expression")
	panic("unreachable")
}

func (p *Parser) parseNumberExpr() *ast.NumberExpr {
	p.expect(lexer.NUM)
	startToken := p.prev

	value, err := strconv.ParseInt(startToken.Value, 10, 64)
	if err != nil {
		p.fail(&SyntaxError{
			Expected:   []string{"integer literal"},
			Unexpected: startToken,
		})
	}

	return &ast.NumberExpr{
		StartToken: &startToken,

		Value: value,
	}
}

func (p *Parser) parseIfExpr() *ast.IfExpr {
	startToken := p.token()
	p.expect(lexer.IFEXP)
	p.expect(lexer.LPAREN)

	cond := p.parseCExp()
	p.expect(lexer.COMMA)
	then := p.parseCExp()
	p.expect(lexer.COMMA)
	els := p.parseCExp()

	p.expect(lexer.RPAREN)

	return &ast.IfExpr{
		StartToken: startToken,

		Cond: cond,
		Then: then,
		Else: els,
	}
}

// advance moves to the next token. An ERR token ends the parse right here.
func (p *Parser) advance() {
	p.prev = p.curr
	p.curr = p.scanner.NextToken()

	if p.curr.Kind == lexer.ERR {
		p.fail(&LexicalError{Token: p.curr})
	}
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.curr.Kind == kind
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if !p.check(kind) {
		return false
	}

	p.advance()
	return true
}

// expect consumes a token of the given kind and returns it.
func (p *Parser) expect(kind lexer.TokenKind) lexer.Token {
	if !p.match(kind) {
		p.unexpected(expectedName(kind))
	}

	return p.prev
}

func (p *Parser) expectAny(kinds ...lexer.TokenKind) {
	if p.isCurrAny(kinds...) {
		return
	}

	expected := make([]string, len(kinds))
	for i, kind := range kinds {
		expected[i] = expectedName(kind)
	}
	p.unexpected(expected...)
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func expectedName(kind lexer.TokenKind) string {
	switch kind {
	case lexer.IDENT:
		return "identifier"
	case lexer.NUM:
		return "number"
	case lexer.STRING:
		return "string literal"
	case lexer.EOF:
		return "end of input"
	}

	return kind.Symbol()
}

func (p *Parser) token() *lexer.Token {
	token := p.curr
	return &token
}

func (p *Parser) unexpected(expected ...string) {
	p.fail(&SyntaxError{
		Expected:   expected,
		Unexpected: p.curr,
	})
}

func (p *Parser) fail(err error) {
	p.err = err
	panic(bailout{})
}
