package lexer

import "unicode/utf8"

// Lexer turns source bytes into tokens on demand. It never fails: input it
// does not recognize comes back as an ERR token and the caller decides what
// to do with it.
type Lexer struct {
	buf []byte
	pos int

	line, lineStart int
}

func NewLexer(buf []byte) *Lexer {
	return &Lexer{
		buf: buf,
		pos: 0,

		line:      1,
		lineStart: 0,
	}
}

// NextToken returns the next token. Once the input is exhausted every call
// returns EOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	if !l.hasChars() {
		return l.makeToken(EOF, "", l.pos)
	}

	switch {
	case l.isCurrDigit():
		return l.processNumber()

	case l.isCurrIdentifier():
		return l.processIdentifier()

	case l.read() == '"':
		return l.processStringLiteral()

	case l.isCurrPunctuation():
		return l.processPunctuation()
	}

	start := l.pos
	unexpected, size := utf8.DecodeRune(l.buf[l.pos:])
	l.pos += size

	return l.makeToken(ERR, string(unexpected), start)
}

// Tokenize drains the lexer. The returned slice ends with EOF, or with the
// first ERR token if the input contains one.
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0)

	for {
		token := l.NextToken()
		tokens = append(tokens, token)

		if token.Kind == EOF || token.Kind == ERR {
			return tokens
		}
	}
}

func (l *Lexer) makeToken(kind TokenKind, value string, start int) Token {
	return Token{
		Kind:  kind,
		Value: value,

		Line:   l.line,
		Column: start - l.lineStart + 1,
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.hasChars() {
		switch {
		case l.isCurrSkippable():
			if l.isCurrNewline() {
				l.line++
				l.lineStart = l.pos + 1
			}
			l.advance()

		case l.read() == '/' && l.hasNext() && l.next() == '/':
			for l.hasChars() && !l.isCurrNewline() {
				l.advance()
			}

		default:
			return
		}
	}
}

func (l *Lexer) isCurrIdentifier() bool {
	return (l.read() >= 'a' && l.read() <= 'z') || (l.read() >= 'A' && l.read() <= 'Z') || l.read() == '_'
}

func (l *Lexer) isCurrDigit() bool {
	return l.read() >= '0' && l.read() <= '9'
}

func (l *Lexer) isCurrPunctuation() bool {
	switch l.read() {
	case '+', '-', '*', '/', '=', '<', '(', ')', '{', '}', ';', ',':
		return true
	}
	return false
}

func (l *Lexer) isCurrNewline() bool {
	return l.read() == '\n'
}

func (l *Lexer) isCurrSkippable() bool {
	switch l.read() {
	case ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

func (l *Lexer) processIdentifier() Token {
	start := l.pos
	for l.hasChars() && (l.isCurrIdentifier() || l.isCurrDigit()) {
		l.advance()
	}
	identifier := string(l.buf[start:l.pos])

	if kind, ok := keywords[identifier]; ok {
		return l.makeToken(kind, identifier, start)
	}

	return l.makeToken(IDENT, identifier, start)
}

func (l *Lexer) processNumber() Token {
	start := l.pos
	for l.hasChars() && l.isCurrDigit() {
		l.advance()
	}

	return l.makeToken(NUM, string(l.buf[start:l.pos]), start)
}

func (l *Lexer) processStringLiteral() Token {
	start := l.pos
	l.advance()

	for l.hasChars() {
		if l.read() == '"' {
			l.advance()
			return l.makeToken(STRING, string(l.buf[start+1:l.pos-1]), start)
		}

		if l.isCurrNewline() {
			break
		}

		l.advance()
	}

	return l.makeToken(ERR, string(l.buf[start:l.pos]), start)
}

func (l *Lexer) processEquals() Token {
	start := l.pos
	l.advance()

	if l.hasChars() && l.read() == '=' {
		l.advance()
		return l.makeToken(EQ, "==", start)
	}

	return l.makeToken(ASSIGN, "=", start)
}

func (l *Lexer) processLessThan() Token {
	start := l.pos
	l.advance()

	if l.hasChars() && l.read() == '=' {
		l.advance()
		return l.makeToken(LEQ, "<=", start)
	}

	return l.makeToken(LT, "<", start)
}

func (l *Lexer) processPunctuation() Token {
	switch l.read() {
	case '=':
		return l.processEquals()
	case '<':
		return l.processLessThan()
	}

	var kind TokenKind
	switch l.read() {
	case '+':
		kind = PLUS
	case '-':
		kind = MINUS
	case '*':
		kind = ASTERISK
	case '/':
		kind = SLASH
	case '(':
		kind = LPAREN
	case ')':
		kind = RPAREN
	case '{':
		kind = LBRACE
	case '}':
		kind = RBRACE
	case ';':
		kind = SEMICOLON
	case ',':
		kind = COMMA
	default:
		panic("unreachable")
	}

	start := l.pos
	value := string(l.read())
	l.advance()

	return l.makeToken(kind, value, start)
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) hasNext() bool {
	return l.pos+1 < len(l.buf)
}

func (l *Lexer) advance()   { l.pos++ }
func (l *Lexer) next() byte { return l.buf[l.pos+1] }
func (l *Lexer) read() byte { return l.buf[l.pos] }
