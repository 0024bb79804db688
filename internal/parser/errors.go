package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kievzenit/impc/internal/lexer"
)

// SyntaxError is raised when the current token cannot continue the construct
// being parsed. Expected lists what would have been accepted: token spellings
// such as ")" or construct names such as "expression".
type SyntaxError struct {
	Expected   []string
	Unexpected lexer.Token
}

func (e *SyntaxError) GetMessage() string {
	expected := make([]string, len(e.Expected))
	for i, name := range e.Expected {
		expected[i] = fmt.Sprintf("'%s'", name)
	}

	if len(expected) == 1 {
		return fmt.Sprintf("unexpected %s, expected: %s", describeToken(e.Unexpected), expected[0])
	}

	return fmt.Sprintf("unexpected %s, expected one of: %s",
		describeToken(e.Unexpected), strings.Join(expected, ", "))
}

func (e *SyntaxError) GetLine() int   { return e.Unexpected.Line }
func (e *SyntaxError) GetColumn() int { return e.Unexpected.Column }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.GetLine(), e.GetColumn(), e.GetMessage())
}

// LexicalError is raised when the scanner hands the parser an ERR token.
type LexicalError struct {
	Token lexer.Token
}

func (e *LexicalError) GetMessage() string {
	if strings.HasPrefix(e.Token.Value, `"`) {
		return fmt.Sprintf("unterminated string literal: %s", e.Token.Value)
	}

	return fmt.Sprintf("unrecognized character: '%s'", e.Token.Value)
}

func (e *LexicalError) GetLine() int   { return e.Token.Line }
func (e *LexicalError) GetColumn() int { return e.Token.Column }

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%d:%d: lexical error: %s", e.GetLine(), e.GetColumn(), e.GetMessage())
}

// IsIncomplete reports whether err is a syntax error caused by running out
// of input, i.e. more source could still make the program valid.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false
	}

	return syntaxErr.Unexpected.Kind == lexer.EOF
}

func describeToken(token lexer.Token) string {
	switch token.Kind {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT:
		return fmt.Sprintf("identifier '%s'", token.Value)
	case lexer.NUM:
		return fmt.Sprintf("number '%s'", token.Value)
	case lexer.STRING:
		return fmt.Sprintf("string \"%s\"", token.Value)
	}

	return fmt.Sprintf("token '%s'", token.Kind.Symbol())
}
