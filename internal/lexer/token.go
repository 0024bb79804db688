package lexer

import (
	"fmt"
)

type TokenKind int

const (
	EOF TokenKind = iota
	ERR

	NUM
	STRING

	IDENT

	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /

	ASSIGN // =

	EQ  // ==
	LT  // <
	LEQ // <=

	LPAREN // (
	LBRACE // {

	RPAREN // )
	RBRACE // }

	SEMICOLON // ;
	COMMA     // ,

	INT
	LONG
	IF
	ELSE
	WHILE
	DO
	ENDWHILE
	FOR
	RETURN
	PRINTF
	TRUE
	FALSE
	IFEXP
	MAIN
)

var keywords = map[string]TokenKind{
	"int":      INT,
	"long":     LONG,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"do":       DO,
	"endwhile": ENDWHILE,
	"for":      FOR,
	"return":   RETURN,
	"printf":   PRINTF,
	"true":     TRUE,
	"false":    FALSE,
	"ifexp":    IFEXP,
	"main":     MAIN,
}

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case ERR:
		return "ERR"
	case NUM:
		return "NUM"
	case STRING:
		return "STRING"
	case IDENT:
		return "IDENT"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case ASSIGN:
		return "ASSIGN"
	case EQ:
		return "EQ"
	case LT:
		return "LT"
	case LEQ:
		return "LEQ"
	case LPAREN:
		return "LPAREN"
	case LBRACE:
		return "LBRACE"
	case RPAREN:
		return "RPAREN"
	case RBRACE:
		return "RBRACE"
	case SEMICOLON:
		return "SEMICOLON"
	case COMMA:
		return "COMMA"
	case INT:
		return "INT"
	case LONG:
		return "LONG"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case DO:
		return "DO"
	case ENDWHILE:
		return "ENDWHILE"
	case FOR:
		return "FOR"
	case RETURN:
		return "RETURN"
	case PRINTF:
		return "PRINTF"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case IFEXP:
		return "IFEXP"
	case MAIN:
		return "MAIN"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

// Symbol is the source spelling of a fixed token, used in diagnostics.
// Kinds without a fixed spelling fall back to their name.
func (tk TokenKind) Symbol() string {
	switch tk {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case ASSIGN:
		return "="
	case EQ:
		return "=="
	case LT:
		return "<"
	case LEQ:
		return "<="
	case LPAREN:
		return "("
	case LBRACE:
		return "{"
	case RPAREN:
		return ")"
	case RBRACE:
		return "}"
	case SEMICOLON:
		return ";"
	case COMMA:
		return ","
	}

	for word, kind := range keywords {
		if kind == tk {
			return word
		}
	}

	return tk.String()
}

type Token struct {
	Kind  TokenKind
	Value string

	Line   int
	Column int
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case NUM, STRING, IDENT, ERR:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
