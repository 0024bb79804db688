package lexer

import (
	"testing"
)

func TestNextTokenKinds(t *testing.T) {
	input := `main int x, y
long f(int a) {
	x = a + 1 * 2 - 3 / 4;
	printf("%d\n", x);
	if (x <= 2) { return (x == 1) }
	while x < 3 do } endwhile
	for (0, 10, 1) { }
	y = ifexp(true, false, 0)
}`

	expected := []struct {
		kind  TokenKind
		value string
	}{
		{MAIN, "main"}, {INT, "int"}, {IDENT, "x"}, {COMMA, ","}, {IDENT, "y"},
		{LONG, "long"}, {IDENT, "f"}, {LPAREN, "("}, {INT, "int"}, {IDENT, "a"}, {RPAREN, ")"}, {LBRACE, "{"},
		{IDENT, "x"}, {ASSIGN, "="}, {IDENT, "a"}, {PLUS, "+"}, {NUM, "1"}, {ASTERISK, "*"}, {NUM, "2"},
		{MINUS, "-"}, {NUM, "3"}, {SLASH, "/"}, {NUM, "4"}, {SEMICOLON, ";"},
		{PRINTF, "printf"}, {LPAREN, "("}, {STRING, `%d\n`}, {COMMA, ","}, {IDENT, "x"}, {RPAREN, ")"}, {SEMICOLON, ";"},
		{IF, "if"}, {LPAREN, "("}, {IDENT, "x"}, {LEQ, "<="}, {NUM, "2"}, {RPAREN, ")"}, {LBRACE, "{"},
		{RETURN, "return"}, {LPAREN, "("}, {IDENT, "x"}, {EQ, "=="}, {NUM, "1"}, {RPAREN, ")"}, {RBRACE, "}"},
		{WHILE, "while"}, {IDENT, "x"}, {LT, "<"}, {NUM, "3"}, {DO, "do"}, {RBRACE, "}"}, {ENDWHILE, "endwhile"},
		{FOR, "for"}, {LPAREN, "("}, {NUM, "0"}, {COMMA, ","}, {NUM, "10"}, {COMMA, ","}, {NUM, "1"}, {RPAREN, ")"},
		{LBRACE, "{"}, {RBRACE, "}"},
		{IDENT, "y"}, {ASSIGN, "="}, {IFEXP, "ifexp"}, {LPAREN, "("}, {TRUE, "true"}, {COMMA, ","},
		{FALSE, "false"}, {COMMA, ","}, {NUM, "0"}, {RPAREN, ")"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := NewLexer([]byte(input))
	for i, want := range expected {
		got := l.NextToken()
		if got.Kind != want.kind {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s (%q)", i, want.kind, got.Kind, got.Value)
		}
		if got.Value != want.value {
			t.Fatalf("tokens[%d] - value wrong. expected=%q, got=%q", i, want.value, got.Value)
		}
	}
}

func TestEOFRepeats(t *testing.T) {
	l := NewLexer([]byte("x"))
	l.NextToken()

	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Kind != EOF {
			t.Fatalf("call %d: expected EOF, got=%s", i, tok.Kind)
		}
	}
}

func TestPositions(t *testing.T) {
	l := NewLexer([]byte("main\n  int  x\n// note\ny"))

	tests := []struct {
		kind   TokenKind
		line   int
		column int
	}{
		{MAIN, 1, 1},
		{INT, 2, 3},
		{IDENT, 2, 8},
		{IDENT, 4, 1},
	}

	for _, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind || tok.Line != tt.line || tok.Column != tt.column {
			t.Errorf("expected %s at %d:%d, got=%s at %d:%d",
				tt.kind, tt.line, tt.column, tok.Kind, tok.Line, tok.Column)
		}
	}
}

func TestErrorTokens(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{"x = 3 # 4", "#"},
		{"a > b", ">"},
		{`printf("oops`, `"oops`},
		{"\"line\nbreak\"", `"line`},
	}

	for _, tt := range tests {
		tokens := NewLexer([]byte(tt.input)).Tokenize()
		last := tokens[len(tokens)-1]
		if last.Kind != ERR {
			t.Errorf("%q: expected trailing ERR token, got=%s", tt.input, last.String())
			continue
		}
		if last.Value != tt.value {
			t.Errorf("%q: ERR value expected=%q, got=%q", tt.input, tt.value, last.Value)
		}
	}
}

func TestErrorTokenKeepsMultiByteCharacter(t *testing.T) {
	l := NewLexer([]byte("é x"))

	if tok := l.NextToken(); tok.Kind != ERR || tok.Value != "é" {
		t.Fatalf("expected ERR(é), got=%s", tok.String())
	}
	if tok := l.NextToken(); tok.Kind != IDENT || tok.Value != "x" {
		t.Fatalf("expected scanning to resume after the character, got=%s", tok.String())
	}
}

func TestSimpleTokenScanner(t *testing.T) {
	s := NewTokenScanner([]Token{{Kind: MAIN, Value: "main"}})

	if tok := s.NextToken(); tok.Kind != MAIN {
		t.Fatalf("expected MAIN, got=%s", tok.Kind)
	}
	if tok := s.NextToken(); tok.Kind != EOF {
		t.Fatalf("expected EOF past the end, got=%s", tok.Kind)
	}
}

func TestTokenString(t *testing.T) {
	ident := Token{Kind: IDENT, Value: "abc"}
	if ident.String() != "IDENT(abc)" {
		t.Errorf("expected IDENT(abc), got=%s", ident.String())
	}

	lparen := Token{Kind: LPAREN, Value: "("}
	if lparen.String() != "LPAREN()" {
		t.Errorf("expected LPAREN(), got=%s", lparen.String())
	}

	if RPAREN.Symbol() != ")" || ENDWHILE.Symbol() != "endwhile" || IDENT.Symbol() != "IDENT" {
		t.Errorf("unexpected symbols: %s %s %s", RPAREN.Symbol(), ENDWHILE.Symbol(), IDENT.Symbol())
	}
}
