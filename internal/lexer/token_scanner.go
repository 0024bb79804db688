package lexer

// TokenScanner is what the parser consumes: tokens one at a time, ending in
// an EOF that repeats forever.
type TokenScanner interface {
	NextToken() Token
}

// SimpleTokenScanner replays a prepared token slice.
type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

func NewTokenScanner(tokens []Token) TokenScanner {
	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) NextToken() Token {
	if s.pos >= len(s.tokens) {
		return Token{Kind: EOF}
	}

	token := s.tokens[s.pos]
	s.pos++

	return token
}
