package query

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a lexical token. Pos and End are rune offsets into the
// query.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
	End   int
}

// TokenKind is the type of token
type TokenKind int

const (
	TokWord TokenKind = iota
	TokString
	TokColon
	TokAnd
	TokOr
	TokXor
	TokNot
	TokThen
	TokHighlight
	TokLParen
	TokRParen
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokWord:
		return "Word"
	case TokString:
		return "String"
	case TokColon:
		return "Colon"
	case TokAnd:
		return "And"
	case TokOr:
		return "Or"
	case TokXor:
		return "Xor"
	case TokNot:
		return "Not"
	case TokThen:
		return "Then"
	case TokHighlight:
		return "Highlight"
	case TokLParen:
		return "LParen"
	case TokRParen:
		return "RParen"
	case TokEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Operator keywords are recognized only in upper case; "and" is a word.
var operators = map[string]TokenKind{
	"AND":       TokAnd,
	"OR":        TokOr,
	"XOR":       TokXor,
	"NOT":       TokNot,
	"THEN":      TokThen,
	"HIGHLIGHT": TokHighlight,
}

// Lexer tokenizes a query string
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		pos:   0,
	}
}

// Lex tokenizes the entire input
func Lex(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}

	return tokens, nil
}

// Next returns the next token
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: start, End: start}, nil
	}

	ch := l.input[l.pos]

	switch ch {
	case ':':
		l.pos++
		return Token{Kind: TokColon, Value: ":", Pos: start, End: l.pos}, nil
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Value: "(", Pos: start, End: l.pos}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Value: ")", Pos: start, End: l.pos}, nil
	case '!':
		l.pos++
		return Token{Kind: TokNot, Value: "!", Pos: start, End: l.pos}, nil
	case '"':
		return l.scanString()
	}

	return l.scanWord(), nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos < len(l.input) {
		return l.input[pos]
	}
	return 0
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // consume opening quote
	var sb strings.Builder

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++ // consume closing quote
			return Token{Kind: TokString, Value: sb.String(), Pos: start, End: l.pos}, nil
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(l.input[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteRune(ch)
		l.pos++
	}

	return Token{}, fmt.Errorf("unterminated string at %d", start)
}

// scanWord reads a run of word characters. HIGHLIGHT may carry a color
// suffix, as in HIGHLIGHT:pink.
func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	word := string(l.input[start:l.pos])

	kind, ok := operators[word]
	if !ok {
		return Token{Kind: TokWord, Value: word, Pos: start, End: l.pos}
	}
	if kind != TokHighlight {
		return Token{Kind: kind, Value: word, Pos: start, End: l.pos}
	}
	// a highlight token's value is its color
	if l.peek(0) != ':' {
		return Token{Kind: kind, Pos: start, End: l.pos}
	}

	l.pos++ // consume colon
	colorStart := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	return Token{Kind: TokHighlight, Value: string(l.input[colorStart:l.pos]), Pos: start, End: l.pos}
}

func isWordChar(ch rune) bool {
	switch ch {
	case ':', '(', ')', '"':
		return false
	}
	return !unicode.IsSpace(ch)
}
