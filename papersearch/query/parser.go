// Package query parses the paper search language into term trees.
//
// Operators, loosest first: HIGHLIGHT[:color], THEN, OR, XOR, AND,
// juxtaposition, and NOT (or a leading "!"). Operator keywords are upper
// case; keyword searches take the form name:value.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grafana/regexp"

	"github.com/papersearch/papersearch/papersearch/pidset"
	"github.com/papersearch/papersearch/papersearch/term"
)

// Env binds a parse to the searching user.
type Env struct {
	User term.User
	// Reviewer is the user limits such as in:r refer to. It defaults to
	// User.
	Reviewer term.User
}

// Warning reports a word that was understood but could not be searched.
type Warning struct {
	Span    term.Span
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%d-%d: %s", w.Span.Start, w.Span.End, w.Message)
}

// textKeywords maps text keywords to field codes.
var textKeywords = map[string]string{
	"ti":            "ti",
	"title":         "ti",
	"ab":            "ab",
	"abstract":      "ab",
	"au":            "au",
	"author":        "au",
	"authors":       "au",
	"co":            "co",
	"collab":        "co",
	"collaborators": "co",
}

// viewKeywords are display directives; they match everything.
var viewKeywords = map[string]bool{
	"show": true,
	"hide": true,
	"sort": true,
	"edit": true,
}

var paperRangeRE = regexp.MustCompile(`^#?(\d+)(?:-#?(\d+))?$`)

// Parse parses a query string into a term. An empty query matches
// everything.
func Parse(input string, env Env) (term.Term, []Warning, error) {
	if env.Reviewer == nil {
		env.Reviewer = env.User
	}

	tokens, err := Lex(input)
	if err != nil {
		return nil, nil, err
	}

	p := &parser{tokens: tokens, pos: 0, env: env}
	if p.match(TokEOF) {
		return term.NewTrue(), nil, nil
	}
	t, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if !p.match(TokEOF) {
		tok := p.current()
		return nil, nil, fmt.Errorf("unexpected %s at %d", tok.Kind, tok.Pos)
	}
	return t, p.warnings, nil
}

type parser struct {
	tokens   []Token
	pos      int
	env      Env
	warnings []Warning
}

func (p *parser) parseExpr() (term.Term, error) {
	return p.parseHighlight()
}

// parseHighlight is left associative: each HIGHLIGHT colors the terms to
// its right against everything before it.
func (p *parser) parseHighlight() (term.Term, error) {
	left, err := p.parseThen()
	if err != nil {
		return nil, err
	}

	for p.match(TokHighlight) {
		color := p.current().Value
		p.advance()
		right, err := p.parseThen()
		if err != nil {
			return nil, err
		}
		left = spanOver(term.Highlight(color, left, right), left, right)
	}

	return left, nil
}

func (p *parser) parseThen() (term.Term, error) {
	return p.parseOperands(term.OpThen, TokThen, p.parseOr)
}

func (p *parser) parseOr() (term.Term, error) {
	return p.parseOperands(term.OpOr, TokOr, p.parseXor)
}

func (p *parser) parseXor() (term.Term, error) {
	return p.parseOperands(term.OpXor, TokXor, p.parseAnd)
}

func (p *parser) parseAnd() (term.Term, error) {
	return p.parseOperands(term.OpAnd, TokAnd, p.parseSpace)
}

// parseOperands reads next (kind next)* and combines the operands with op.
func (p *parser) parseOperands(op term.Op, kind TokenKind, next func() (term.Term, error)) (term.Term, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}

	operands := []term.Term{first}
	for p.match(kind) {
		p.advance()
		t, err := next()
		if err != nil {
			return nil, err
		}
		operands = append(operands, t)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return spanOver(term.Combine(op, operands...), operands...), nil
}

func (p *parser) parseSpace() (term.Term, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	operands := []term.Term{first}
	for p.startsOperand() {
		t, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		operands = append(operands, t)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return spanOver(term.Combine(term.OpSpace, operands...), operands...), nil
}

// spanOver gives a combined term the span of all its operands. Combine may
// return a copy of one operand, which would otherwise keep only its own.
func spanOver(t term.Term, operands ...term.Term) term.Term {
	var s term.Span
	for _, x := range operands {
		xs := term.SpanOf(x)
		switch {
		case !xs.Valid():
		case !s.Valid():
			s = xs
		default:
			s.Start = min(s.Start, xs.Start)
			s.End = max(s.End, xs.End)
		}
	}
	if s.Valid() {
		term.SetSpan(t, s)
	}
	return t
}

func (p *parser) parseNot() (term.Term, error) {
	if !p.match(TokNot) {
		return p.parsePrimary()
	}

	start := p.current().Pos
	p.advance()
	inner, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	t := term.Negate(inner)
	term.SetSpan(t, term.Span{Start: start, End: max(term.SpanOf(inner).End, start+1)})
	return t, nil
}

func (p *parser) parsePrimary() (term.Term, error) {
	tok := p.current()

	switch tok.Kind {
	case TokLParen:
		p.advance()
		if p.match(TokRParen) {
			return nil, fmt.Errorf("empty parentheses at %d", tok.Pos)
		}
		t, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.match(TokRParen) {
			return nil, fmt.Errorf("expected ')' for '(' at %d", tok.Pos)
		}
		p.advance()
		return t, nil

	case TokWord, TokString:
		return p.parseWord()

	case TokEOF:
		return nil, fmt.Errorf("unexpected end of query")

	default:
		return nil, fmt.Errorf("unexpected %s at %d", tok.Kind, tok.Pos)
	}
}

// parseWord reads a bare word, a quoted phrase, or keyword:value.
func (p *parser) parseWord() (term.Term, error) {
	tok := p.current()
	p.advance()

	if tok.Kind == TokWord && p.match(TokColon) && p.current().Pos == tok.End {
		colon := p.current()
		p.advance()
		v := p.current()
		if (v.Kind != TokWord && v.Kind != TokString) || v.Pos != colon.End {
			return nil, fmt.Errorf("expected value after %q at %d", tok.Value+":", tok.Pos)
		}
		p.advance()

		span := term.Span{Start: tok.Pos, End: v.End}
		t := p.keyword(strings.ToLower(tok.Value), v, span)
		term.SetSpan(t, span)
		return t, nil
	}

	span := term.Span{Start: tok.Pos, End: tok.End}
	var t term.Term
	if tok.Kind == TokWord && tok.Value == "ALL" {
		t = term.NewTrue()
	} else if set, matched, err := paperRange(tok); matched {
		if err != nil {
			p.warn(span, "%v", err)
			t = term.NewFalse()
		} else {
			t = term.NewPaperID(set)
		}
	} else {
		t = term.Combine(term.OpOr,
			p.text("ti", tok, false),
			p.text("ab", tok, false),
			p.text("au", tok, false))
	}
	term.SetSpan(t, span)
	return t, nil
}

func (p *parser) keyword(name string, v Token, span term.Span) term.Term {
	if code, ok := textKeywords[name]; ok {
		return p.text(code, v, true)
	}
	if viewKeywords[name] {
		return term.AddViewAnno(term.NewTrue(), name+":"+v.Value, span)
	}

	switch name {
	case "in":
		if _, ok := term.CanonicalLimit(v.Value); !ok {
			p.warn(span, "unknown limit %q", v.Value)
		}
		return term.NewLimit(p.env.User, p.env.Reviewer, v.Value, false)

	case "dec", "decision":
		if d, ok := term.NewDecision(p.env.User, v.Value); ok {
			return d
		}
		p.warn(span, "unknown decision %q", v.Value)
		return term.NewFalse()

	case "legend":
		t := term.NewTrue()
		term.FloatOf(t).Legend = strings.Join(strings.Fields(v.Value), " ")
		return t

	default:
		p.warn(span, "unknown search keyword %q", name)
		return term.NewFalse()
	}
}

// text returns a text match of field code. An explicit unquoted any or
// none searches for a nonempty or empty field.
func (p *parser) text(code string, v Token, explicit bool) term.Term {
	if explicit && v.Kind == TokWord {
		switch strings.ToLower(v.Value) {
		case "any":
			return term.NewTrivialTextMatch(p.env.User, code, true)
		case "none":
			return term.NewTrivialTextMatch(p.env.User, code, false)
		}
	}
	return term.NewTextMatch(p.env.User, code, v.Value, v.Kind == TokString)
}

// maxPaperID bounds the paper numbers a query may name.
const maxPaperID = math.MaxInt32 - 1

// paperRange parses N, #N or N-M. A range written high to low is kept in
// that order. It reports whether tok looks like a range at all, and an
// error for numbers above maxPaperID.
func paperRange(tok Token) (*pidset.Set, bool, error) {
	if tok.Kind != TokWord {
		return nil, false, nil
	}
	m := paperRangeRE.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, false, nil
	}
	lo, err := paperNumber(m[1])
	if err != nil {
		return nil, true, err
	}
	hi := lo
	if m[2] != "" {
		if hi, err = paperNumber(m[2]); err != nil {
			return nil, true, err
		}
	}
	set := pidset.New()
	set.AddRange(lo, hi)
	return set, true, nil
}

func paperNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n > maxPaperID {
		return 0, fmt.Errorf("paper number %s out of range", s)
	}
	return n, nil
}

func (p *parser) warn(span term.Span, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Span: span, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokEOF}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) startsOperand() bool {
	switch p.current().Kind {
	case TokWord, TokString, TokLParen, TokNot:
		return true
	}
	return false
}
