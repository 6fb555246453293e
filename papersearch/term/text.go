package term

import (
	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/textmatch"
)

// TextFields maps text-match field codes to Paper columns.
var TextFields = map[string]string{
	"ti": "title",
	"ab": "abstract",
	"au": "authorInformation",
	"co": "collaborators",
}

// TextMatch matches a text column of the submission.
type TextMatch struct {
	Base
	user      User
	code      string
	field     string
	authorish bool

	// trivial is set for pure existence tests.
	trivial *bool
	matcher *textmatch.Matcher
}

func newTextMatch(user User, code string) *TextMatch {
	field, ok := TextFields[code]
	assertf(ok, "unknown text field %q", code)
	return &TextMatch{
		user:      user,
		code:      code,
		field:     field,
		authorish: code == "au" || code == "co",
	}
}

// NewTextMatch returns a term matching text against the field named by
// code.
func NewTextMatch(user User, code, text string, quoted bool) *TextMatch {
	t := newTextMatch(user, code)
	t.matcher = textmatch.Compile(text, quoted)
	return t
}

// NewTrivialTextMatch returns a term testing whether the field is
// non-empty (nonempty true) or empty (nonempty false).
func NewTrivialTextMatch(user User, code string, nonempty bool) *TextMatch {
	t := newTextMatch(user, code)
	t.trivial = &nonempty
	return t
}

// Field returns the matched column name.
func (t *TextMatch) Field() string { return t.field }

// Matcher returns the compiled matcher, or nil for trivial matches.
func (t *TextMatch) Matcher() *textmatch.Matcher { return t.matcher }

func (t *TextMatch) isTrivialTrue() bool {
	return t.trivial != nil && *t.trivial
}

func (t *TextMatch) sqlExpr(qi *QueryInfo) string {
	qi.AddColumn(t.field, "Paper."+t.field)
	if t.isTrivialTrue() && !t.authorish {
		return "Paper." + t.field + "!=''"
	}
	return "true"
}

func (t *TextMatch) isSQLPrecise() bool {
	return t.isTrivialTrue() && !t.authorish
}

func (t *TextMatch) test(p *record.Paper) bool {
	data := p.Field(t.field)
	if t.authorish && !t.user.AllowViewAuthors(p) {
		data = ""
	}
	switch {
	case data == "":
		return t.trivial != nil && !*t.trivial
	case t.trivial != nil:
		return *t.trivial
	default:
		return t.matcher.Match(data)
	}
}
