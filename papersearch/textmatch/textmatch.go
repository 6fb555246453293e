// Package textmatch compiles free-text search words into case- and
// accent-insensitive matchers.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/grafana/regexp"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	wordStart = `(?:^|[^\pL\pN])`
	wordEnd   = `(?:$|[^\pL\pN])`
)

// Matcher tests text against a compiled search string. A Matcher with no
// patterns matches nothing.
type Matcher struct {
	text   string
	quoted bool
	res    []*regexp.Regexp
}

// Compile builds a matcher for text. Unquoted text is split into words that
// must all appear on word boundaries; quoted text must appear as a phrase.
// A '*' inside a word matches any run of non-space characters.
func Compile(text string, quoted bool) *Matcher {
	m := &Matcher{text: text, quoted: quoted}
	words := strings.Fields(Fold(text))
	if len(words) == 0 {
		return m
	}
	var exprs []string
	if quoted {
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = wordPattern(w)
		}
		exprs = []string{wordStart + strings.Join(parts, `\s+`) + wordEnd}
	} else {
		for _, w := range words {
			exprs = append(exprs, wordStart+wordPattern(w)+wordEnd)
		}
	}
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			// a bad pattern matches nothing
			m.res = nil
			return m
		}
		m.res = append(m.res, re)
	}
	return m
}

func wordPattern(w string) string {
	pieces := strings.Split(w, "*")
	for i, p := range pieces {
		pieces[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(pieces, `\S*`)
}

// Match reports whether s satisfies every pattern of m.
func (m *Matcher) Match(s string) bool {
	if m == nil || len(m.res) == 0 {
		return false
	}
	f := Fold(s)
	for _, re := range m.res {
		if !re.MatchString(f) {
			return false
		}
	}
	return true
}

// Empty reports whether m can never match.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.res) == 0
}

// Text returns the search string m was compiled from.
func (m *Matcher) Text() string { return m.text }

// Quoted reports whether m matches a phrase.
func (m *Matcher) Quoted() bool { return m.quoted }

func (m *Matcher) String() string {
	if m.quoted {
		return `"` + m.text + `"`
	}
	return m.text
}

// Fold lowercases s and strips combining marks, so "Émile" folds to "emile".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
