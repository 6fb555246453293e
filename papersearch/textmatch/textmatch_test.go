package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		quoted bool
		input  string
		want   bool
	}{
		{"single word", "cache", false, "A Coherent Cache Protocol", true},
		{"word boundary", "cache", false, "Caches everywhere", false},
		{"star suffix", "cache*", false, "Caches everywhere", true},
		{"star prefix", "*cast", false, "Reliable broadcast", true},
		{"all words required", "coherent protocol", false, "A protocol that is coherent", true},
		{"missing word", "coherent fast", false, "A protocol that is coherent", false},
		{"accents folded", "emile", false, "Émile Durkheim", true},
		{"accents in query folded", "Émile", false, "EMILE", true},
		{"phrase", "cache protocol", true, "A coherent cache   protocol", true},
		{"phrase order", "protocol cache", true, "A coherent cache protocol", false},
		{"punctuation is a boundary", "c++", false, "Programs in C++, again", true},
		{"empty matches nothing", "   ", false, "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compile(tt.text, tt.quoted)
			assert.Equal(t, tt.want, m.Match(tt.input))
		})
	}
}

func TestEmpty(t *testing.T) {
	assert.True(t, Compile("", false).Empty())
	assert.False(t, Compile("x", false).Empty())

	var m *Matcher
	assert.True(t, m.Empty())
	assert.False(t, m.Match("x"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "creme brulee", Fold("Crème Brûlée"))
	assert.Equal(t, "naive", Fold("NAÏVE"))
}

func TestString(t *testing.T) {
	assert.Equal(t, `"a b"`, Compile("a b", true).String())
	assert.Equal(t, "a*", Compile("a*", false).String())
}
