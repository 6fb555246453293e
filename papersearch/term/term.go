// Package term implements the search term algebra: leaf terms, boolean
// combinators with simplification, and the two evaluators every term
// provides. SQLExpr compiles a term into a predicate over the Paper table
// that may over-approximate; Test evaluates it against a loaded record and
// is authoritative. IsSQLPrecise reports when the SQL alone is exact.
package term

import (
	"slices"

	"github.com/papersearch/papersearch/papersearch/pidset"
)

// Term is a node in a search expression. The set of implementations is
// closed: True, False, Not, And, Or, Xor, Then, PaperID, Limit, TextMatch
// and Decision.
type Term interface {
	base() *Base
}

// Base holds the attributes shared by every term.
type Base struct {
	Float Float
	Span  Span
}

func (b *Base) base() *Base { return b }

// Span is a byte range [Start, End) of the query text.
type Span struct {
	Start int
	End   int
}

// Valid reports whether s covers any text.
func (s Span) Valid() bool { return s.End > s.Start }

// ViewAnno is a display directive such as "show:abstract" or "sort:title".
type ViewAnno struct {
	Directive string
	Span      Span
}

// Float holds the non-semantic annotations that propagate upward when terms
// are combined. View and Tags accumulate; Legend and SpanOwner are replaced
// by a child that sets them.
type Float struct {
	View      []ViewAnno
	Tags      []string
	Legend    string
	SpanOwner string
}

// Empty reports whether no annotation is set.
func (f *Float) Empty() bool {
	return len(f.View) == 0 && len(f.Tags) == 0 && f.Legend == "" && f.SpanOwner == ""
}

func (f Float) clone() Float {
	f.View = slices.Clone(f.View)
	f.Tags = slices.Clone(f.Tags)
	return f
}

func (f *Float) merge(o *Float, stripSort bool) {
	view := o.View
	if stripSort {
		view = stripSortAnnos(view)
	}
	f.View = append(f.View, view...)
	f.Tags = append(f.Tags, o.Tags...)
	if o.Legend != "" {
		f.Legend = o.Legend
	}
	if o.SpanOwner != "" {
		f.SpanOwner = o.SpanOwner
	}
}

// FloatOf returns t's annotations for modification.
func FloatOf(t Term) *Float { return &t.base().Float }

// SpanOf returns t's query span.
func SpanOf(t Term) Span { return t.base().Span }

// SetSpan sets t's query span.
func SetSpan(t Term, s Span) { t.base().Span = s }

func (b *Base) applySpan(s Span) {
	if !b.Span.Valid() {
		b.Span = s
		return
	}
	b.Span.Start = min(b.Span.Start, s.Start)
	b.Span.End = max(b.Span.End, s.End)
}

// SetSpanOwner marks t and, for combinators, its subtree as owning their
// spans. Owned spans do not widen enclosing combinators. Only the first
// owner sticks.
func SetSpanOwner(t Term, owner string) {
	b := t.base()
	if b.Float.SpanOwner != "" {
		return
	}
	b.Float.SpanOwner = owner
	for _, c := range Children(t) {
		SetSpanOwner(c, owner)
	}
}

// AddViewAnno appends a display directive to t.
func AddViewAnno(t Term, directive string, span Span) Term {
	b := t.base()
	b.Float.View = append(b.Float.View, ViewAnno{Directive: directive, Span: span})
	return t
}

// Combinator holds the children of a boolean combinator.
type Combinator struct {
	Base
	Children []Term
}

// True matches every submission.
type True struct{ Base }

// False matches nothing.
type False struct{ Base }

// Not negates its single child.
type Not struct{ Combinator }

// And matches when every child matches. Space is set for juxtaposed words,
// which differ from explicit AND only in how paper-number children merge.
type And struct {
	Combinator
	Space bool
}

// Or matches when some child matches.
type Or struct{ Combinator }

// Xor matches when an odd number of children match.
type Xor struct{ Combinator }

// PaperID matches submissions by number.
type PaperID struct {
	Base
	Set *pidset.Set
}

func NewTrue() *True   { return &True{} }
func NewFalse() *False { return &False{} }

// NewPaperID returns a term matching the IDs in set. The term takes
// ownership of set.
func NewPaperID(set *pidset.Set) *PaperID {
	if set == nil {
		set = pidset.New()
	}
	return &PaperID{Set: set}
}

// Children returns t's children, or nil for leaves.
func Children(t Term) []Term {
	switch t := t.(type) {
	case *Not:
		return t.Children
	case *And:
		return t.Children
	case *Or:
		return t.Children
	case *Xor:
		return t.Children
	case *Then:
		return t.Children
	default:
		return nil
	}
}

func combinatorOf(t Term) *Combinator {
	switch t := t.(type) {
	case *Not:
		return &t.Combinator
	case *And:
		return &t.Combinator
	case *Or:
		return &t.Combinator
	case *Xor:
		return &t.Combinator
	case *Then:
		return &t.Combinator
	default:
		return nil
	}
}

// KindOf returns the short type name of t: "true", "false", "not", "and",
// "space", "or", "xor", "then", "pn", "in", "dec", or a text-match field
// code.
func KindOf(t Term) string {
	switch t := t.(type) {
	case *True:
		return "true"
	case *False:
		return "false"
	case *Not:
		return "not"
	case *And:
		if t.Space {
			return "space"
		}
		return "and"
	case *Or:
		return "or"
	case *Xor:
		return "xor"
	case *Then:
		return "then"
	case *PaperID:
		return "pn"
	case *Limit:
		return "in"
	case *TextMatch:
		return t.code
	case *Decision:
		return "dec"
	default:
		return ""
	}
}

// clone returns a shallow copy of t with its own annotation and child
// slices.
func clone(t Term) Term {
	var c Term
	switch t := t.(type) {
	case *True:
		x := *t
		c = &x
	case *False:
		x := *t
		c = &x
	case *Not:
		x := *t
		x.Children = slices.Clone(t.Children)
		c = &x
	case *And:
		x := *t
		x.Children = slices.Clone(t.Children)
		c = &x
	case *Or:
		x := *t
		x.Children = slices.Clone(t.Children)
		c = &x
	case *Xor:
		x := *t
		x.Children = slices.Clone(t.Children)
		c = &x
	case *Then:
		x := *t
		x.Children = slices.Clone(t.Children)
		x.Highlights = slices.Clone(t.Highlights)
		c = &x
	case *PaperID:
		x := *t
		c = &x
	case *Limit:
		x := *t
		c = &x
	case *TextMatch:
		x := *t
		c = &x
	case *Decision:
		x := *t
		x.ids = slices.Clone(t.ids)
		c = &x
	default:
		assertf(false, "clone of unknown term %T", t)
	}
	b := c.base()
	b.Float = b.Float.clone()
	return c
}

// IsUninteresting reports whether t only carries display directives.
func IsUninteresting(t Term) bool {
	tt, ok := t.(*True)
	if !ok {
		return false
	}
	f := tt.Float
	return len(f.View) > 0 && len(f.Tags) == 0 && f.Legend == "" && f.SpanOwner == ""
}
