package term

import (
	"strings"

	"github.com/grafana/regexp"
)

// Op names a combinator.
type Op int

const (
	OpNot Op = iota
	OpAnd
	OpSpace
	OpOr
	OpXor
	OpThen
	OpHighlight
)

var opNames = [...]string{"not", "and", "space", "or", "xor", "then", "highlight"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op?"
}

// Combine joins terms with op and simplifies the result. The returned term
// may be one of the inputs or a new constant; callers must use it instead
// of any node they built. Nil terms are ignored.
func Combine(op Op, terms ...Term) Term {
	return combine(op, "", terms)
}

// Highlight combines terms so that the first selects submissions and the
// rest mark matching submissions with color.
func Highlight(color string, terms ...Term) Term {
	return combine(OpHighlight, color, terms)
}

func combine(op Op, color string, terms []Term) Term {
	var t Term
	if op == OpNot {
		t = &Not{}
	} else if len(terms) == 1 {
		return terms[0]
	} else {
		switch op {
		case OpAnd:
			t = &And{}
		case OpSpace:
			t = &And{Space: true}
		case OpOr:
			t = &Or{}
		case OpXor:
			t = &Xor{}
		case OpThen, OpHighlight:
			t = &Then{highlight: op == OpHighlight, color: strings.ToLower(color)}
		default:
			assertf(false, "unknown operator %d", int(op))
		}
	}
	c := combinatorOf(t)
	_, isThen := t.(*Then)
	for _, x := range terms {
		c.append(x, isThen)
	}
	return finish(t)
}

// Negate returns the simplified negation of t.
func Negate(t Term) Term {
	return combine(OpNot, "", []Term{t})
}

// NegateIf returns Negate(t) if negate is set, otherwise t.
func NegateIf(t Term, negate bool) Term {
	if negate {
		return Negate(t)
	}
	return t
}

func (c *Combinator) append(t Term, then bool) {
	if t == nil {
		return
	}
	b := t.base()
	c.Float.merge(&b.Float, then)
	c.Children = append(c.Children, t)
	if b.Span.Valid() && b.Float.SpanOwner == "" {
		c.applySpan(b.Span)
	}
}

var sortAnnoRE = regexp.MustCompile(`(?s)^([a-z]*)sort(:.*)$`)

// stripSortAnnos drops "sort:" directives and turns "Xsort:" into "X:".
func stripSortAnnos(view []ViewAnno) []ViewAnno {
	var out []ViewAnno
	for _, v := range view {
		if m := sortAnnoRE.FindStringSubmatch(v.Directive); m != nil {
			if m[1] != "" {
				out = append(out, ViewAnno{Directive: m[1] + m[2], Span: v.Span})
			}
		} else {
			out = append(out, v)
		}
	}
	return out
}

func finish(t Term) Term {
	switch t := t.(type) {
	case *Not:
		return finishNot(t)
	case *And:
		return finishAnd(t)
	case *Or:
		return finishOr(t)
	case *Xor:
		return finishXor(t)
	case *Then:
		return finishThen(t)
	default:
		return t
	}
}

func finishNot(n *Not) Term {
	n.Float.Tags = nil
	var child Term
	if len(n.Children) > 0 {
		child = n.Children[0]
		n.Children = n.Children[:1]
	}
	var r Term
	switch c := child.(type) {
	case nil, *False:
		r = &True{}
	case *True:
		r = &False{}
	case *Not:
		r = clone(c.Children[0])
	}
	if r == nil {
		return n
	}
	r.base().Float = n.Float.clone()
	return r
}

// flatten splices in children of the same kind as t.
func flatten(t Term, children []Term) []Term {
	kind := KindOf(t)
	var out []Term
	for _, c := range children {
		if KindOf(c) == kind {
			out = append(out, Children(c)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// finishCombine replaces t by a constant when no children remain and by a
// copy of the only child when one remains. Either replacement carries t's
// annotations.
func finishCombine(t Term, children []Term, sawTrue bool) Term {
	var r Term
	switch len(children) {
	case 0:
		if sawTrue {
			r = &True{}
		} else {
			r = &False{}
		}
	case 1:
		r = clone(children[0])
	default:
		combinatorOf(t).Children = children
		return t
	}
	r.base().Float = t.base().Float.clone()
	return r
}

func finishAnd(a *And) Term {
	var children []Term
	pn := -1
	sawTrue := false
	for _, c := range flatten(a, a.Children) {
		switch c := c.(type) {
		case *False:
			return &False{Base{Float: a.Float.clone()}}
		case *True:
			sawTrue = true
		case *PaperID:
			if a.Space && pn >= 0 {
				children[pn] = mergePaperIDs(children[pn].(*PaperID), c)
				continue
			}
			if a.Space {
				pn = len(children)
			}
			children = append(children, c)
		default:
			children = append(children, c)
		}
	}
	return finishCombine(a, children, sawTrue)
}

func finishOr(o *Or) Term {
	var children []Term
	pn, last := -1, -1
	for _, c := range flatten(o, o.Children) {
		switch c := c.(type) {
		case *True:
			return &True{Base{Float: o.Float.clone()}}
		case *False:
		case *PaperID:
			if pn >= 0 {
				children[pn] = mergePaperIDs(children[pn].(*PaperID), c)
				continue
			}
			pn = len(children)
			children = append(children, c)
		default:
			if last >= 0 {
				if m, ok := merge(children[last], c); ok {
					children[last] = m
					continue
				}
			}
			last = len(children)
			children = append(children, c)
		}
	}
	return finishCombine(o, children, false)
}

func finishXor(x *Xor) Term {
	var children []Term
	negate := false
	for _, c := range flatten(x, x.Children) {
		switch c.(type) {
		case *False:
		case *True:
			negate = !negate
		default:
			children = append(children, c)
		}
	}
	return NegateIf(finishCombine(x, children, false), negate)
}

// mergePaperIDs returns a copy of a holding the union of a and b.
func mergePaperIDs(a, b *PaperID) *PaperID {
	r := clone(a).(*PaperID)
	r.Set = a.Set.Clone()
	r.Set.Merge(b.Set)
	return r
}

// merge coalesces two adjacent Or children into one equivalent term.
func merge(a, b Term) (Term, bool) {
	switch a := a.(type) {
	case *PaperID:
		if b, ok := b.(*PaperID); ok {
			return mergePaperIDs(a, b), true
		}
	case *Decision:
		if b, ok := b.(*Decision); ok && sameUser(a.user, b.user) {
			return mergeDecisions(a, b), true
		}
	}
	return nil, false
}
