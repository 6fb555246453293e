package term

import "iter"

// Visit applies fn bottom-up. Each call receives the node and the results
// of visiting its children, in order.
func Visit[T any](t Term, fn func(t Term, children []T) T) T {
	kids := Children(t)
	var xs []T
	if len(kids) > 0 {
		xs = make([]T, len(kids))
		for i, c := range kids {
			xs[i] = Visit(c, fn)
		}
	}
	return fn(t, xs)
}

// Preorder yields t and its descendants, parents before children.
func Preorder(t Term) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		stack := []Term{t}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			kids := Children(n)
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// About classifies how a term relates to reviews.
type About int

const (
	AboutNo About = iota
	AboutMaybe
	AboutSelf
	AboutMany
)

func (a About) String() string {
	switch a {
	case AboutNo:
		return "no"
	case AboutMaybe:
		return "maybe"
	case AboutSelf:
		return "self"
	case AboutMany:
		return "many"
	default:
		return "about?"
	}
}

// AboutReviews reports whether t's results depend on review rows.
// Combinators take the most permissive answer of their children.
func AboutReviews(t Term) About {
	switch t := t.(type) {
	case *True, *False, *PaperID, *TextMatch, *Decision:
		return AboutNo
	case *Limit:
		return t.aboutReviews()
	default:
		x := AboutNo
		for _, c := range Children(t) {
			x = max(x, AboutReviews(c))
		}
		return x
	}
}
