package term

import (
	"github.com/papersearch/papersearch/papersearch/pidset"
	"github.com/papersearch/papersearch/papersearch/textmatch"
)

// Configurator receives search-wide settings discovered in a term tree.
type Configurator interface {
	// ApplyLimit is called for each explicit limit reachable from the top
	// through And.
	ApplyLimit(l *Limit)
	// AddFieldHighlighter is called for each text matcher outside a Not.
	AddFieldHighlighter(code string, m *textmatch.Matcher)
}

// Configure reports t's search-wide settings to cfg. Negated subtrees are
// not visited.
func Configure(t Term, top bool, cfg Configurator) {
	switch t := t.(type) {
	case *Not:
	case *And:
		for _, c := range t.Children {
			Configure(c, top, cfg)
		}
	case *Or, *Xor, *Then:
		for _, c := range Children(t) {
			Configure(c, false, cfg)
		}
	case *Limit:
		if top && !t.Implicit() {
			cfg.ApplyLimit(t)
		}
	case *TextMatch:
		if t.matcher != nil {
			cfg.AddFieldHighlighter(t.code, t.matcher)
		}
	}
}

// QuickFilter is the flag set of a search that needs no term compilation.
type QuickFilter struct {
	Finalized            bool
	Active               bool
	MyReviews            bool
	MyOutstandingReviews bool
	Author               bool
	DecYes               bool
	DecNone              bool
	Unsub                bool
	MyLead               bool
	MyReviewRequests     bool
}

// SimpleSearch sets qf for t and reports whether qf alone selects exactly
// t's results.
func SimpleSearch(t Term, qf *QuickFilter) bool {
	switch t := t.(type) {
	case *True:
		return true
	case *Limit:
		return t.simpleSearch(qf)
	default:
		return false
	}
}

// RankOrder returns the paper-number set whose written order should order
// results, or nil. Only an out-of-order set at the top, directly or through
// And, qualifies; two such sets cancel.
func RankOrder(t Term, top bool) *pidset.Set {
	switch t := t.(type) {
	case *PaperID:
		if top && !t.Set.InOrder() {
			return t.Set
		}
	case *And:
		var s *pidset.Set
		for _, c := range t.Children {
			s1 := RankOrder(c, top)
			if s != nil && s1 != nil {
				return nil
			}
			if s == nil {
				s = s1
			}
		}
		return s
	}
	return nil
}

// DebugJSON returns a JSON-marshalable description of t.
func DebugJSON(t Term) any {
	switch t := t.(type) {
	case *Then:
		children := make([]any, 0, t.NThen)
		for _, c := range t.Children[:t.NThen] {
			children = append(children, DebugJSON(c))
		}
		if !t.HasHighlights() {
			return map[string]any{"type": "then", "child": children}
		}
		hls := make([]any, 0, len(t.Highlights))
		for i, h := range t.Highlights {
			hls = append(hls, map[string]any{
				"pos":    h.Pos,
				"count":  h.Count,
				"color":  h.Color,
				"search": DebugJSON(t.Children[t.NThen+i]),
			})
		}
		return map[string]any{"type": "then", "child": children, "highlights": hls}
	case *Not, *And, *Or, *Xor:
		kids := Children(t)
		children := make([]any, 0, len(kids))
		for _, c := range kids {
			children = append(children, DebugJSON(c))
		}
		return map[string]any{"type": KindOf(t), "child": children}
	case *PaperID:
		if ids := t.Set.IDs(); ids != nil {
			return map[string]any{"type": "pn", "ids": ids}
		}
		return map[string]any{"type": "pn", "count": t.Set.Len()}
	case *Limit:
		return map[string]any{"type": "in", "limit": t.Limit}
	case *TextMatch:
		if t.trivial != nil {
			return map[string]any{"type": t.code, "nonempty": *t.trivial}
		}
		return map[string]any{"type": t.code, "match": t.matcher.String()}
	case *Decision:
		return map[string]any{"type": "dec", "ids": t.ids}
	default:
		return KindOf(t)
	}
}
