package term

import "github.com/papersearch/papersearch/papersearch/record"

// Then partitions matches into ordered buckets. Children[:NThen] are the
// buckets; a submission belongs to the first bucket it matches. The
// remaining children are highlight terms, one per entry of Highlights.
type Then struct {
	Combinator
	NThen      int
	Highlights []HighlightInfo

	highlight bool
	color     string
	lastGroup int
}

// HighlightInfo colors submissions of buckets [Pos, Pos+Count) that also
// match the corresponding highlight term.
type HighlightInfo struct {
	Pos   int
	Count int
	Color string
}

func finishThen(t *Then) Term {
	var buckets, hterms []Term
	var hinfo []HighlightInfo
	for i, c := range t.Children {
		nested, isThen := c.(*Then)
		switch {
		case i > 0 && t.highlight:
			if isThen {
				for _, b := range nested.Children[:nested.NThen] {
					hterms = append(hterms, b)
					hinfo = append(hinfo, HighlightInfo{Pos: 0, Count: len(buckets), Color: t.color})
				}
			} else {
				hterms = append(hterms, c)
				hinfo = append(hinfo, HighlightInfo{Pos: 0, Count: len(buckets), Color: t.color})
			}
		case isThen:
			pos := len(buckets)
			buckets = append(buckets, nested.Children[:nested.NThen]...)
			hterms = append(hterms, nested.Children[nested.NThen:]...)
			for _, h := range nested.Highlights {
				hinfo = append(hinfo, HighlightInfo{Pos: pos + h.Pos, Count: h.Count, Color: h.Color})
			}
		default:
			buckets = append(buckets, c)
		}
	}
	if len(buckets) == 0 {
		return &False{Base{Float: t.Float.clone()}}
	}
	t.NThen = len(buckets)
	t.Children = append(buckets, hterms...)
	t.Highlights = hinfo
	t.lastGroup = -1
	return t
}

// HasHighlights reports whether t carries highlight terms.
func (t *Then) HasHighlights() bool {
	return t.NThen < len(t.Children)
}

// LastGroup returns the bucket matched by the most recent successful Test,
// or -1.
func (t *Then) LastGroup() int {
	return t.lastGroup
}

// LastHighlights returns the colors of highlight terms that apply to p
// given the bucket matched by the most recent Test of p.
func (t *Then) LastHighlights(p *record.Paper) []string {
	assertf(len(t.Children) == t.NThen+len(t.Highlights), "then: %d children, %d buckets, %d highlights",
		len(t.Children), t.NThen, len(t.Highlights))
	var colors []string
	for i, h := range t.Highlights {
		if t.lastGroup >= h.Pos && t.lastGroup < h.Pos+h.Count && Test(t.Children[t.NThen+i], p, nil) {
			colors = append(colors, h.Color)
		}
	}
	return colors
}
