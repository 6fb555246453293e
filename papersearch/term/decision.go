package term

import (
	"slices"
	"strings"

	"github.com/papersearch/papersearch/papersearch/record"
)

// Decision matches submissions whose visible outcome is one of a set of
// decision IDs. Outcome 0 means no decision.
type Decision struct {
	Base
	user User
	ids  []int
}

// NewDecision resolves word against user's conference decisions. Accepted
// words are "yes", "no", "any", "none" (or "unknown", "undecided") and
// decision names. It reports false when word names no decision.
func NewDecision(user User, word string) (*Decision, bool) {
	decs := user.Conf().Decisions()
	var ids []int
	switch w := strings.ToLower(word); w {
	case "yes":
		for _, d := range decs {
			if d.ID > 0 {
				ids = append(ids, d.ID)
			}
		}
	case "no":
		for _, d := range decs {
			if d.ID < 0 {
				ids = append(ids, d.ID)
			}
		}
	case "any":
		for _, d := range decs {
			if d.ID != 0 {
				ids = append(ids, d.ID)
			}
		}
	case "none", "unknown", "undecided":
		ids = []int{0}
	default:
		for _, d := range decs {
			if strings.EqualFold(d.Name, w) {
				ids = append(ids, d.ID)
			}
		}
		if len(ids) == 0 {
			return nil, false
		}
	}
	slices.Sort(ids)
	return &Decision{user: user, ids: slices.Compact(ids)}, true
}

// IDs returns the matched decision IDs in ascending order.
func (d *Decision) IDs() []int { return slices.Clone(d.ids) }

func mergeDecisions(a, b *Decision) *Decision {
	r := clone(a).(*Decision)
	r.ids = append(r.ids, b.ids...)
	slices.Sort(r.ids)
	r.ids = slices.Compact(r.ids)
	return r
}

func (d *Decision) sqlExpr() string {
	if len(d.ids) == 0 {
		return "false"
	}
	// Outcomes the user cannot see test as 0, whatever is stored.
	if slices.Contains(d.ids, 0) && !d.user.CanViewAllDecisions() {
		return "true"
	}
	return "Paper.outcome in (" + joinInts(d.ids) + ")"
}

func (d *Decision) test(p *record.Paper) bool {
	outcome := p.Outcome
	if !d.user.CanViewDecision(p) {
		outcome = 0
	}
	_, found := slices.BinarySearch(d.ids, outcome)
	return found
}
