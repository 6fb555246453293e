package term

import "github.com/papersearch/papersearch/papersearch/record"

// User answers the permission questions terms ask while compiling and
// testing. Implementations must be safe to call repeatedly; answers are
// assumed fixed for the lifetime of a search.
type User interface {
	ContactID() int
	IsPC() bool
	IsPrivChair() bool
	IsTrackManager() bool
	CanViewAll() bool
	CanViewAllDecisions() bool
	AllowAdministerAll() bool
	// HasTrackViewRestrictions reports whether some submissions are hidden
	// from the user by track settings.
	HasTrackViewRestrictions() bool
	CanAcceptSomeReviewAssignment() bool
	ReviewTokens() []int
	Conf() Conf

	HasAuthorView(p *record.Paper) bool
	HasReviewer(p *record.Paper) bool
	CanViewDecision(p *record.Paper) bool
	CanAcceptReviewAssignment(p *record.Paper) bool
	AllowAdminister(p *record.Paper) bool
	IsPrimaryAdministrator(p *record.Paper) bool
	AllowViewAuthors(p *record.Paper) bool
	CanViewPaper(p *record.Paper) bool
}

// Conf is the read-only conference configuration terms consult.
type Conf interface {
	TimePCViewActiveSubmissions() bool
	HasTracks() bool
	Decisions() []DecisionInfo
}

// DecisionInfo is one decision category. Positive IDs are accept decisions,
// negative IDs reject decisions.
type DecisionInfo struct {
	ID   int    `yaml:"id" mapstructure:"id"`
	Name string `yaml:"name" mapstructure:"name"`
}

func sameUser(a, b User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || (a.ContactID() > 0 && a.ContactID() == b.ContactID())
}
