// Package contact is the reference permission policy used by the CLI and
// tests: conference settings plus a user with PC and chair roles.
package contact

import (
	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/term"
)

// Conf holds the conference settings permission checks read.
type Conf struct {
	PCViewActive        bool                `yaml:"pc_view_active" mapstructure:"pc_view_active"`
	Tracks              bool                `yaml:"tracks" mapstructure:"tracks"`
	Blind               bool                `yaml:"blind" mapstructure:"blind"`
	PCSeeAllDecisions   bool                `yaml:"pc_see_all_decisions" mapstructure:"pc_see_all_decisions"`
	AuthorsSeeDecisions bool                `yaml:"authors_see_decisions" mapstructure:"authors_see_decisions"`
	DecisionList        []term.DecisionInfo `yaml:"decisions" mapstructure:"decisions"`
}

// DefaultDecisions is the decision list used when none is configured.
var DefaultDecisions = []term.DecisionInfo{
	{ID: 1, Name: "Accepted"},
	{ID: -1, Name: "Rejected"},
}

func (c *Conf) TimePCViewActiveSubmissions() bool { return c.PCViewActive }
func (c *Conf) HasTracks() bool                   { return c.Tracks }

func (c *Conf) Decisions() []term.DecisionInfo {
	if len(c.DecisionList) == 0 {
		return DefaultDecisions
	}
	return c.DecisionList
}

// Role bits.
const (
	RolePC    = 1 << 0
	RoleChair = 1 << 1
)

// Contact is a conference user.
type Contact struct {
	ID    int
	Email string
	Roles int
	// Tokens are review tokens the user has entered.
	Tokens []int
	// TrackViewRestricted hides some submissions from the user.
	TrackViewRestricted bool
	// TrackManager marks a manager of some track.
	TrackManager bool

	conf *Conf
}

// New returns a contact of conf.
func New(conf *Conf, id int, email string, roles int) *Contact {
	return &Contact{ID: id, Email: email, Roles: roles, conf: conf}
}

func (u *Contact) ContactID() int       { return u.ID }
func (u *Contact) IsPC() bool           { return u.Roles&(RolePC|RoleChair) != 0 }
func (u *Contact) IsPrivChair() bool    { return u.Roles&RoleChair != 0 }
func (u *Contact) IsTrackManager() bool { return u.TrackManager || u.IsPrivChair() }
func (u *Contact) CanViewAll() bool     { return u.IsPrivChair() }
func (u *Contact) ReviewTokens() []int  { return u.Tokens }
func (u *Contact) Conf() term.Conf      { return u.conf }

func (u *Contact) CanViewAllDecisions() bool {
	return u.IsPrivChair() || (u.IsPC() && u.conf.PCSeeAllDecisions)
}

func (u *Contact) AllowAdministerAll() bool { return u.IsPrivChair() }

func (u *Contact) HasTrackViewRestrictions() bool {
	return u.TrackViewRestricted && !u.IsPrivChair()
}

func (u *Contact) CanAcceptSomeReviewAssignment() bool { return u.IsPC() }

func (u *Contact) HasAuthorView(p *record.Paper) bool {
	return u.ID > 0 && p.ConflictType(u.ID) >= record.ConflictAuthor
}

func (u *Contact) HasReviewer(p *record.Paper) bool {
	return len(p.ReviewsBy(u.ID, u.Tokens)) > 0
}

func (u *Contact) CanViewDecision(p *record.Paper) bool {
	return u.CanViewAllDecisions() || u.AllowAdminister(p) ||
		(u.conf.AuthorsSeeDecisions && u.HasAuthorView(p))
}

func (u *Contact) CanAcceptReviewAssignment(p *record.Paper) bool {
	return u.IsPC()
}

func (u *Contact) AllowAdminister(p *record.Paper) bool {
	return u.IsPrivChair() || (u.ID > 0 && p.ManagerContactID == u.ID)
}

func (u *Contact) IsPrimaryAdministrator(p *record.Paper) bool {
	if p.ManagerContactID != 0 {
		return u.ID > 0 && p.ManagerContactID == u.ID
	}
	return u.IsPrivChair()
}

func (u *Contact) AllowViewAuthors(p *record.Paper) bool {
	return u.HasAuthorView(p) || u.AllowAdminister(p) ||
		(!u.conf.Blind && u.IsPC() && p.TimeSubmitted > 0)
}

// CanViewPaper reports whether the user may see p at all. Search results
// are always filtered through it.
func (u *Contact) CanViewPaper(p *record.Paper) bool {
	if u.IsPrivChair() || u.HasAuthorView(p) || u.HasReviewer(p) || u.AllowAdminister(p) {
		return true
	}
	if !u.IsPC() || u.HasTrackViewRestrictions() {
		return false
	}
	if p.TimeSubmitted > 0 {
		return true
	}
	return u.conf.PCViewActive && p.TimeWithdrawn <= 0
}
