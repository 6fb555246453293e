package term

import (
	"slices"

	"github.com/papersearch/papersearch/papersearch/pidset"
	"github.com/papersearch/papersearch/papersearch/record"
)

type fakeConf struct {
	activeView bool
	tracks     bool
	decisions  []DecisionInfo
}

func (c *fakeConf) TimePCViewActiveSubmissions() bool { return c.activeView }
func (c *fakeConf) HasTracks() bool                   { return c.tracks }
func (c *fakeConf) Decisions() []DecisionInfo         { return c.decisions }

// fakeUser is a PC member or chair with straightforward permissions.
type fakeUser struct {
	id     int
	pc     bool
	chair  bool
	tokens []int
	conf   *fakeConf
}

func newConf() *fakeConf {
	return &fakeConf{decisions: []DecisionInfo{
		{ID: 1, Name: "Accepted"},
		{ID: 2, Name: "Accepted as poster"},
		{ID: -1, Name: "Rejected"},
	}}
}

func chair(conf *fakeConf) *fakeUser { return &fakeUser{id: 1, pc: true, chair: true, conf: conf} }
func pcMember(id int, conf *fakeConf) *fakeUser {
	return &fakeUser{id: id, pc: true, conf: conf}
}

func (u *fakeUser) ContactID() int                      { return u.id }
func (u *fakeUser) IsPC() bool                          { return u.pc }
func (u *fakeUser) IsPrivChair() bool                   { return u.chair }
func (u *fakeUser) IsTrackManager() bool                { return false }
func (u *fakeUser) CanViewAll() bool                    { return u.chair }
func (u *fakeUser) CanViewAllDecisions() bool           { return u.chair }
func (u *fakeUser) AllowAdministerAll() bool            { return u.chair }
func (u *fakeUser) HasTrackViewRestrictions() bool      { return false }
func (u *fakeUser) CanAcceptSomeReviewAssignment() bool { return u.pc }
func (u *fakeUser) ReviewTokens() []int                 { return u.tokens }
func (u *fakeUser) Conf() Conf                          { return u.conf }

func (u *fakeUser) HasAuthorView(p *record.Paper) bool {
	return p.ConflictType(u.id) >= record.ConflictAuthor
}
func (u *fakeUser) HasReviewer(p *record.Paper) bool {
	return len(p.ReviewsBy(u.id, u.tokens)) > 0
}
func (u *fakeUser) CanViewDecision(p *record.Paper) bool {
	return u.chair || u.HasAuthorView(p)
}
func (u *fakeUser) CanAcceptReviewAssignment(p *record.Paper) bool { return u.pc }
func (u *fakeUser) AllowAdminister(p *record.Paper) bool {
	return u.chair || p.ManagerContactID == u.id
}
func (u *fakeUser) IsPrimaryAdministrator(p *record.Paper) bool {
	return p.ManagerContactID == u.id || (p.ManagerContactID == 0 && u.chair)
}
func (u *fakeUser) AllowViewAuthors(p *record.Paper) bool {
	return u.HasAuthorView(p) || u.AllowAdminister(p)
}
func (u *fakeUser) CanViewPaper(p *record.Paper) bool { return true }

func paper(id int) *record.Paper {
	return &record.Paper{PaperID: id, TimeSubmitted: 100}
}

func papers(ids ...int) []*record.Paper {
	var ps []*record.Paper
	for _, id := range ids {
		ps = append(ps, paper(id))
	}
	return ps
}

// matching returns the IDs of ps that t matches.
func matching(t Term, ps []*record.Paper) []int {
	var ids []int
	for _, p := range ps {
		if Test(t, p, nil) {
			ids = append(ids, p.PaperID)
		}
	}
	slices.Sort(ids)
	return ids
}

func pn(ids ...int) *PaperID {
	return NewPaperID(pidset.Of(ids...))
}

func pnRange(lo, hi int) *PaperID {
	t := NewPaperID(nil)
	t.Set.AddRange(lo, hi)
	return t
}
