package term

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/papersearch/papersearch/papersearch/record"
)

// Limit flags.
const (
	FlagActive    = 1 << 0 // excludes withdrawn submissions
	FlagSubmitted = 1 << 1 // excludes unsubmitted submissions
	FlagImplicit  = 1 << 2 // supplied by the search, not the query
)

var limitAliases = map[string]string{
	"a":                  "a",
	"acc":                "acc",
	"accepted":           "acc",
	"act":                "act",
	"active":             "act",
	"actadmin":           "actadmin",
	"activeadmin":        "actadmin",
	"admin":              "admin",
	"administrator":      "admin",
	"all":                "all",
	"alladmin":           "alladmin",
	"ar":                 "ar",
	"author":             "a",
	"editpref":           "reviewable",
	"lead":               "lead",
	"manager":            "admin",
	"none":               "none",
	"outstandingreviews": "rout",
	"r":                  "r",
	"rable":              "reviewable",
	"req":                "req",
	"reqrevs":            "req",
	"reviewable":         "reviewable",
	"reviews":            "r",
	"rout":               "rout",
	"s":                  "s",
	"submitted":          "s",
	"und":                "undecided",
	"undec":              "undecided",
	"undecided":          "undecided",
	"unsub":              "unsub",
	"unsubmitted":        "unsub",
	"vis":                "viewable",
	"visible":            "viewable",
	"viewable":           "viewable",
}

// CanonicalLimit maps a limit name or alias to its canonical form.
func CanonicalLimit(name string) (string, bool) {
	c, ok := limitAliases[strings.ToLower(name)]
	return c, ok
}

// Limit restricts a search to a named, user-relative set of submissions.
// It is immutable after construction.
type Limit struct {
	Base
	// Limit is the effective canonical limit after context rewriting.
	Limit string
	// Named is the canonical limit as written.
	Named string
	Flags int

	user     User
	reviewer User
}

// NewLimit returns the limit named name for user, with reviewer as the
// target of reviewer-relative limits. Unknown names become "none".
func NewLimit(user, reviewer User, name string, implicit bool) *Limit {
	l := &Limit{user: user, reviewer: reviewer}
	named, ok := CanonicalLimit(name)
	if !ok {
		named = "none"
	}
	l.Named = named
	conf := user.Conf()
	limit := named
	switch limit {
	case "reviewable":
		if user.IsPrivChair() || sameUser(user, reviewer) {
			if reviewer.CanAcceptSomeReviewAssignment() {
				if conf.TimePCViewActiveSubmissions() {
					limit = "act"
				} else {
					limit = "s"
				}
			} else if !reviewer.IsPC() {
				limit = "r"
			}
		}
	case "viewable":
		if user.CanViewAll() {
			limit = "all"
		}
	}
	l.Limit = limit

	switch {
	case oneOf(limit, "a", "ar", "viewable", "all", "none"):
		l.Flags = 0
	case oneOf(limit, "r", "rout", "req"):
		if user.IsPC() && conf.TimePCViewActiveSubmissions() {
			l.Flags = FlagActive
		} else {
			l.Flags = FlagSubmitted
		}
	case oneOf(limit, "act", "unsub", "actadmin"),
		conf.TimePCViewActiveSubmissions() && !oneOf(limit, "s", "acc"):
		l.Flags = FlagActive
	default:
		l.Flags = FlagSubmitted
	}
	if implicit {
		l.Flags |= FlagImplicit
	}
	return l
}

func oneOf(s string, set ...string) bool {
	return slices.Contains(set, s)
}

// User returns the searching user.
func (l *Limit) User() User { return l.user }

// Reviewer returns the target reviewer.
func (l *Limit) Reviewer() User { return l.reviewer }

// Implicit reports whether l was supplied by the search rather than the
// query text.
func (l *Limit) Implicit() bool { return l.Flags&FlagImplicit != 0 }

func (l *Limit) isSQLPrecise() bool {
	if l.user.HasTrackViewRestrictions() {
		return false
	}
	switch l.Limit {
	case "acc", "viewable", "undecided", "alladmin", "actadmin":
		return l.user.AllowAdministerAll()
	case "reviewable", "admin":
		return false
	default:
		return true
	}
}

// actReviewerSQL matches review rows in table that belong to u.
func actReviewerSQL(u User, table string) string {
	var ff []string
	if id := u.ContactID(); id > 0 {
		ff = append(ff, fmt.Sprintf("%s.contactId=%d", table, id))
	}
	if toks := u.ReviewTokens(); len(toks) > 0 {
		ff = append(ff, fmt.Sprintf("%s.reviewToken in (%s)", table, joinInts(toks)))
	}
	switch len(ff) {
	case 0:
		return "false"
	case 1:
		return ff[0]
	default:
		return "(" + strings.Join(ff, " or ") + ")"
	}
}

func authorViewSQL(qi *QueryInfo, u User) string {
	return fmt.Sprintf("%s.conflictType>=%d", qi.ConflictTable(u), record.ConflictAuthor)
}

func joinInts(a []int) string {
	s := make([]string, len(a))
	for i, x := range a {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, ",")
}

func (l *Limit) sqlExpr(qi *QueryInfo) string {
	assertf(qi.Depth > 0 || sameUser(qi.User, l.user), "limit for user %d compiled at top level of another user's search", l.user.ContactID())

	var ff []string
	if l.Flags&FlagSubmitted != 0 {
		ff = append(ff, "Paper.timeSubmitted>0")
	} else if l.Flags&FlagActive != 0 {
		ff = append(ff, "Paper.timeWithdrawn<=0")
	}

	actReviewer := ""
	if oneOf(l.Limit, "ar", "r", "rout") {
		qi.AddReviewerColumns()
		if qi.Depth == 0 {
			actReviewer = actReviewerSQL(l.user, "MyReviews")
			if actReviewer != "false" {
				join := "join"
				if l.Limit == "ar" {
					join = "left join"
				}
				qi.AddTable("MyReviews", join, "PaperReview", "MyReviews.paperId=Paper.paperId and "+actReviewer)
			}
		} else {
			actReviewer = actReviewerSQL(l.user, "PaperReview")
		}
	}
	existsReview := func(extra string) string {
		return "exists (select * from PaperReview where PaperReview.paperId=Paper.paperId and " + actReviewer + extra + ")"
	}

	uid := l.user.ContactID()
	switch l.Limit {
	case "all", "viewable", "s", "act", "reviewable":
	case "a":
		ff = append(ff, authorViewSQL(qi, l.user))
	case "ar":
		var r string
		if actReviewer == "false" {
			r = "false"
		} else if qi.Depth == 0 {
			r = "MyReviews.reviewType is not null"
		} else {
			r = existsReview("")
		}
		ff = append(ff, "("+authorViewSQL(qi, l.user)+" or (Paper.timeWithdrawn<=0 and "+r+"))")
	case "r":
		// at depth 0 the MyReviews join suffices
		if actReviewer == "false" {
			ff = append(ff, "false")
		} else if qi.Depth > 0 {
			ff = append(ff, existsReview(""))
		}
	case "rout":
		if actReviewer == "false" {
			ff = append(ff, "false")
		} else if qi.Depth == 0 {
			ff = append(ff, "MyReviews.reviewNeedsSubmit!=0")
		} else {
			ff = append(ff, existsReview(" and PaperReview.reviewNeedsSubmit!=0"))
		}
	case "acc":
		ff = append(ff, "Paper.outcome>0")
	case "undecided":
		if l.user.AllowAdministerAll() {
			ff = append(ff, "Paper.outcome=0")
		}
	case "unsub":
		ff = append(ff, "Paper.timeSubmitted<=0", "Paper.timeWithdrawn<=0")
	case "lead":
		ff = append(ff, fmt.Sprintf("Paper.leadContactId=%d", uid))
	case "alladmin", "actadmin", "admin":
		if l.Limit != "admin" && l.user.IsPrivChair() {
			break
		}
		if l.user.IsTrackManager() {
			ff = append(ff, fmt.Sprintf("(Paper.managerContactId=%d or Paper.managerContactId=0)", uid))
		} else {
			ff = append(ff, fmt.Sprintf("Paper.managerContactId=%d", uid))
		}
	case "req":
		ff = append(ff, fmt.Sprintf("exists (select * from PaperReview where PaperReview.paperId=Paper.paperId and PaperReview.reviewType=%d and PaperReview.requestedBy=%d)",
			record.ReviewExternal, uid))
	default:
		ff = append(ff, "false")
	}

	if len(ff) == 0 {
		return "true"
	}
	return AndJoinSQL(ff)
}

func (l *Limit) test(p *record.Paper) bool {
	u := l.user
	if (l.Flags&FlagSubmitted != 0 && p.TimeSubmitted <= 0) ||
		(l.Flags&FlagActive != 0 && p.TimeWithdrawn > 0) {
		return false
	}
	switch l.Limit {
	case "all", "viewable", "s", "act":
		return true
	case "a":
		return u.HasAuthorView(p)
	case "ar":
		return u.HasAuthorView(p) || (p.TimeWithdrawn <= 0 && u.HasReviewer(p))
	case "r":
		return u.HasReviewer(p)
	case "rout":
		for _, r := range p.ReviewsBy(u.ContactID(), u.ReviewTokens()) {
			if r.ReviewNeedsSubmit {
				return true
			}
		}
		return false
	case "acc":
		return p.Outcome > 0 && u.CanViewDecision(p)
	case "undecided":
		return p.Outcome == 0 || !u.CanViewDecision(p)
	case "reviewable":
		return l.reviewer.CanAcceptReviewAssignment(p) &&
			(sameUser(l.reviewer, u) || u.AllowAdminister(p))
	case "unsub":
		return p.TimeSubmitted <= 0 && p.TimeWithdrawn <= 0
	case "lead":
		return p.LeadContactID == u.ContactID()
	case "admin":
		return u.IsPrimaryAdministrator(p)
	case "alladmin", "actadmin":
		return u.AllowAdminister(p)
	case "req":
		for _, r := range p.Reviews {
			if r.ReviewType == record.ReviewExternal && r.RequestedBy == u.ContactID() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (l *Limit) simpleSearch(qf *QuickFilter) bool {
	u := l.user
	if u.HasTrackViewRestrictions() {
		return false
	}
	conf := u.Conf()
	if !u.IsPrivChair() && conf.HasTracks() && !oneOf(l.Limit, "a", "r", "s") {
		return false
	}
	if l.Flags&FlagSubmitted != 0 {
		qf.Finalized = true
	} else if l.Flags&FlagActive != 0 {
		qf.Active = true
	}
	switch l.Limit {
	case "all", "viewable":
		return u.IsPrivChair()
	case "s":
		assertf(qf.Finalized, "in:s without submitted filter")
		return u.IsPC()
	case "act":
		assertf(qf.Active, "in:act without active filter")
		return u.IsPrivChair() || (u.IsPC() && conf.TimePCViewActiveSubmissions())
	case "reviewable":
		assertf(qf.Active || qf.Finalized, "in:reviewable without state filter")
		if (!sameUser(u, l.reviewer) && !u.AllowAdministerAll()) || conf.HasTracks() {
			return false
		}
		if !l.reviewer.IsPC() {
			qf.MyReviews = true
		}
		return true
	case "a":
		// Exact only while authorViewSQL is a single conflict-type test.
		qf.Author = true
		return true
	case "ar":
		return false
	case "r":
		assertf(qf.Active || qf.Finalized, "in:r without state filter")
		qf.MyReviews = true
		return true
	case "rout":
		assertf(qf.Active || qf.Finalized, "in:rout without state filter")
		qf.MyOutstandingReviews = true
		return true
	case "acc":
		assertf(qf.Finalized, "in:acc without submitted filter")
		qf.DecYes = true
		return u.CanViewAllDecisions()
	case "undecided":
		assertf(qf.Finalized || qf.Active, "in:undecided without state filter")
		qf.DecNone = true
		return u.CanViewAllDecisions()
	case "unsub":
		assertf(qf.Active, "in:unsub without active filter")
		qf.Unsub = true
		return u.AllowAdministerAll()
	case "lead":
		qf.MyLead = true
		return true
	case "alladmin", "actadmin":
		return u.AllowAdministerAll()
	case "admin":
		return false
	case "req":
		assertf(qf.Active || qf.Finalized, "in:req without state filter")
		qf.MyReviewRequests = true
		return true
	default:
		return false
	}
}

func (l *Limit) aboutReviews() About {
	if oneOf(l.Limit, "viewable", "reviewable", "ar", "r", "rout", "req") {
		return AboutMany
	}
	return AboutNo
}
