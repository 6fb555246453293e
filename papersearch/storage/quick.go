package storage

import (
	"strconv"
	"strings"

	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/storage/sqlbuilder"
	"github.com/papersearch/papersearch/papersearch/term"
)

// QuickWhere returns the where clause selecting qf's submissions for u,
// binding values through b.
func QuickWhere(b *sqlbuilder.Builder, qf *term.QuickFilter, u term.User) string {
	var ff []string
	if qf.Finalized {
		ff = append(ff, "Paper.timeSubmitted>0")
	}
	if qf.Active {
		ff = append(ff, "Paper.timeWithdrawn<=0")
	}
	if qf.Unsub {
		ff = append(ff, "Paper.timeSubmitted<=0", "Paper.timeWithdrawn<=0")
	}
	if qf.DecYes {
		ff = append(ff, "Paper.outcome>0")
	}
	if qf.DecNone {
		ff = append(ff, "Paper.outcome=0")
	}
	if qf.MyLead {
		ff = append(ff, "Paper.leadContactId="+b.Arg(u.ContactID()))
	}
	if qf.Author {
		ff = append(ff, "exists (select * from PaperConflict where PaperConflict.paperId=Paper.paperId and PaperConflict.contactId="+
			b.Arg(u.ContactID())+" and PaperConflict.conflictType>="+strconv.Itoa(record.ConflictAuthor)+")")
	}
	if qf.MyReviews || qf.MyOutstandingReviews {
		mine := myReviewSQL(b, u)
		if qf.MyOutstandingReviews {
			mine += " and PaperReview.reviewNeedsSubmit!=0"
		}
		ff = append(ff, "exists (select * from PaperReview where PaperReview.paperId=Paper.paperId and "+mine+")")
	}
	if qf.MyReviewRequests {
		ff = append(ff, "exists (select * from PaperReview where PaperReview.paperId=Paper.paperId and PaperReview.reviewType="+
			strconv.Itoa(record.ReviewExternal)+" and PaperReview.requestedBy="+b.Arg(u.ContactID())+")")
	}
	if len(ff) == 0 {
		return "true"
	}
	return strings.Join(ff, " and ")
}

func myReviewSQL(b *sqlbuilder.Builder, u term.User) string {
	var ff []string
	if id := u.ContactID(); id > 0 {
		ff = append(ff, "PaperReview.contactId="+b.Arg(id))
	}
	if toks := u.ReviewTokens(); len(toks) > 0 {
		ff = append(ff, "PaperReview.reviewToken in ("+b.Ints(toks)+")")
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
