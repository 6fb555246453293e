package term

import (
	"strings"

	"github.com/papersearch/papersearch/papersearch/record"
)

// AndJoinSQL conjoins SQL predicates, folding the constants "true" and
// "false". An empty list is true.
func AndJoinSQL(ff []string) string {
	var keep []string
	for _, f := range ff {
		switch f {
		case "false":
			return "false"
		case "true":
		default:
			keep = append(keep, f)
		}
	}
	switch len(keep) {
	case 0:
		return "true"
	case 1:
		return keep[0]
	default:
		return "(" + strings.Join(keep, " and ") + ")"
	}
}

// OrJoinSQL disjoins SQL predicates. An empty list yields def; any "true"
// yields "true".
func OrJoinSQL(ff []string, def string) string {
	if len(ff) == 0 {
		return def
	}
	for _, f := range ff {
		if f == "true" {
			return "true"
		}
	}
	return "(" + strings.Join(ff, " or ") + ")"
}

func orSQLExprs(children []Term, qi *QueryInfo) []string {
	qi.Depth++
	ff := make([]string, 0, len(children))
	for _, c := range children {
		ff = append(ff, SQLExpr(c, qi))
	}
	qi.Depth--
	return ff
}

// SQLExpr compiles t into a boolean SQL expression over the Paper table,
// registering needed joins and columns in qi.
func SQLExpr(t Term, qi *QueryInfo) string {
	switch t := t.(type) {
	case *True:
		return "true"
	case *False:
		return "false"
	case *Not:
		qi.Depth++
		ff := SQLExpr(t.Children[0], qi)
		qi.Depth--
		if !IsSQLPrecise(t.Children[0]) {
			return "true"
		}
		switch ff {
		case "false":
			return "true"
		case "true":
			return "false"
		default:
			return "not coalesce(" + ff + ",false)"
		}
	case *And:
		ff := make([]string, 0, len(t.Children))
		for _, c := range t.Children {
			ff = append(ff, SQLExpr(c, qi))
		}
		return AndJoinSQL(ff)
	case *Or:
		return OrJoinSQL(orSQLExprs(t.Children, qi), "false")
	case *Xor:
		ff := orSQLExprs(t.Children, qi)
		if len(ff) == 0 {
			return "false"
		}
		if !IsSQLPrecise(t) {
			return OrJoinSQL(ff, "false")
		}
		x := "coalesce(" + ff[0] + ",false)"
		for _, f := range ff[1:] {
			x = "(" + x + "<>coalesce(" + f + ",false))"
		}
		return x
	case *Then:
		qi.Depth++
		ff := make([]string, 0, len(t.Children))
		for _, c := range t.Children {
			ff = append(ff, SQLExpr(c, qi))
		}
		qi.Depth--
		return OrJoinSQL(ff[:t.NThen], "true")
	case *PaperID:
		return t.Set.SQLPredicate("Paper.paperId")
	case *Limit:
		return t.sqlExpr(qi)
	case *TextMatch:
		return t.sqlExpr(qi)
	case *Decision:
		return t.sqlExpr()
	default:
		assertf(false, "sql for unknown term %T", t)
		return "false"
	}
}

// IsSQLPrecise reports whether SQLExpr(t) selects exactly the rows for
// which Test(t) holds.
func IsSQLPrecise(t Term) bool {
	switch t := t.(type) {
	case *True, *False, *PaperID:
		return true
	case *Limit:
		return t.isSQLPrecise()
	case *TextMatch:
		return t.isSQLPrecise()
	case *Decision:
		return t.user.CanViewAllDecisions()
	default:
		for _, c := range Children(t) {
			if !IsSQLPrecise(c) {
				return false
			}
		}
		return true
	}
}

// Test evaluates t against p. rv is the review in whose context the test
// runs, or nil.
func Test(t Term, p *record.Paper, rv *record.Review) bool {
	switch t := t.(type) {
	case *True:
		return true
	case *False:
		return false
	case *Not:
		return !Test(t.Children[0], p, rv)
	case *And:
		for _, c := range t.Children {
			if !Test(c, p, rv) {
				return false
			}
		}
		return true
	case *Or:
		for _, c := range t.Children {
			if Test(c, p, rv) {
				return true
			}
		}
		return false
	case *Xor:
		x := false
		for _, c := range t.Children {
			if Test(c, p, rv) {
				x = !x
			}
		}
		return x
	case *Then:
		for i, c := range t.Children[:t.NThen] {
			if Test(c, p, rv) {
				t.lastGroup = i
				return true
			}
		}
		return false
	case *PaperID:
		return t.Set.Contains(p.PaperID)
	case *Limit:
		return t.test(p)
	case *TextMatch:
		return t.test(p)
	case *Decision:
		return t.test(p)
	default:
		assertf(false, "test of unknown term %T", t)
		return false
	}
}
