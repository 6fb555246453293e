package term

import (
	"fmt"
	"slices"
)

// QueryInfo collects what a compiled predicate needs from the enclosing
// query. Depth counts the Not, Or, Xor and Then boundaries above the term
// being compiled; tables may only be shared through joins at depth 0.
type QueryInfo struct {
	Depth int
	User  User

	tables          []TableJoin
	columns         []Column
	reviewerColumns bool
}

// TableJoin is an extra table joined to Paper.
type TableJoin struct {
	Alias string
	Join  string // "join" or "left join"
	Table string
	On    string
}

// Column is an extra selected column.
type Column struct {
	Name string
	Expr string
}

// NewQueryInfo returns an empty context for user's search.
func NewQueryInfo(user User) *QueryInfo {
	return &QueryInfo{User: user}
}

// AddTable registers a join under alias. A repeated alias keeps its first
// definition, except that an inner join upgrades an earlier left join.
func (qi *QueryInfo) AddTable(alias, join, table, on string) {
	for i := range qi.tables {
		if qi.tables[i].Alias == alias {
			if join == "join" {
				qi.tables[i].Join = "join"
			}
			return
		}
	}
	qi.tables = append(qi.tables, TableJoin{Alias: alias, Join: join, Table: table, On: on})
}

// Tables returns the registered joins in registration order.
func (qi *QueryInfo) Tables() []TableJoin {
	return slices.Clone(qi.tables)
}

// AddColumn registers an extra column; the first registration of a name wins.
func (qi *QueryInfo) AddColumn(name, expr string) {
	for _, c := range qi.columns {
		if c.Name == name {
			return
		}
	}
	qi.columns = append(qi.columns, Column{Name: name, Expr: expr})
}

func (qi *QueryInfo) Columns() []Column {
	return slices.Clone(qi.columns)
}

// AddReviewerColumns records that review rows must be loaded with results.
func (qi *QueryInfo) AddReviewerColumns() {
	qi.reviewerColumns = true
}

func (qi *QueryInfo) NeedsReviewerColumns() bool {
	return qi.reviewerColumns
}

// ConflictTable joins u's conflict rows and returns the alias to use.
func (qi *QueryInfo) ConflictTable(u User) string {
	alias := "MyConflicts"
	if !sameUser(u, qi.User) {
		alias = fmt.Sprintf("Conflicts_%d", u.ContactID())
	}
	qi.AddTable(alias, "left join", "PaperConflict",
		fmt.Sprintf("%s.paperId=Paper.paperId and %s.contactId=%d", alias, alias, u.ContactID()))
	return alias
}
