// Package papersearch runs paper searches: it parses a query, restricts it
// to a limit, compiles it to SQL, and filters and orders the candidates the
// database returns.
package papersearch

import (
	"context"
	"log/slog"
	"slices"
	"sort"

	"github.com/papersearch/papersearch/papersearch/query"
	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/term"
	"github.com/papersearch/papersearch/papersearch/textmatch"
)

// Store is the database a search runs against.
type Store interface {
	Candidates(ctx context.Context, qi *term.QueryInfo, where string) ([]int, error)
	QuickIDs(ctx context.Context, qf *term.QuickFilter, u term.User) ([]int, error)
	Papers(ctx context.Context, ids []int) ([]*record.Paper, error)
}

// Options configure a search.
type Options struct {
	// Limit names the default limit. An in: keyword at the top level of the
	// query replaces it. Empty means s for PC members and ar otherwise.
	Limit string
	// Reviewer is the target of reviewer-relative limits; defaults to the
	// searching user.
	Reviewer term.User
}

// Search is a parsed, limited search for one user. It is not safe for
// concurrent use.
type Search struct {
	user     term.User
	reviewer term.User
	q        string

	parsed   term.Term
	limit    *term.Limit
	full     term.Term
	warnings []query.Warning
	fields   map[string][]*textmatch.Matcher

	log *slog.Logger
}

// New parses q for user.
func New(user term.User, q string, opts Options) (*Search, error) {
	reviewer := opts.Reviewer
	if reviewer == nil {
		reviewer = user
	}
	parsed, warnings, err := query.Parse(q, query.Env{User: user, Reviewer: reviewer})
	if err != nil {
		return nil, QueryParseError(q, err)
	}

	s := &Search{
		user:     user,
		reviewer: reviewer,
		q:        q,
		parsed:   parsed,
		warnings: warnings,
		fields:   make(map[string][]*textmatch.Matcher),
		log:      slog.Default().With("component", "search", "user", user.ContactID()),
	}

	limit := opts.Limit
	if limit == "" {
		limit = "ar"
		if user.IsPC() {
			limit = "s"
		}
	}
	cfg := &configurator{s: s, limit: limit}
	term.Configure(parsed, true, cfg)

	s.limit = term.NewLimit(user, reviewer, cfg.limit, true)
	s.full = term.Combine(term.OpAnd, s.limit, parsed)
	for _, w := range warnings {
		s.log.Debug("query warning", "span", w.Span, "message", w.Message)
	}
	return s, nil
}

type configurator struct {
	s     *Search
	limit string
}

func (c *configurator) ApplyLimit(l *term.Limit) {
	c.limit = l.Named
}

func (c *configurator) AddFieldHighlighter(code string, m *textmatch.Matcher) {
	c.s.fields[code] = append(c.s.fields[code], m)
}

// Query returns the query text.
func (s *Search) Query() string { return s.q }

// Term returns the parsed query without the limit.
func (s *Search) Term() term.Term { return s.parsed }

// Limit returns the limit applied to the query.
func (s *Search) Limit() *term.Limit { return s.limit }

// FullTerm returns the limit and query combined.
func (s *Search) FullTerm() term.Term { return s.full }

// Warnings returns problems found while parsing.
func (s *Search) Warnings() []query.Warning { return slices.Clone(s.warnings) }

// FieldHighlighters returns the text matchers that apply to field code in
// matching submissions.
func (s *Search) FieldHighlighters(code string) []*textmatch.Matcher {
	return s.fields[code]
}

// View returns the display directives of the query.
func (s *Search) View() []term.ViewAnno {
	return slices.Clone(term.FloatOf(s.parsed).View)
}

// Legend returns the query's legend, if any.
func (s *Search) Legend() string {
	return term.FloatOf(s.parsed).Legend
}

// IsSQLPrecise reports whether the compiled SQL selects exactly the result.
func (s *Search) IsSQLPrecise() bool {
	return term.IsSQLPrecise(s.full)
}

// SQL returns the candidate statement and the query info it was compiled
// with.
func (s *Search) SQL() (string, *term.QueryInfo) {
	qi := term.NewQueryInfo(s.user)
	where := term.SQLExpr(s.full, qi)
	return storage.CandidateSQL(qi, where), qi
}

// quickFilter reports whether the search reduces to its limit and, if so,
// fills qf.
func (s *Search) quickFilter(qf *term.QuickFilter) bool {
	if _, ok := s.parsed.(*term.True); !ok {
		return false
	}
	return term.SimpleSearch(s.limit, qf)
}

// QuickFilter returns the flag filter Run uses instead of the compiled
// predicate, if the search reduces to its limit.
func (s *Search) QuickFilter() (term.QuickFilter, bool) {
	var qf term.QuickFilter
	ok := s.quickFilter(&qf)
	return qf, ok
}

// Result is the outcome of a search.
type Result struct {
	// IDs are the matching submissions in display order.
	IDs []int
	// Groups maps each ID to its THEN bucket; nil without THEN.
	Groups map[int]int
	// Highlights maps IDs to their highlight colors.
	Highlights map[int][]string
	// FastPath is set when the limit's quick filter replaced the SQL
	// predicate.
	FastPath bool
	// Filtered is set when candidates were checked in memory.
	Filtered bool
}

// Run executes the search against st.
func (s *Search) Run(ctx context.Context, st Store) (*Result, error) {
	res := &Result{}

	var ids []int
	var err error
	var qf term.QuickFilter
	if s.quickFilter(&qf) {
		res.FastPath = true
		s.log.Debug("quick filter", "limit", s.limit.Limit, "filter", qf)
		ids, err = st.QuickIDs(ctx, &qf, s.user)
	} else {
		qi := term.NewQueryInfo(s.user)
		where := term.SQLExpr(s.full, qi)
		s.log.Debug("compiled", "where", where, "precise", term.IsSQLPrecise(s.full))
		ids, err = st.Candidates(ctx, qi, where)
	}
	if err != nil {
		return nil, Wrap(ErrSQL, "select candidates", err)
	}

	papers, err := st.Papers(ctx, ids)
	if err != nil {
		return nil, Wrap(ErrSQL, "load candidates", err)
	}

	then, _ := s.parsed.(*term.Then)
	res.Filtered = !res.FastPath && (!term.IsSQLPrecise(s.full) || then != nil)
	if then != nil {
		res.Groups = make(map[int]int)
	}

	var kept []*record.Paper
	for _, p := range papers {
		if !s.user.CanViewPaper(p) {
			continue
		}
		if res.Filtered && !term.Test(s.full, p, nil) {
			continue
		}
		if then != nil {
			res.Groups[p.PaperID] = then.LastGroup()
			if then.HasHighlights() {
				if colors := then.LastHighlights(p); len(colors) > 0 {
					if res.Highlights == nil {
						res.Highlights = make(map[int][]string)
					}
					res.Highlights[p.PaperID] = colors
				}
			}
		}
		kept = append(kept, p)
	}
	s.log.Debug("filtered", "candidates", len(papers), "results", len(kept), "memory", res.Filtered)

	res.IDs = make([]int, len(kept))
	for i, p := range kept {
		res.IDs[i] = p.PaperID
	}
	s.order(res)
	return res, nil
}

// order sorts res.IDs by explicit paper-number order, then by THEN bucket,
// then by ID.
func (s *Search) order(res *Result) {
	if rank := term.RankOrder(s.parsed, true); rank != nil {
		sort.SliceStable(res.IDs, func(i, j int) bool {
			ri, _ := rank.IndexOf(res.IDs[i])
			rj, _ := rank.IndexOf(res.IDs[j])
			return ri < rj
		})
		return
	}
	sort.SliceStable(res.IDs, func(i, j int) bool {
		a, b := res.IDs[i], res.IDs[j]
		if res.Groups != nil && res.Groups[a] != res.Groups[b] {
			return res.Groups[a] < res.Groups[b]
		}
		return a < b
	})
}
