package storage_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/papersearch/papersearch/papersearch/contact"
	"github.com/papersearch/papersearch/papersearch/pidset"
	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/storage/sqlite"
	"github.com/papersearch/papersearch/papersearch/term"
)

// canonicalLimits lists every limit name after aliasing.
var canonicalLimits = []string{
	"a", "acc", "act", "actadmin", "admin", "all", "alladmin", "ar", "lead", "none",
	"r", "req", "reviewable", "rout", "s", "undecided", "unsub", "viewable",
}

func dataset() []*record.Paper {
	return []*record.Paper{
		{PaperID: 1, Title: "Scalable Caches", TimeSubmitted: 100, Outcome: 1, LeadContactID: 2,
			Reviews:   []record.Review{{ReviewID: 1, ContactID: 2, ReviewType: record.ReviewPC, ReviewNeedsSubmit: true}},
			Conflicts: []record.Conflict{{ContactID: 4, ConflictType: record.ConflictAuthor}}},
		{PaperID: 2, Title: "Flash Storage", TimeSubmitted: 100, Outcome: -1, ManagerContactID: 2,
			Reviews: []record.Review{
				{ReviewID: 2, ContactID: 3, ReviewType: record.ReviewPrimary},
				{ReviewID: 3, ContactID: 9, ReviewType: record.ReviewExternal, ReviewNeedsSubmit: true, RequestedBy: 2, ReviewToken: 77},
			}},
		{PaperID: 3, Title: "Draft", Reviews: []record.Review{{ReviewID: 4, ContactID: 2, ReviewType: record.ReviewSecondary}},
			Conflicts: []record.Conflict{{ContactID: 2, ConflictType: record.ConflictAuthor}}},
		{PaperID: 4, Title: "Withdrawn", TimeSubmitted: 100, TimeWithdrawn: 200,
			Reviews:   []record.Review{{ReviewID: 5, ContactID: 2, ReviewType: record.ReviewPC, ReviewNeedsSubmit: true}},
			Conflicts: []record.Conflict{{ContactID: 4, ConflictType: record.ConflictAuthor + 32}}},
		{PaperID: 5, Title: "Undecided", TimeSubmitted: 100,
			Reviews:   []record.Review{{ReviewID: 6, ReviewType: record.ReviewExternal, ReviewNeedsSubmit: true, RequestedBy: 3, ReviewToken: 88}},
			Conflicts: []record.Conflict{{ContactID: 3, ConflictType: record.ConflictPC}}},
		{PaperID: 6, Title: "Poster", TimeSubmitted: 100, Outcome: 2, LeadContactID: 3, ManagerContactID: 1},
	}
}

func users(conf *contact.Conf) []*contact.Contact {
	pc3 := contact.New(conf, 3, "pc3@example.org", contact.RolePC)
	pc3.Tokens = []int{77}
	anon := contact.New(conf, 0, "", 0)
	anon.Tokens = []int{88}
	manager := contact.New(conf, 7, "tm@example.org", contact.RolePC)
	manager.TrackManager = true
	return []*contact.Contact{
		contact.New(conf, 1, "chair@example.org", contact.RoleChair),
		contact.New(conf, 2, "pc2@example.org", contact.RolePC),
		pc3,
		contact.New(conf, 4, "author@example.org", 0),
		anon,
		manager,
	}
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()
	st, err := storage.Create(ctx, sqlite.New(filepath.Join(t.TempDir(), "papers.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	for _, p := range dataset() {
		require.NoError(t, st.PutPaper(ctx, p))
	}
	return st
}

func loadAll(t *testing.T, st *storage.Store) []*record.Paper {
	t.Helper()
	ps, err := st.Papers(context.Background(), []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	return ps
}

func testIDs(x term.Term, ps []*record.Paper) []int {
	var ids []int
	for _, p := range ps {
		if term.Test(x, p, nil) {
			ids = append(ids, p.PaperID)
		}
	}
	return ids
}

func candidates(t *testing.T, st *storage.Store, x term.Term, u term.User) []int {
	t.Helper()
	qi := term.NewQueryInfo(u)
	where := term.SQLExpr(x, qi)
	ids, err := st.Candidates(context.Background(), qi, where)
	require.NoError(t, err, storage.CandidateSQL(qi, where))
	return ids
}

func TestPapersRoundTrip(t *testing.T) {
	st := newStore(t)
	got := loadAll(t, st)
	if diff := cmp.Diff(dataset(), got); diff != "" {
		t.Fatalf("papers mismatch (-want +got):\n%s", diff)
	}

	ps, err := st.Papers(context.Background(), []int{6, 99, 2})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, 2, ps[0].PaperID)
	assert.Equal(t, 6, ps[1].PaperID)

	ps, err = st.Papers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestPapersManyIDs(t *testing.T) {
	st := newStore(t)
	ids := make([]int, 0, 40000)
	for id := 40000; id > 0; id-- {
		ids = append(ids, id)
	}
	ids = append(ids, 2, 6)

	ps, err := st.Papers(context.Background(), ids)
	require.NoError(t, err)
	got := make([]int, len(ps))
	for i, p := range ps {
		got[i] = p.PaperID
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
	require.Len(t, ps[1].Reviews, 2)
	require.Len(t, ps[0].Conflicts, 1)
}

func TestPutPaperReplaces(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	p := dataset()[0]
	p.Title = "Renamed"
	p.Reviews = nil
	require.NoError(t, st.PutPaper(ctx, p))

	ps, err := st.Papers(ctx, []int{1})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Renamed", ps[0].Title)
	assert.Empty(t, ps[0].Reviews)
	assert.Len(t, ps[0].Conflicts, 1)
}

func TestPutPapersAtomic(t *testing.T) {
	ctx := context.Background()
	st, err := storage.Create(ctx, sqlite.New(filepath.Join(t.TempDir(), "batch.db")))
	require.NoError(t, err)
	defer st.Close()

	bad := &record.Paper{PaperID: 8, Reviews: []record.Review{{ReviewID: 1}, {ReviewID: 1}}}
	_, err = st.PutPapers(ctx, []*record.Paper{{PaperID: 7, Title: "Fine"}, bad})
	require.Error(t, err)
	ps, err := st.Papers(ctx, []int{7, 8})
	require.NoError(t, err)
	assert.Empty(t, ps)

	n, err := st.PutPapers(ctx, dataset())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Len(t, loadAll(t, st), 6)
}

func TestOpenExisting(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "papers.db")
	st, err := storage.Create(ctx, sqlite.New(path))
	require.NoError(t, err)
	require.NoError(t, st.PutPaper(ctx, dataset()[0]))
	require.NoError(t, st.Close())

	st, err = storage.Open(ctx, sqlite.New(path))
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, storage.BackendSQLite, st.Backend())
	ps, err := st.Papers(ctx, []int{1})
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestOpenRejectsEmptyDatabase(t *testing.T) {
	_, err := storage.Open(context.Background(), sqlite.New(filepath.Join(t.TempDir(), "empty.db")))
	assert.Error(t, err)
}

// TestLimitSQLParity checks every limit, for every user, at the top level
// and nested: precise SQL selects exactly what Test accepts and imprecise
// SQL never loses a match.
func TestLimitSQLParity(t *testing.T) {
	for _, activeView := range []bool{false, true} {
		conf := &contact.Conf{PCViewActive: activeView}
		st := newStore(t)
		ps := loadAll(t, st)

		for _, u := range users(conf) {
			for _, name := range canonicalLimits {
				l := term.NewLimit(u, u, name, false)
				shapes := map[string]term.Term{
					"top":    l,
					"or":     term.Combine(term.OpOr, l, term.NewLimit(u, u, "none", false)),
					"not":    term.Negate(l),
					"and-pn": term.Combine(term.OpAnd, l, term.NewPaperID(pidset.Of(1, 2, 3, 4))),
				}
				for shape, x := range shapes {
					want := testIDs(x, ps)
					got := candidates(t, st, x, u)
					if term.IsSQLPrecise(x) {
						assert.Equal(t, want, got, "active=%v user=%d limit=%s shape=%s", activeView, u.ID, name, shape)
					} else {
						for _, id := range want {
							assert.True(t, slices.Contains(got, id), "active=%v user=%d limit=%s shape=%s lost %d",
								activeView, u.ID, name, shape, id)
						}
					}
				}
			}
		}
	}
}

func TestDecisionSQLParity(t *testing.T) {
	confs := []*contact.Conf{
		{},
		{PCSeeAllDecisions: true},
		{AuthorsSeeDecisions: true},
	}
	for ci, conf := range confs {
		st := newStore(t)
		ps := loadAll(t, st)

		for _, u := range users(conf) {
			for _, word := range []string{"yes", "no", "any", "none", "poster", "rejected"} {
				d, ok := term.NewDecision(u, word)
				if !ok {
					continue
				}
				shapes := map[string]term.Term{
					"top":     d,
					"or":      term.Combine(term.OpOr, d, term.NewPaperID(pidset.Of(3))),
					"not":     term.Negate(d),
					"and-lim": term.Combine(term.OpAnd, term.NewLimit(u, u, "s", true), d),
				}
				for shape, x := range shapes {
					want := testIDs(x, ps)
					got := candidates(t, st, x, u)
					if term.IsSQLPrecise(x) {
						assert.Equal(t, want, got, "conf=%d user=%d dec=%s shape=%s", ci, u.ID, word, shape)
						continue
					}
					for _, id := range want {
						assert.True(t, slices.Contains(got, id), "conf=%d user=%d dec=%s shape=%s lost %d",
							ci, u.ID, word, shape, id)
					}
				}
			}
		}
	}
}

func TestQuickIDsMatchSimpleSearch(t *testing.T) {
	ctx := context.Background()
	for _, activeView := range []bool{false, true} {
		conf := &contact.Conf{PCViewActive: activeView}
		st := newStore(t)
		ps := loadAll(t, st)

		simple := 0
		for _, u := range users(conf) {
			for _, name := range canonicalLimits {
				l := term.NewLimit(u, u, name, false)
				var qf term.QuickFilter
				if !term.SimpleSearch(l, &qf) {
					continue
				}
				simple++
				got, err := st.QuickIDs(ctx, &qf, u)
				require.NoError(t, err)
				assert.Equal(t, testIDs(l, ps), got, "active=%v user=%d limit=%s filter=%+v", activeView, u.ID, name, qf)
			}
		}
		assert.Greater(t, simple, 20)
	}
}
