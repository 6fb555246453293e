package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/papersearch/papersearch/papersearch"
	"github.com/papersearch/papersearch/papersearch/contact"
	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/storage/sqlite"
)

func TestRead(t *testing.T) {
	d, err := Read(filepath.Join("testdata", "conference.yaml"))
	require.NoError(t, err)

	require.NotNil(t, d.Conference)
	assert.True(t, d.Conference.AuthorsSeeDecisions)
	require.Len(t, d.Conference.DecisionList, 3)
	require.Len(t, d.Users, 4)
	require.Len(t, d.Papers, 4)

	p := d.Papers[1]
	assert.Equal(t, "Émile Borel", p.AuthorInformation)
	assert.Equal(t, 3, p.ManagerContactID)
	require.Len(t, p.Reviews, 2)
	assert.Equal(t, record.Review{ReviewID: 3, ContactID: 9, ReviewType: record.ReviewExternal,
		ReviewNeedsSubmit: true, RequestedBy: 2, ReviewToken: 77}, p.Reviews[1])
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, papersearch.IsKind(err, papersearch.ErrIO))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "users: []\npapers: []\nrounds: [R1]\n"},
		{"unknown paper key", "papers:\n  - id: 1\n    tags: [x]\n"},
		{"bad yaml", "papers: [\n"},
		{"zero paper id", "papers:\n  - title: x\n"},
		{"duplicate paper", "papers:\n  - id: 1\n  - id: 1\n"},
		{"duplicate review", "papers:\n  - id: 1\n    reviews:\n      - id: 5\n      - id: 5\n"},
		{"zero user id", "users:\n  - email: a@b\n"},
		{"duplicate user", "users:\n  - id: 1\n  - id: 1\n"},
		{"duplicate email", "users:\n  - id: 1\n    email: A@b\n  - id: 2\n    email: a@B\n"},
		{"unknown role", "users:\n  - id: 1\n    roles: [admin]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, papersearch.IsKind(err, papersearch.ErrFixture), err.Error())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Papers)
}

func TestLookup(t *testing.T) {
	d, err := Read(filepath.Join("testdata", "conference.yaml"))
	require.NoError(t, err)
	conf := &contact.Conf{}

	chair, err := d.Lookup(conf, "CHAIR@example.org")
	require.NoError(t, err)
	assert.True(t, chair.IsPrivChair())
	assert.Equal(t, 1, chair.ID)

	pc3, err := d.Lookup(conf, "3")
	require.NoError(t, err)
	assert.True(t, pc3.IsPC())
	assert.True(t, pc3.TrackManager)
	assert.Equal(t, []int{77}, pc3.Tokens)

	author, err := d.Lookup(conf, "author@example.org")
	require.NoError(t, err)
	assert.False(t, author.IsPC())

	anon, err := d.Lookup(conf, "anonymous")
	require.NoError(t, err)
	assert.Equal(t, 0, anon.ID)

	_, err = d.Lookup(conf, "nobody@example.org")
	require.Error(t, err)
	assert.True(t, papersearch.IsKind(err, papersearch.ErrNotFound))
}

func TestLoad(t *testing.T) {
	d, err := Read(filepath.Join("testdata", "conference.yaml"))
	require.NoError(t, err)

	ctx := context.Background()
	st, err := storage.Create(ctx, sqlite.New(filepath.Join(t.TempDir(), "load.db")))
	require.NoError(t, err)
	defer st.Close()

	n, err := d.Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	ps, err := st.Papers(ctx, []int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, d.Papers, ps)
}

type failingWriter struct{}

func (failingWriter) PutPapers(context.Context, []*record.Paper) (int, error) {
	return 0, errors.New("disk full")
}

func TestLoadError(t *testing.T) {
	d, err := Read(filepath.Join("testdata", "conference.yaml"))
	require.NoError(t, err)
	n, err := d.Load(context.Background(), failingWriter{})
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, papersearch.IsKind(err, papersearch.ErrSQL))
}
