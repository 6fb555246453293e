package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/papersearch/papersearch/papersearch/storage"
)

func TestCreateThenOpenSchema(t *testing.T) {
	ctx := context.Background()
	a := New(filepath.Join(t.TempDir(), "papers.db"))
	require.Equal(t, storage.BackendSQLite, a.Backend())

	db, err := a.Connect(ctx)
	require.NoError(t, err)
	defer db.Close()

	require.Error(t, a.OpenSchema(ctx, db), "empty database has no meta table")
	require.NoError(t, a.CreateSchema(ctx, db))
	require.NoError(t, a.CreateSchema(ctx, db), "schema creation is idempotent")
	require.NoError(t, a.OpenSchema(ctx, db))

	_, err = db.ExecContext(ctx, SQLTemplates.SetMeta, storage.MetaMagic, "other")
	require.NoError(t, err)
	require.Error(t, a.OpenSchema(ctx, db))
}
