// Package storage executes compiled search predicates against a SQL
// database holding submissions, reviews and conflicts.
package storage

import (
	"context"
	"database/sql"

	"github.com/papersearch/papersearch/papersearch/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	CreateSchema(ctx context.Context, db *sql.DB) error
	OpenSchema(ctx context.Context, db *sql.DB) error

	SQL() SQL
}

// SQL holds prepared SQL templates for common operations
type SQL struct {
	GetMeta string
	SetMeta string

	UpsertPaper     string
	DeleteReviews   string
	DeleteConflicts string
	InsertReview    string
	InsertConflict  string
}

// Meta keys written by CreateSchema.
const (
	MetaMagic   = "papersearch_magic"
	MetaVersion = "papersearch_version"

	Magic   = "papersearch"
	Version = "1"
)
