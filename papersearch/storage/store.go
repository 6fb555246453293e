package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/papersearch/papersearch/papersearch/record"
	"github.com/papersearch/papersearch/papersearch/storage/sqlbuilder"
	"github.com/papersearch/papersearch/papersearch/term"
)

// Store is an open submission database.
type Store struct {
	adapter Adapter
	db      *sql.DB
	log     *slog.Logger
}

// Create connects through adapter and creates the schema.
func Create(ctx context.Context, adapter Adapter) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", adapter.StoreID(), err)
	}
	if err := adapter.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return newStore(adapter, db), nil
}

// Open connects through adapter to a database made by Create.
func Open(ctx context.Context, adapter Adapter) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", adapter.StoreID(), err)
	}
	if err := adapter.OpenSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open schema: %w", err)
	}
	return newStore(adapter, db), nil
}

func newStore(adapter Adapter, db *sql.DB) *Store {
	return &Store{
		adapter: adapter,
		db:      db,
		log:     slog.Default().With("component", "storage", "store", adapter.StoreID()),
	}
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return s.adapter.Close()
}

// Backend returns the adapter's backend.
func (s *Store) Backend() Backend {
	return s.adapter.Backend()
}

// PutPaper inserts or replaces p with its reviews and conflicts.
func (s *Store) PutPaper(ctx context.Context, p *record.Paper) error {
	_, err := s.PutPapers(ctx, []*record.Paper{p})
	return err
}

// PutPapers stores every paper of ps in one transaction and returns the
// count. On error nothing is stored.
func (s *Store) PutPapers(ctx context.Context, ps []*record.Paper) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sqlt := s.adapter.SQL()
	for _, p := range ps {
		if err := putPaper(ctx, tx, sqlt, p); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("stored papers", "count", len(ps))
	return len(ps), nil
}

func putPaper(ctx context.Context, tx *sql.Tx, sqlt SQL, p *record.Paper) error {
	if _, err := tx.ExecContext(ctx, sqlt.UpsertPaper, p.PaperID, p.Title, p.Abstract,
		p.AuthorInformation, p.Collaborators, p.TimeSubmitted, p.TimeWithdrawn, p.Outcome,
		p.LeadContactID, p.ManagerContactID); err != nil {
		return fmt.Errorf("put paper %d: %w", p.PaperID, err)
	}
	if _, err := tx.ExecContext(ctx, sqlt.DeleteReviews, p.PaperID); err != nil {
		return fmt.Errorf("clear reviews of %d: %w", p.PaperID, err)
	}
	if _, err := tx.ExecContext(ctx, sqlt.DeleteConflicts, p.PaperID); err != nil {
		return fmt.Errorf("clear conflicts of %d: %w", p.PaperID, err)
	}
	for _, r := range p.Reviews {
		needsSubmit := 0
		if r.ReviewNeedsSubmit {
			needsSubmit = 1
		}
		if _, err := tx.ExecContext(ctx, sqlt.InsertReview, p.PaperID, r.ReviewID, r.ContactID,
			r.ReviewType, needsSubmit, r.RequestedBy, r.ReviewToken); err != nil {
			return fmt.Errorf("put review %d of %d: %w", r.ReviewID, p.PaperID, err)
		}
	}
	for _, c := range p.Conflicts {
		if _, err := tx.ExecContext(ctx, sqlt.InsertConflict, p.PaperID, c.ContactID, c.ConflictType); err != nil {
			return fmt.Errorf("put conflict %d of %d: %w", c.ContactID, p.PaperID, err)
		}
	}
	return nil
}

// CandidateSQL returns the statement Candidates runs for where.
func CandidateSQL(qi *term.QueryInfo, where string) string {
	var b strings.Builder
	b.WriteString("select distinct Paper.paperId from Paper")
	for _, t := range qi.Tables() {
		fmt.Fprintf(&b, " %s %s %s on (%s)", t.Join, t.Table, t.Alias, t.On)
	}
	b.WriteString(" where ")
	b.WriteString(where)
	b.WriteString(" order by Paper.paperId")
	return b.String()
}

// Candidates returns, in ID order, the submissions satisfying where. The
// joins registered in qi while compiling where are included.
func (s *Store) Candidates(ctx context.Context, qi *term.QueryInfo, where string) ([]int, error) {
	q := CandidateSQL(qi, where)
	s.log.Debug("candidates", "sql", q)
	return s.queryIDs(ctx, q, nil)
}

// QuickIDs returns, in ID order, the submissions matching qf for u.
func (s *Store) QuickIDs(ctx context.Context, qf *term.QuickFilter, u term.User) ([]int, error) {
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	q := "select Paper.paperId from Paper where " + QuickWhere(b, qf, u) + " order by Paper.paperId"
	s.log.Debug("quick filter", "sql", q, "args", b.Args())
	return s.queryIDs(ctx, q, b.Args())
}

func (s *Store) queryIDs(ctx context.Context, q string, args []any) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return ids, nil
}

// loadChunk caps the IDs bound into one statement, below SQLite's default
// variable limit of 32766.
const loadChunk = 1000

// Papers loads the submissions with the given IDs, in ID order, with their
// reviews and conflicts. Missing IDs are skipped.
func (s *Store) Papers(ctx context.Context, ids []int) ([]*record.Paper, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var papers []*record.Paper
	for chunk := range slices.Chunk(ids, loadChunk) {
		ps, err := s.loadPapers(ctx, chunk)
		if err != nil {
			return nil, err
		}
		papers = append(papers, ps...)
	}
	return papers, nil
}

func (s *Store) loadPapers(ctx context.Context, ids []int) ([]*record.Paper, error) {
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	q := `select paperId, title, abstract, authorInformation, collaborators, timeSubmitted,
		timeWithdrawn, outcome, leadContactId, managerContactId
		from Paper where paperId in (` + b.Ints(ids) + `) order by paperId`
	rows, err := s.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("load papers: %w", err)
	}
	defer rows.Close()

	var papers []*record.Paper
	byID := make(map[int]*record.Paper, len(ids))
	for rows.Next() {
		p := &record.Paper{}
		if err := rows.Scan(&p.PaperID, &p.Title, &p.Abstract, &p.AuthorInformation, &p.Collaborators,
			&p.TimeSubmitted, &p.TimeWithdrawn, &p.Outcome, &p.LeadContactID, &p.ManagerContactID); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, p)
		byID[p.PaperID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load papers: %w", err)
	}

	if err := s.loadReviews(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := s.loadConflicts(ctx, ids, byID); err != nil {
		return nil, err
	}
	return papers, nil
}

func (s *Store) loadReviews(ctx context.Context, ids []int, byID map[int]*record.Paper) error {
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	q := `select paperId, reviewId, contactId, reviewType, reviewNeedsSubmit, requestedBy, reviewToken
		from PaperReview where paperId in (` + b.Ints(ids) + `) order by paperId, reviewId`
	rows, err := s.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid, needsSubmit int
		var r record.Review
		if err := rows.Scan(&pid, &r.ReviewID, &r.ContactID, &r.ReviewType, &needsSubmit,
			&r.RequestedBy, &r.ReviewToken); err != nil {
			return fmt.Errorf("scan review: %w", err)
		}
		r.ReviewNeedsSubmit = needsSubmit != 0
		if p := byID[pid]; p != nil {
			p.Reviews = append(p.Reviews, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	return nil
}

func (s *Store) loadConflicts(ctx context.Context, ids []int, byID map[int]*record.Paper) error {
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	q := `select paperId, contactId, conflictType from PaperConflict
		where paperId in (` + b.Ints(ids) + `) order by paperId, contactId`
	rows, err := s.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return fmt.Errorf("load conflicts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid int
		var c record.Conflict
		if err := rows.Scan(&pid, &c.ContactID, &c.ConflictType); err != nil {
			return fmt.Errorf("scan conflict: %w", err)
		}
		if p := byID[pid]; p != nil {
			p.Conflicts = append(p.Conflicts, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load conflicts: %w", err)
	}
	return nil
}
