// Package commands implements the papersearch subcommands.
package commands

import (
	"context"
	"io"

	"github.com/papersearch/papersearch/internal/cliopt"
	"github.com/papersearch/papersearch/internal/cliutil"
	"github.com/papersearch/papersearch/internal/config"
	"github.com/papersearch/papersearch/internal/fixture"
	"github.com/papersearch/papersearch/papersearch"
	"github.com/papersearch/papersearch/papersearch/contact"
	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/storage/sqlite"
)

// Env is the state shared by subcommands. Config is set by the root
// command before any subcommand runs.
type Env struct {
	Global *cliopt.GlobalOptions
	Config *config.Config
	Out    io.Writer
}

func (e *Env) adapter() storage.Adapter {
	a := e.Config.Adapter()
	if s, ok := a.(*sqlite.Adapter); ok {
		s.Path = cliutil.ResolveSQLitePath(s.Path)
	}
	return a
}

// CreateStore connects and creates the schema if needed.
func (e *Env) CreateStore(ctx context.Context) (*storage.Store, error) {
	st, err := storage.Create(ctx, e.adapter())
	if err != nil {
		return nil, papersearch.Wrap(papersearch.ErrSQL, "create store", err)
	}
	return st, nil
}

// OpenStore connects to an existing store.
func (e *Env) OpenStore(ctx context.Context) (*storage.Store, error) {
	st, err := storage.Open(ctx, e.adapter())
	if err != nil {
		return nil, papersearch.Wrap(papersearch.ErrSQL, "open store", err)
	}
	return st, nil
}

// Dataset reads the configured fixture.
func (e *Env) Dataset() (*fixture.Dataset, error) {
	return fixture.Read(e.Config.Fixture)
}

// Conf returns the conference settings, preferring the dataset's.
func (e *Env) Conf(ds *fixture.Dataset) *contact.Conf {
	if ds != nil && ds.Conference != nil {
		return ds.Conference
	}
	conf := e.Config.Conference
	return &conf
}

// Format returns the requested output format.
func (e *Env) Format() (cliutil.OutputFormat, error) {
	f, err := cliutil.ParseOutputFormat(e.Global.Format)
	if err != nil {
		return "", papersearch.Wrap(papersearch.ErrConfig, "output", err)
	}
	return f, nil
}

// searchFor resolves the searching user and reviewer named by as and
// reviewer and builds the search.
func (e *Env) searchFor(as, reviewer, limit, q string) (*papersearch.Search, error) {
	ds, err := e.Dataset()
	if err != nil {
		return nil, err
	}
	conf := e.Conf(ds)
	user, err := ds.Lookup(conf, as)
	if err != nil {
		return nil, err
	}
	opts := papersearch.Options{Limit: limit}
	if opts.Limit == "" {
		opts.Limit = e.Config.DefaultLimit
	}
	if reviewer != "" {
		r, err := ds.Lookup(conf, reviewer)
		if err != nil {
			return nil, err
		}
		opts.Reviewer = r
	}
	return papersearch.New(user, q, opts)
}
