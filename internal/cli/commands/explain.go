package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papersearch/papersearch/internal/cliutil"
	"github.com/papersearch/papersearch/papersearch/term"
)

// Explanation describes how a query compiles.
type Explanation struct {
	Query       string            `json:"query" yaml:"query"`
	Limit       string            `json:"limit" yaml:"limit"`
	NamedLimit  string            `json:"named_limit" yaml:"named_limit"`
	Term        any               `json:"term" yaml:"term"`
	SQL         string            `json:"sql" yaml:"sql"`
	Precise     bool              `json:"precise" yaml:"precise"`
	QuickFilter *term.QuickFilter `json:"quick_filter,omitempty" yaml:"quick_filter,omitempty"`
	About       string            `json:"about_reviews" yaml:"about_reviews"`
	Warnings    []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewExplain returns the command that shows a query's compiled form.
func NewExplain(env *Env) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "explain QUERY...",
		Short: "Show the term tree and SQL a query compiles to",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := env.Format()
			if err != nil {
				return err
			}
			s, err := env.searchFor(f.as, f.reviewer, f.limit, strings.Join(args, " "))
			if err != nil {
				return err
			}

			q, _ := s.SQL()
			ex := Explanation{
				Query:      s.Query(),
				Limit:      s.Limit().Limit,
				NamedLimit: s.Limit().Named,
				Term:       term.DebugJSON(s.FullTerm()),
				SQL:        q,
				Precise:    s.IsSQLPrecise(),
				About:      term.AboutReviews(s.FullTerm()).String(),
			}
			if qf, ok := s.QuickFilter(); ok {
				ex.QuickFilter = &qf
			}
			for _, w := range s.Warnings() {
				ex.Warnings = append(ex.Warnings, w.String())
			}

			switch format {
			case cliutil.FormatJSON:
				return cliutil.PrintJSON(env.Out, ex)
			case cliutil.FormatYAML, cliutil.FormatIDs:
				return cliutil.PrintYAML(env.Out, ex)
			default:
				for _, w := range ex.Warnings {
					fmt.Fprintf(env.Out, "warning: %s\n", w)
				}
				fmt.Fprintf(env.Out, "limit:   %s (as written: %s)\n", ex.Limit, ex.NamedLimit)
				fmt.Fprintf(env.Out, "precise: %v\n", ex.Precise)
				fmt.Fprintf(env.Out, "reviews: %s\n", ex.About)
				if ex.QuickFilter != nil {
					fmt.Fprintf(env.Out, "quick:   %+v\n", *ex.QuickFilter)
				}
				fmt.Fprintln(env.Out, "\nTerm:")
				if err := cliutil.PrintJSON(env.Out, ex.Term); err != nil {
					return err
				}
				fmt.Fprintf(env.Out, "\nSQL:\n%s\n", ex.SQL)
				return nil
			}
		},
	}
	f.bind(cmd)
	return cmd
}
