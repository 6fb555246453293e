package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papersearch/papersearch/internal/cliutil"
	"github.com/papersearch/papersearch/papersearch"
	"github.com/papersearch/papersearch/papersearch/record"
)

type searchFlags struct {
	as       string
	reviewer string
	limit    string
}

func (f *searchFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.as, "as", "u", "", "search as this user (email or id; default anonymous)")
	cmd.Flags().StringVar(&f.reviewer, "reviewer", "", "target user of reviewer-relative limits")
	cmd.Flags().StringVarP(&f.limit, "limit", "l", "", "limit applied when the query names none")
}

// SearchOutput is the machine-readable search result.
type SearchOutput struct {
	Query      string           `json:"query" yaml:"query"`
	Limit      string           `json:"limit" yaml:"limit"`
	IDs        []int            `json:"ids" yaml:"ids"`
	Groups     map[int]int      `json:"groups,omitempty" yaml:"groups,omitempty"`
	Highlights map[int][]string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Legend     string           `json:"legend,omitempty" yaml:"legend,omitempty"`
	View       []string         `json:"view,omitempty" yaml:"view,omitempty"`
	Warnings   []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewSearch returns the search command.
func NewSearch(env *Env) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search stored papers",
		Long: `Search runs a query as a user and prints the matching papers in display
order. Arguments are joined with spaces.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := env.Format()
			if err != nil {
				return err
			}
			s, err := env.searchFor(f.as, f.reviewer, f.limit, strings.Join(args, " "))
			if err != nil {
				return err
			}

			st, err := env.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			start := time.Now()
			res, err := s.Run(cmd.Context(), st)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			out := newSearchOutput(s, res)
			switch format {
			case cliutil.FormatJSON:
				return cliutil.PrintJSON(env.Out, out)
			case cliutil.FormatYAML:
				return cliutil.PrintYAML(env.Out, out)
			case cliutil.FormatIDs:
				for _, id := range res.IDs {
					fmt.Fprintln(env.Out, id)
				}
				return nil
			default:
				ps, err := st.Papers(cmd.Context(), res.IDs)
				if err != nil {
					return papersearch.Wrap(papersearch.ErrSQL, "load results", err)
				}
				printPretty(env.Out, out, ps, elapsed)
				return nil
			}
		},
	}
	f.bind(cmd)
	return cmd
}

func newSearchOutput(s *papersearch.Search, res *papersearch.Result) SearchOutput {
	out := SearchOutput{
		Query:      s.Query(),
		Limit:      s.Limit().Named,
		IDs:        res.IDs,
		Groups:     res.Groups,
		Highlights: res.Highlights,
		Legend:     s.Legend(),
	}
	if out.IDs == nil {
		out.IDs = []int{}
	}
	for _, v := range s.View() {
		out.View = append(out.View, v.Directive)
	}
	for _, w := range s.Warnings() {
		out.Warnings = append(out.Warnings, w.String())
	}
	return out
}

func printPretty(w io.Writer, out SearchOutput, ps []*record.Paper, dur time.Duration) {
	titles := make(map[int]string, len(ps))
	for _, p := range ps {
		titles[p.PaperID] = p.Title
	}
	for _, msg := range out.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	if out.Legend != "" {
		fmt.Fprintln(w, out.Legend)
	}
	fmt.Fprintf(w, "Found %d papers in %dms (in:%s)\n", len(out.IDs), dur.Milliseconds(), out.Limit)
	group := -1
	for _, id := range out.IDs {
		if out.Groups != nil && out.Groups[id] != group {
			group = out.Groups[id]
			fmt.Fprintf(w, "group %d:\n", group+1)
		}
		line := fmt.Sprintf("- #%d %s", id, titles[id])
		if colors := out.Highlights[id]; len(colors) > 0 {
			line += " [" + strings.Join(colors, " ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}
