package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papersearch/papersearch/internal/cliutil"
	"github.com/papersearch/papersearch/papersearch"
)

// NewShow returns the command that prints stored papers.
func NewShow(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID...",
		Short: "Print stored papers with their reviews and conflicts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := strconv.Atoi(strings.TrimPrefix(a, "#"))
				if err != nil || id <= 0 {
					return papersearch.NewError(papersearch.ErrConfig, fmt.Sprintf("bad paper id %q", a))
				}
				ids = append(ids, id)
			}
			format, err := env.Format()
			if err != nil {
				return err
			}

			st, err := env.OpenStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			ps, err := st.Papers(cmd.Context(), ids)
			if err != nil {
				return papersearch.Wrap(papersearch.ErrSQL, "load papers", err)
			}
			if len(ps) == 0 {
				return papersearch.NotFoundError("papers " + strings.Join(args, " "))
			}

			switch format {
			case cliutil.FormatJSON:
				return cliutil.PrintJSON(env.Out, ps)
			case cliutil.FormatIDs:
				for _, p := range ps {
					fmt.Fprintln(env.Out, p.PaperID)
				}
				return nil
			default:
				return cliutil.PrintYAML(env.Out, ps)
			}
		},
	}
}
