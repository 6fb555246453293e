package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papersearch/papersearch/internal/fixture"
)

// NewLoad returns the command that stores a dataset's papers.
func NewLoad(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "load [dataset.yaml]",
		Short: "Load papers from a YAML dataset into the store",
		Long: `Load creates the store if needed and inserts or replaces every paper of the
dataset, with its reviews and conflicts. Without an argument the configured
fixture is loaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := env.Config.Fixture
			if len(args) == 1 {
				path = args[0]
			}
			ds, err := fixture.Read(path)
			if err != nil {
				return err
			}

			st, err := env.CreateStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := ds.Load(cmd.Context(), st)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "Loaded %d papers\n", n)
			return nil
		},
	}
}
