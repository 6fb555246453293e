package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInit returns the command that creates an empty store.
func NewInit(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the submission store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := env.CreateStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintf(env.Out, "Created %s store\n", st.Backend())
			return nil
		},
	}
}
