// Package cli is the papersearch command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papersearch/papersearch/internal/cli/commands"
	"github.com/papersearch/papersearch/internal/cliopt"
	"github.com/papersearch/papersearch/internal/config"
	"github.com/papersearch/papersearch/papersearch"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	return Run(context.Background(), argv, os.Stdout, os.Stderr)
}

// Run runs the CLI with argv, writing results to stdout and diagnostics to
// stderr.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(argv)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case papersearch.IsKind(err, papersearch.ErrQueryParse), papersearch.IsKind(err, papersearch.ErrConfig):
		return 2
	default:
		return 1
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	g := &cliopt.GlobalOptions{}
	env := &commands.Env{Global: g, Out: stdout}
	v := viper.New()

	root := &cobra.Command{
		Use:           "papersearch",
		Short:         "Search conference submissions",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliopt.BindConfig(v, cmd.Root().PersistentFlags()); err != nil {
				return papersearch.Wrap(papersearch.ErrConfig, "flags", err)
			}
			c, err := config.Load(v, g.ConfigFile)
			if err != nil {
				return papersearch.Wrap(papersearch.ErrConfig, "load config", err)
			}
			env.Config = c
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: c.Level()})))
			if f := v.ConfigFileUsed(); f != "" {
				slog.Debug("using config file", "path", f)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	cliopt.BindGlobalFlags(root.PersistentFlags(), g)

	root.AddCommand(
		commands.NewInit(env),
		commands.NewLoad(env),
		commands.NewShow(env),
		commands.NewExplain(env),
		commands.NewSearch(env),
	)
	return root
}
