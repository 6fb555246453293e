// Package cliopt holds the global CLI flags. It is separate from the
// command packages to avoid import cycles.
package cliopt

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
type GlobalOptions struct {
	ConfigFile string
	Format     string
}

// configFlags maps persistent flags onto configuration keys.
var configFlags = []struct {
	flag, key, usage string
}{
	{"backend", "backend", "backend: sqlite|sqlite3|postgres"},
	{"sqlite-path", "sqlite_path", "sqlite database file"},
	{"pg-dsn", "postgres_dsn", "postgres DSN"},
	{"pg-schema", "postgres_schema", "postgres schema"},
	{"fixture", "fixture", "YAML dataset of users and papers"},
	{"default-limit", "default_limit", "limit applied when a query names none"},
	{"log-level", "log_level", "log level: debug|info|warn|error"},
}

// BindGlobalFlags registers the global flags on fs.
func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.ConfigFile, "config", "", "config file (default: ./papersearch.yaml or ~/.config/papersearch/papersearch.yaml)")
	fs.StringVarP(&g.Format, "format", "o", "pretty", "output format: pretty|ids|json|yaml")
	for _, f := range configFlags {
		fs.String(f.flag, "", f.usage)
	}
}

// BindConfig makes the configuration flags of fs override v's keys when
// set.
func BindConfig(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, f := range configFlags {
		if err := v.BindPFlag(f.key, fs.Lookup(f.flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", f.flag, err)
		}
	}
	return nil
}
