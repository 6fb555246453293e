package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/storage/sqlite"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papersearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "papersearch.db", c.SQLitePath)
	assert.Equal(t, "papersearch", c.PostgresSchema)
	assert.Equal(t, slog.LevelWarn, c.Level())
	assert.False(t, c.Conference.PCViewActive)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
backend: sqlite3
sqlite_path: /tmp/conf.db
default_limit: reviewable
log_level: debug
conference:
  pc_view_active: true
  blind: true
  decisions:
    - id: 1
      name: Accepted
    - id: 2
      name: Poster
    - id: -1
      name: Rejected
`)
	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite3, c.Backend)
	assert.Equal(t, "reviewable", c.DefaultLimit)
	assert.Equal(t, slog.LevelDebug, c.Level())
	assert.True(t, c.Conference.PCViewActive)
	assert.True(t, c.Conference.Blind)
	require.Len(t, c.Conference.DecisionList, 3)
	assert.Equal(t, "Poster", c.Conference.DecisionList[1].Name)
	assert.Equal(t, -1, c.Conference.DecisionList[2].ID)

	a, ok := c.Adapter().(*sqlite.Adapter)
	require.True(t, ok)
	assert.Equal(t, sqlite.DriverMattn, a.DriverName)
	assert.Equal(t, "/tmp/conf.db", a.Path)
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PAPERSEARCH_BACKEND", "postgres")
	t.Setenv("PAPERSEARCH_POSTGRES_DSN", "postgres://localhost/hotcrp")
	t.Setenv("PAPERSEARCH_CONFERENCE_PC_VIEW_ACTIVE", "true")

	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, c.Backend)
	assert.True(t, c.Conference.PCViewActive)
	assert.Equal(t, storage.BackendPostgres, c.Adapter().Backend())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "backend: redis\n"},
		{"postgres without dsn", "backend: postgres\n"},
		{"bad schema", "backend: postgres\npostgres_dsn: x\npostgres_schema: \"a;b\"\n"},
		{"bad limit", "default_limit: everything\n"},
		{"bad level", "log_level: loud\n"},
		{"bad yaml", "backend: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"":      slog.LevelWarn,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
}
