package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSNs(t *testing.T) {
	cfg := Config{Host: "db", User: "bot", Password: "p@ss word", Name: "facts"}
	cfg.Normalize()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, 4, cfg.MaxConnections)
	assert.Equal(t, "user=bot password=p@ss word host=db port=5432 dbname=facts sslmode=disable", cfg.KeyValueDSN())
	assert.Equal(t, "postgres://bot:p%40ss%20word@db:5432/facts?sslmode=disable", cfg.URL())
}

func TestConfigDisabledWithoutHost(t *testing.T) {
	assert.False(t, Config{Host: "  "}.Enabled())
}

func TestMigrationFileSelection(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_index.up.sql",
		"000001_create_facts.up.sql",
		"000001_create_facts.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files := listMigrationFiles(dir)
	assert.Equal(t, []string{"000001_create_facts.up.sql", "000002_add_index.up.sql"}, files)
	assert.Equal(t, uint64(2), parseVersion(files[1]))
	assert.Equal(t, []string{"000002_add_index.up.sql"}, selectApplied(files, 1, 2))
	assert.Empty(t, selectApplied(files, 2, 2))
}

func TestMigrationsPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "m")
	got, err := MigrationsPath(Config{MigrationsDir: abs})
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = MigrationsPath(Config{})
	require.NoError(t, err)
	assert.Equal(t, "migrations", filepath.Base(got))
}
