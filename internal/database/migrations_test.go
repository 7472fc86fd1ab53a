package database

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := PendingMigrations(MigrationSource(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"001_diary_entries.sql", "002_gate_rejections.sql"}, files)
}

func TestPendingMigrationsSorted(t *testing.T) {
	src := fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 1;")},
		"002_mid.sql":   {Data: []byte("SELECT 1;")},
		"001_first.sql": {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("ignored")},
	}
	files, err := PendingMigrations(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_mid.sql", "010_late.sql"}, files)
}

func TestMigrationSourcePrefersDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "100_custom.sql"), []byte("SELECT 1;"), 0o600))

	files, err := PendingMigrations(MigrationSource(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"100_custom.sql"}, files)

	files, err = PendingMigrations(MigrationSource(filepath.Join(dir, "missing")))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
