package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/exonyb/backoffice/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add products table", "add_products_table"},
		{"Add-Products-Table", "add_products_table"},
		{"ADD__PRODUCTS", "add_products"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add product tags", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_product_tags.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_product_tags.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add product tags")

	second, err := CreateMigration(dir, "index orders by date", "Speed up sales reports")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback: Speed up sales reports")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_later.up.sql":   {},
		"000010_later.down.sql": {},
		"000002_first.up.sql":   {},
		"notes.txt":             {},
		"x_bad.up.sql":          {},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []Migration{{Version: 2, Name: "first"}, {Version: 10, Name: "later"}}, list)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, m := range list {
		assert.Equal(t, uint(i+1), m.Version, "versions are contiguous")
		matches, err := fs.Glob(migrations.FS, fmt.Sprintf("%06d_%s.*.sql", m.Version, m.Name))
		require.NoError(t, err)
		assert.Len(t, matches, 2, "up and down files for %d", m.Version)
	}
}
