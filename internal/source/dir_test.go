package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

func TestDir_StatAndOpen(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"food.tsv": "food_id\n", "nested/menu.tsv": "menu_id\n"})
	d := NewDir(root)
	ctx := context.Background()

	require.NoError(t, d.Stat(ctx, "food.tsv"))
	require.NoError(t, d.Stat(ctx, "nested/menu.tsv"))

	rc, err := d.Open(ctx, "food.tsv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "food_id\n", string(body))
	assert.Equal(t, root, d.Location())
}

func TestDir_MissingCauses(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "food.tsv"), 0o755))

	tests := []struct {
		name  string
		root  string
		key   string
		cause core.MissingCause
	}{
		{"missing root", filepath.Join(root, "nope"), "food.tsv", core.CauseMissingRoot},
		{"missing file", root, "menu.tsv", core.CauseMissingFile},
		{"directory in place of file", root, "food.tsv", core.CauseUnreadable},
		{"traversal", root, "../food.tsv", core.CauseUnreadable},
		{"absolute key", root, "/etc/passwd", core.CauseUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDir(tt.root).Stat(context.Background(), tt.key)
			var missing *core.DataSourceMissingError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.cause, missing.Cause)
			assert.ErrorIs(t, err, core.ErrDataSourceMissing)
		})
	}
}

func TestDir_RootIsAFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	err := NewDir(root).Stat(context.Background(), "food.tsv")
	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseMissingRoot, missing.Cause)
}

func TestDir_SessionLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, catalogFiles())

	session := core.NewSession(core.NewBlobSource(NewDir(root)), core.SessionOptions{})
	cat, err := session.Catalog(context.Background())
	require.NoError(t, err)

	require.Len(t, cat.Foods, 2)
	assert.Equal(t, 1, cat.Foods[0].MenuCount)
	assert.Equal(t, 3.1, cat.Foods[1].VitaminC.Float64)
	assert.Equal(t, root, cat.Source)
}

func TestDir_SessionMissingRoot(t *testing.T) {
	session := core.NewSession(core.NewBlobSource(NewDir(filepath.Join(t.TempDir(), "absent"))), core.SessionOptions{})

	_, err := session.Catalog(context.Background())
	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseMissingRoot, missing.Cause)
}

// countingStore records how many objects were opened.
type countingStore struct {
	core.BlobStore
	opens int
}

func (c *countingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	c.opens++
	return c.BlobStore.Open(ctx, key)
}

func TestDir_UnreadableFileFailsCheck(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFiles(t, root, catalogFiles())
	path := filepath.Join(root, core.DefaultNutritionFile)
	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	err := NewDir(root).Stat(context.Background(), core.DefaultNutritionFile)
	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseUnreadable, missing.Cause)
	assert.Equal(t, path, missing.Path)

	store := &countingStore{BlobStore: NewDir(root)}
	session := core.NewSession(core.NewBlobSource(store), core.SessionOptions{})
	_, err = session.Catalog(context.Background())
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseUnreadable, missing.Cause)
	assert.Zero(t, store.opens, "no table is read before every table passes its check")
}
