package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "card-1")
	writeFile(t, filepath.Join(root, "b.PNG"), "card-1")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignore")
	writeFile(t, filepath.Join(root, ".hidden.jpg"), "card-2")
	writeFile(t, filepath.Join(root, ".cache", "x.jpg"), "card-3")
	writeFile(t, filepath.Join(root, "sub", "c.jpeg"), "card-4")

	res, stats, err := ScanDirectory(context.Background(), root, ScanOptions{SkipHidden: true})
	require.NoError(t, err)

	var paths []string
	for _, r := range res {
		rel, _ := filepath.Rel(root, r.Path)
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"a.jpg", "b.PNG", filepath.Join("sub", "c.jpeg")}, paths)
	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 3, stats.Succeeded)
	assert.EqualValues(t, 1, stats.Deduplicated)
	assert.EqualValues(t, 0, stats.Failed)
}

func TestScanDirectoryIncludeExts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "1")
	writeFile(t, filepath.Join(root, "b.png"), "2")

	res, _, err := ScanDirectory(context.Background(), root, ScanOptions{IncludeExts: []string{".PNG"}})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "b.png", filepath.Base(res[0].Path))
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	_, _, err := ScanDirectory(context.Background(), " ", ScanOptions{})
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/x/.git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("/x/card.jpg"))
}
