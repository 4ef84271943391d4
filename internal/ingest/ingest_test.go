package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadPaths_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.jpg"), []byte("jpeg"))
	writeFile(t, filepath.Join(dir, "a.PNG"), []byte("png"))
	writeFile(t, filepath.Join(dir, "sub", "c.pdf"), []byte("%PDF-garbage"))
	writeFile(t, filepath.Join(dir, ".hidden.png"), []byte("x"))
	writeFile(t, filepath.Join(dir, ".cache", "d.png"), []byte("x"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	docs, stats, err := NewLoader(nil).LoadPaths(context.Background(), []string{dir})
	require.NoError(t, err)

	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"a.PNG", "b.jpg", "c.pdf"}, names)
	assert.Equal(t, constants.MediaPNG, docs[0].MediaType)
	assert.Equal(t, constants.MediaJPEG, docs[1].MediaType)
	assert.Equal(t, constants.MediaPDF, docs[2].MediaType)
	assert.Equal(t, 0, docs[2].Pages)
	assert.Equal(t, []byte("png"), docs[0].Data)
	assert.EqualValues(t, 3, docs[0].Size)

	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 2, stats.Skipped)
}

func TestLoadPaths_ExplicitFilesKeepArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	note := filepath.Join(dir, "scan.txt")
	img := filepath.Join(dir, "z.png")
	writeFile(t, note, []byte("plain text"))
	writeFile(t, img, []byte("\x89PNG\r\n\x1a\n0000"))

	docs, _, err := NewLoader(nil).LoadPaths(context.Background(), []string{note, "  ", img})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "scan.txt", docs[0].Name)
	assert.Equal(t, "text/plain", docs[0].MediaType)
	assert.Equal(t, "z.png", docs[1].Name)
}

func TestLoadPaths_MissingPath(t *testing.T) {
	_, stats, err := NewLoader(nil).LoadPaths(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.EqualValues(t, 1, stats.Failed)
}

func TestLoadPaths_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewLoader(nil).LoadPaths(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile_OversizedIsNotRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.pdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(constants.MaxDocumentBytes+1))
	require.NoError(t, f.Close())

	doc, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Nil(t, doc.Data)
	assert.Equal(t, constants.MaxDocumentBytes+1, doc.Size)
	assert.Equal(t, constants.MediaPDF, doc.MediaType)
}

func TestLoadFile_Directory(t *testing.T) {
	_, err := NewLoader(nil).LoadFile(t.TempDir())
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.True(t, AllowedExt(".webp"))
	assert.False(t, AllowedExt(".txt"))
	assert.True(t, IsHidden("/tmp/x/.DS_Store"))
	assert.False(t, IsHidden("/tmp/.x/receipt.png"))
	assert.Equal(t, "image/png", SniffMediaType([]byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, 0, CountPDFPages([]byte("not a pdf")))
	assert.Equal(t, 0, CountPDFPages(nil))
}

func TestWatch_InitialScanAndChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.png"), []byte("x"))
	writeFile(t, filepath.Join(dir, "a.pdf"), []byte("x"))
	writeFile(t, filepath.Join(dir, "skip.txt"), []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, _, err := Watch(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	select {
	case got := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.png")}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial scan")
	}

	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("ignored"))
	writeFile(t, filepath.Join(dir, "c.jpg"), []byte("x"))

	select {
	case got := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "c.jpg")}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change set")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_NoRoots(t *testing.T) {
	_, _, err := Watch(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
