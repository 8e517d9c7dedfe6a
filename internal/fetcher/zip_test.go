package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, contents := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZIPSingle(t *testing.T) {
	t.Parallel()
	zipPath := writeZip(t, map[string]string{
		"wages.csv": "position,hourly_rate\ncrew_supervisor,28.00\n",
	})

	dest := t.TempDir()
	out, err := ExtractZIPSingle(zipPath, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "wages.csv"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "crew_supervisor")
}

func TestExtractZIPSingleNestedName(t *testing.T) {
	t.Parallel()
	zipPath := writeZip(t, map[string]string{
		"oes/2026/wages.csv": "position,hourly_rate\n",
	})

	out, err := ExtractZIPSingle(zipPath, t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestExtractZIPSingleRejectsMultipleFiles(t *testing.T) {
	t.Parallel()
	zipPath := writeZip(t, map[string]string{
		"a.csv": "x",
		"b.csv": "y",
	})

	_, err := ExtractZIPSingle(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly 1 file, got 2")
}

func TestExtractZIPSingleRejectsEscapingPath(t *testing.T) {
	t.Parallel()
	zipPath := writeZip(t, map[string]string{
		"../escape.csv": "x",
	})

	_, err := ExtractZIPSingle(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal member path")
}

func TestExtractZIPSingleBadArchive(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notazip.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := ExtractZIPSingle(path, t.TempDir())
	require.Error(t, err)
}
