package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zipArchive builds an in-memory zip with the given member name → content.
func zipArchive(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := archives[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"Couches/inventory.shp":  "shp-bytes",
		"Couches/inventory.dbf":  "dbf-bytes",
		"Couches/inventory.html": "ignore-me",
		"readme.txt":             "ignore-me-too",
	})
	srv := archiveServer(t, map[string][]byte{"inventory.zip": archive})
	destDir := t.TempDir()

	err := Fetch(context.Background(), []Source{{
		Name:    "inventory",
		URL:     srv.URL + "/inventory.zip",
		Include: "Couches/",
		Exclude: []string{".html"},
	}}, destDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(destDir, "Couches", "inventory.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shp-bytes", string(data))

	_, err = os.Stat(filepath.Join(destDir, "Couches", "inventory.dbf"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(destDir, "Couches", "inventory.html"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(destDir, "readme.txt"))
	assert.True(t, os.IsNotExist(err))

	// The archive itself is removed after extraction.
	_, err = os.Stat(filepath.Join(destDir, "inventory.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_MultipleSources(t *testing.T) {
	srv := archiveServer(t, map[string][]byte{
		"a.zip": zipArchive(t, map[string]string{"a.shp": "a"}),
		"b.zip": zipArchive(t, map[string]string{"b.shp": "b"}),
	})
	destDir := t.TempDir()

	err := Fetch(context.Background(), []Source{
		{Name: "a", URL: srv.URL + "/a.zip"},
		{Name: "b", URL: srv.URL + "/b.zip"},
	}, destDir)
	require.NoError(t, err)

	for _, name := range []string{"a.shp", "b.shp"} {
		_, err := os.Stat(filepath.Join(destDir, name))
		require.NoError(t, err)
	}
}

func TestFetch_SkipsExistingFiles(t *testing.T) {
	srv := archiveServer(t, map[string][]byte{
		"a.zip": zipArchive(t, map[string]string{"a.shp": "fresh"}),
	})
	destDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "a.shp"), []byte("kept"), 0o644))

	err := Fetch(context.Background(), []Source{{Name: "a", URL: srv.URL + "/a.zip"}}, destDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(destDir, "a.shp"))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data), "extraction never overwrites")
}

func TestFetch_HTTPError(t *testing.T) {
	srv := archiveServer(t, nil)

	err := Fetch(context.Background(), []Source{{
		Name: "missing",
		URL:  srv.URL + "/missing.zip",
	}}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestExtractFiltered_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	require.NoError(t, os.WriteFile(zipPath,
		zipArchive(t, map[string]string{"../escape.txt": "nope"}), 0o644))

	_, err := extractFiltered(zipPath, filepath.Join(dir, "out"), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}
