// Package fetch downloads and unpacks the provincial source archives.
package fetch

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source describes one downloadable input archive. Include and Exclude
// filter the archive members by substring; an empty Include matches all.
type Source struct {
	Name    string
	URL     string
	Include string
	Exclude []string
}

// Fetch downloads every source archive into destDir, extracts the filtered
// members, and deletes the archive. Archives already present on disk are not
// re-downloaded; the step is safe to re-run.
func Fetch(ctx context.Context, sources []Source, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return eris.Wrap(err, "fetch: create dest dir")
	}

	client := &http.Client{Timeout: 30 * time.Minute}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, src := range sources {
		g.Go(func() error {
			return fetchOne(gCtx, client, src, destDir)
		})
	}
	return g.Wait()
}

func fetchOne(ctx context.Context, client *http.Client, src Source, destDir string) error {
	log := zap.L().With(
		zap.String("component", "fetch"),
		zap.String("source", src.Name),
	)

	parts := strings.Split(src.URL, "/")
	zipPath := filepath.Join(destDir, parts[len(parts)-1])

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		log.Debug("archive already present, skipping download", zap.String("path", zipPath))
	} else {
		log.Info("downloading archive", zap.String("url", src.URL))
		if err := downloadFile(ctx, client, src.URL, zipPath); err != nil {
			return eris.Wrapf(err, "fetch: download %s", src.Name)
		}
	}

	n, err := extractFiltered(zipPath, destDir, src.Include, src.Exclude)
	if err != nil {
		return eris.Wrapf(err, "fetch: extract %s", src.Name)
	}
	log.Info("archive extracted", zap.Int("files", n))

	if err := os.Remove(zipPath); err != nil {
		return eris.Wrapf(err, "fetch: remove %s", zipPath)
	}
	return nil
}

// downloadFile downloads a URL to a local file.
func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// extractFiltered extracts archive members matching the include/exclude
// substrings, preserving member paths under destDir. Existing files are
// left alone. Returns the number of files written.
func extractFiltered(zipPath, destDir, include string, exclude []string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	var written int
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if include != "" && !strings.Contains(f.Name, include) {
			continue
		}
		if excluded(f.Name, exclude) {
			continue
		}

		destPath, err := safeJoin(destDir, f.Name)
		if err != nil {
			return written, err
		}
		if _, err := os.Stat(destPath); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return written, eris.Wrapf(err, "create dir for %s", f.Name)
		}

		if err := extractMember(f, destPath); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func extractMember(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "open zip entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "create %s", destPath)
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return eris.Wrapf(err, "extract %s", f.Name)
	}
	return nil
}

func excluded(name string, exclude []string) bool {
	for _, e := range exclude {
		if e != "" && strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// safeJoin joins an archive member path under dir, rejecting traversal.
func safeJoin(dir, name string) (string, error) {
	dest := filepath.Join(dir, filepath.Clean(name))
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip entry %s escapes destination", name)
	}
	return dest, nil
}
