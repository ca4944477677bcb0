// Package archive turns a raw portal download into the deliverable file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Materialize resolves the final deliverable for a downloaded file. Non-zip
// files are returned unchanged. A zip archive is expected to carry exactly
// one logical deliverable: the first non-directory entry is extracted into
// destDir under its own base name. An archive with no file entries is fatal.
func Materialize(path, destDir string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return path, nil
	}
	return extractFirstEntry(path, destDir)
}

func extractFirstEntry(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		return extractEntry(f, destDir)
	}

	return "", fmt.Errorf("archive %s contains no files", zipPath)
}

func extractEntry(f *zip.File, destDir string) (string, error) {
	// Entry names can carry directory components; only the base name is kept.
	dest := filepath.Join(destDir, filepath.Base(f.Name))

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", fmt.Errorf("extract %s: %w", f.Name, err)
	}

	return dest, nil
}
