// Package testutil provides fixture loading and recorded-session replay for
// scraper tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// LoadFixture reads an HTML fixture captured from the portal. Fixtures live
// under the portal package's testdata so the path is resolved relative to
// this file, not the test's working directory.
func LoadFixture(t *testing.T, name string) string {
	t.Helper()

	_, filename, _, _ := runtime.Caller(0)
	base := filepath.Dir(filepath.Dir(filename)) // up to internal/scraper

	path := filepath.Join(base, "portal", "testdata", "fixtures", name+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", name, err)
	}

	return string(data)
}
