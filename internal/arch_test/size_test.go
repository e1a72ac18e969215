package arch_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFilesPerPackage = 10
	maxLinesPerFile    = 400
)

// TestPackageAndFileSize keeps packages and files small enough to read in one
// sitting. Test files count toward the line limit.
func TestPackageAndFileSize(t *testing.T) {
	t.Parallel()

	dir := internalDir(t)
	for _, pkg := range internalPackages(t) {
		pkgDir := filepath.Join(dir, pkg)
		if n := len(goFiles(t, pkgDir, false)); n > maxFilesPerPackage {
			t.Errorf("package %s has %d .go files (limit: %d); consider splitting", pkg, n, maxFilesPerPackage)
		}
		for _, path := range goFiles(t, pkgDir, true) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}
			if bytes.Contains(data[:min(len(data), 200)], []byte("Code generated")) {
				continue
			}
			if n := bytes.Count(data, []byte("\n")); n > maxLinesPerFile {
				t.Errorf("%s has %d lines (limit: %d); consider decomposing", relPath(path), n, maxLinesPerFile)
			}
		}
	}
}
