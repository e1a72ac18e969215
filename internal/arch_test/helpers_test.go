// Package arch_test holds repository-wide structure checks: package layering,
// doc comments on exported API, and file sizes.
package arch_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

const internalPrefix = "github.com/papapumpkin/surfer/internal/"

// internalDir locates internal/ relative to this file.
func internalDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(filepath.Dir(file))
}

// internalPackages lists the directories under internal/ that hold Go
// source, excluding this package.
func internalPackages(t *testing.T) []string {
	t.Helper()
	dir := internalDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var pkgs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		if len(goFiles(t, filepath.Join(dir, e.Name()), false)) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// goFiles returns the .go files in dir, sorted. Test files are included only
// when withTests is set.
func goFiles(t *testing.T, dir string, withTests bool) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !withTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// internalImports returns the internal packages imported by the non-test
// files of pkg, by their first path element after internal/.
func internalImports(t *testing.T, pkg string) []string {
	t.Helper()
	seen := map[string]bool{}
	fset := token.NewFileSet()
	for _, f := range goFiles(t, filepath.Join(internalDir(t), pkg), false) {
		node, err := parser.ParseFile(fset, f, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing %s: %v", f, err)
		}
		for _, imp := range node.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rel, ok := strings.CutPrefix(path, internalPrefix); ok {
				rel, _, _ = strings.Cut(rel, "/")
				seen[rel] = true
			}
		}
	}
	imports := make([]string, 0, len(seen))
	for p := range seen {
		imports = append(imports, p)
	}
	sort.Strings(imports)
	return imports
}

// relPath shortens path to start at internal/ for messages.
func relPath(path string) string {
	if i := strings.Index(path, "internal"+string(filepath.Separator)); i >= 0 {
		return path[i:]
	}
	return filepath.Base(path)
}

func TestHelpers_FindCorePackages(t *testing.T) {
	t.Parallel()

	pkgs := internalPackages(t)
	have := map[string]bool{}
	for _, p := range pkgs {
		have[p] = true
	}
	for _, want := range []string{"config", "graph", "rank", "report", "store", "telemetry", "watch"} {
		if !have[want] {
			t.Errorf("internalPackages() = %v, missing %q", pkgs, want)
		}
	}
	if have["arch_test"] {
		t.Error("internalPackages() should exclude arch_test")
	}

	imports := internalImports(t, "rank")
	if len(imports) == 0 || imports[0] != "graph" {
		t.Errorf("internalImports(rank) = %v, want [graph]", imports)
	}
}
