package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// TestExportedSymbolsHaveGoDoc requires a doc comment that starts with the
// symbol's name on every exported type, func, and method of an exported
// type. Grouped const and var blocks may share one block comment.
func TestExportedSymbolsHaveGoDoc(t *testing.T) {
	t.Parallel()

	dir := internalDir(t)
	for _, pkg := range internalPackages(t) {
		fset := token.NewFileSet()
		for _, path := range goFiles(t, filepath.Join(dir, pkg), false) {
			file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
			if err != nil {
				t.Fatalf("parsing %s: %v", path, err)
			}
			for _, missing := range undocumented(file) {
				t.Errorf("%s: exported %s has no GoDoc comment", relPath(path), missing)
			}
		}
	}
}

// undocumented returns the exported declarations in file that lack a doc
// comment starting with their name.
func undocumented(file *ast.File) []string {
	var missing []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if !d.Name.IsExported() || (d.Recv != nil && !exportedReceiver(d.Recv)) {
				continue
			}
			if !startsWith(d.Doc, d.Name.Name) {
				missing = append(missing, d.Name.Name)
			}
		case *ast.GenDecl:
			grouped := len(d.Specs) > 1 && d.Doc != nil
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name.IsExported() && !startsWith(firstDoc(s.Doc, d.Doc), s.Name.Name) {
						missing = append(missing, s.Name.Name)
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if !name.IsExported() || grouped || s.Comment != nil {
							continue
						}
						if !startsWith(firstDoc(s.Doc, d.Doc), name.Name) {
							missing = append(missing, name.Name)
						}
					}
				}
			}
		}
	}
	return missing
}

func firstDoc(groups ...*ast.CommentGroup) *ast.CommentGroup {
	for _, g := range groups {
		if g != nil {
			return g
		}
	}
	return nil
}

func startsWith(doc *ast.CommentGroup, name string) bool {
	if doc == nil {
		return false
	}
	text := strings.TrimSpace(doc.Text())
	// "A Source ..." and "An Emitter ..." read naturally too.
	for _, article := range []string{"", "A ", "An ", "The "} {
		if strings.HasPrefix(text, article+name) {
			return true
		}
	}
	return false
}

func exportedReceiver(recv *ast.FieldList) bool {
	if len(recv.List) == 0 {
		return false
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	ident, ok := expr.(*ast.Ident)
	return ok && ident.IsExported()
}

func TestUndocumentedFlagsMissingDocs(t *testing.T) {
	t.Parallel()

	src := `package p

// Documented does things.
func Documented() {}

func Bare() {}

// wrong prefix
type Thing struct{}

// Limits bound the walk.
const (
	MaxA = 1
	MaxB = 2
)

func (t *Thing) Method() {}

type hidden struct{}

func (hidden) Exported() {}
`
	file, err := parser.ParseFile(token.NewFileSet(), "p.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	got := strings.Join(undocumented(file), ",")
	if got != "Bare,Thing,Method" {
		t.Errorf("undocumented() = %q, want %q", got, "Bare,Thing,Method")
	}
}
