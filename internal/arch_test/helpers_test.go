package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

const (
	modulePath  = "github.com/papapumpkin/montage"
	internalPfx = modulePath + "/internal/"
)

// pkg is one parsed package under internal/.
type pkg struct {
	Name  string
	Dir   string
	Fset  *token.FileSet
	Files map[string]*ast.File // non-test files by path
	Tests []string             // _test.go paths
}

// sources returns the package's non-test file paths in order.
func (p pkg) sources() []string {
	paths := make([]string, 0, len(p.Files))
	for path := range p.Files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// internalImports returns the internal packages p imports, by first path
// element after internal/.
func (p pkg) internalImports() []string {
	var out []string
	for _, f := range p.Files {
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			rel, ok := strings.CutPrefix(path, internalPfx)
			if !ok {
				continue
			}
			rel, _, _ = strings.Cut(rel, "/")
			if !slices.Contains(out, rel) {
				out = append(out, rel)
			}
		}
	}
	slices.Sort(out)
	return out
}

// repoRoot walks up from this file to the directory holding go.mod.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	for dir := filepath.Dir(file); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("no go.mod above " + file)
		}
		dir = parent
	}
}

// loadPackages parses every package under internal/ except this one.
func loadPackages(t *testing.T) []pkg {
	t.Helper()
	root := filepath.Join(repoRoot(t), "internal")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading %s: %v", root, err)
	}

	var pkgs []pkg
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		p := pkg{
			Name:  e.Name(),
			Dir:   filepath.Join(root, e.Name()),
			Fset:  token.NewFileSet(),
			Files: make(map[string]*ast.File),
		}
		files, err := os.ReadDir(p.Dir)
		if err != nil {
			t.Fatalf("reading %s: %v", p.Dir, err)
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, ".go") {
				continue
			}
			path := filepath.Join(p.Dir, name)
			if strings.HasSuffix(name, "_test.go") {
				p.Tests = append(p.Tests, path)
				continue
			}
			node, err := parser.ParseFile(p.Fset, path, nil, parser.ParseComments)
			if err != nil {
				t.Fatalf("parsing %s: %v", path, err)
			}
			p.Files[path] = node
		}
		if len(p.Files) > 0 {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// parseSource parses synthetic source for the checkers' own tests.
func parseSource(t *testing.T, fset *token.FileSet, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing synthetic source: %v", err)
	}
	return f
}

// rel shortens path to start at internal/ for messages.
func rel(path string) string {
	if i := strings.Index(path, "internal/"); i >= 0 {
		return path[i:]
	}
	return filepath.Base(path)
}

func TestLoadPackages(t *testing.T) {
	t.Parallel()
	var names []string
	for _, p := range loadPackages(t) {
		names = append(names, p.Name)
	}
	for _, want := range []string{"command", "manip", "model", "placement", "tui"} {
		if !slices.Contains(names, want) {
			t.Errorf("package %s not loaded, got %v", want, names)
		}
	}
	if slices.Contains(names, "arch_test") {
		t.Error("arch_test checks itself")
	}
}

func TestInternalImports(t *testing.T) {
	t.Parallel()
	for _, p := range loadPackages(t) {
		if p.Name != "placement" {
			continue
		}
		got := p.internalImports()
		if !slices.Contains(got, "command") || !slices.Contains(got, "model") {
			t.Errorf("placement imports %v, want command and model", got)
		}
		return
	}
	t.Fatal("placement not loaded")
}
