package arch_test

import (
	"go/ast"
	"go/token"
	"slices"
	"testing"
)

// allowedColocations lists interfaces that may live beside their
// implementations.
var allowedColocations = map[string][]string{
	// Command and Merger are the undo protocol; the stock commands ship
	// with it so every package can record edits without another import.
	"command": {"Command", "Merger"},
	// The three gesture kinds share one Manipulator surface that callers
	// pick by what is grabbed.
	"manip": {"Manipulator"},
	// Anchorable spans both top-level items and sequence items, which are
	// defined here.
	"model": {"Anchorable"},
}

// TestInterfacePlacement flags interfaces declared in the package that
// also implements them, matching by method names. Interfaces belong with
// their consumers.
func TestInterfacePlacement(t *testing.T) {
	t.Parallel()
	for _, p := range loadPackages(t) {
		t.Run(p.Name, func(t *testing.T) {
			t.Parallel()
			methods := methodSets(p)
			for _, path := range p.sources() {
				for name, want := range interfaces(p.Files[path]) {
					if len(want) == 0 || slices.Contains(allowedColocations[p.Name], name) {
						continue
					}
					for typ, have := range methods {
						if containsAll(have, want) {
							t.Errorf("%s: interface %s is implemented by %s in the same package; move it to its consumer",
								rel(path), name, typ)
						}
					}
				}
			}
		})
	}
}

// interfaces maps each interface declared in f to its named methods.
func interfaces(f *ast.File) map[string][]string {
	out := make(map[string][]string)
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			it, ok := ts.Type.(*ast.InterfaceType)
			if !ok {
				continue
			}
			var names []string
			for _, m := range it.Methods.List {
				for _, n := range m.Names {
					names = append(names, n.Name)
				}
			}
			out[ts.Name.Name] = names
		}
	}
	return out
}

// methodSets maps each receiver type name in p to its method names.
func methodSets(p pkg) map[string][]string {
	out := make(map[string][]string)
	for _, f := range p.Files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil {
				continue
			}
			expr := fd.Recv.List[0].Type
			if star, ok := expr.(*ast.StarExpr); ok {
				expr = star.X
			}
			if idx, ok := expr.(*ast.IndexExpr); ok {
				expr = idx.X
			}
			if id, ok := expr.(*ast.Ident); ok {
				out[id.Name] = append(out[id.Name], fd.Name.Name)
			}
		}
	}
	return out
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
