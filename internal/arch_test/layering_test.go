package arch_test

import "testing"

// layers places every internal package in the dependency order. A package
// may import packages on its own layer or below.
var layers = map[string]int{
	"ansi":      0,
	"config":    0,
	"indexlist": 0,
	"journal":   0,
	"sortlist":  0,

	"model": 1,

	"command": 2,
	"project": 2,
	"render":  2,

	"placement": 3,
	"telemetry": 3,

	"manip": 4,

	"ui": 5,

	"tui": 6,
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()
	for _, p := range loadPackages(t) {
		from, ok := layers[p.Name]
		if !ok {
			continue
		}
		for _, imp := range p.internalImports() {
			if to, ok := layers[imp]; ok && to > from {
				t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)", p.Name, from, imp, to)
			}
		}
	}
}

// TestEveryPackageHasLayer forces new packages into the layer map.
func TestEveryPackageHasLayer(t *testing.T) {
	t.Parallel()
	for _, p := range loadPackages(t) {
		if _, ok := layers[p.Name]; !ok {
			t.Errorf("package %s has no layer; add it to layers", p.Name)
		}
	}
}

// The model layer stays free of anything that knows about commands or gestures.
func TestModelImportsOnlyContainers(t *testing.T) {
	t.Parallel()
	for _, p := range loadPackages(t) {
		if p.Name != "model" {
			continue
		}
		for _, imp := range p.internalImports() {
			if imp != "indexlist" && imp != "sortlist" {
				t.Errorf("model imports %s", imp)
			}
		}
	}
}
