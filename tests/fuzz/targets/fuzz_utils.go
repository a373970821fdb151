package targets

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
	"github.com/funvibe/gradual/tests/fuzz/generators"
)

// LoadCorpus loads all fixture files from the given directories and adds them to the fuzz corpus.
func LoadCorpus(f *testing.F, dirs ...string) {
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && slices.Contains(config.FixtureFileExtensions, filepath.Ext(path)) {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				f.Add(data)
			}
			return nil
		})
		if err != nil {
			// It's okay if we can't load examples, just log it
			f.Logf("Failed to load corpus from %s: %v", dir, err)
		}
	}
}

// addSeeds registers byte seeds that drive the generators down different paths.
func addSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3})
	f.Add([]byte("gradual"))
	f.Add([]byte{9, 9, 9, 9, 6, 7, 8, 5, 9, 6, 5})
	f.Add([]byte{3, 0, 2, 1, 7, 7, 7, 8, 8, 8, 9, 9, 9, 1, 2, 3, 4, 5, 6})
}

// seedOf derives a deterministic seed from fuzz input.
func seedOf(data []byte) int64 {
	seed := int64(len(data))
	for _, b := range data {
		seed = seed*31 + int64(b)
	}
	return seed
}

// newWorld builds a random frozen hierarchy driven by data.
func newWorld(data []byte) (*generators.Generator, *symbols.Table) {
	gen := generators.NewFromData(data)
	return gen, gen.GenerateHierarchy()
}

// mustParse parses a generated expression; the generator only emits valid ones.
func mustParse(t *testing.T, st *symbols.Table, src string) typesystem.Type {
	t.Helper()
	typ, err := typeexpr.Parse(st, src)
	if err != nil {
		t.Fatalf("generated expression %q does not parse: %v", src, err)
	}
	return typ
}

func isJoin(t typesystem.Type) bool {
	return t.Tag() == typesystem.TagOr || t.Tag() == typesystem.TagAnd
}
