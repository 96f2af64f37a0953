// Copyright © 2024 The ELPS authors

package transtest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/luthersystems/cljs2js/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SourceExt and GoldenExt name the input and expected output files of a
// golden test directory.
const (
	SourceExt = ".cljs"
	GoldenExt = ".js"
)

// Runner is a golden file test runner.
type Runner struct {
	// Compile translates a source file.  When Compile is nil a compiler
	// logging to the test is used.
	Compile func(t testing.TB, name string, r io.Reader) ([]byte, error)

	// Update rewrites golden files with the actual output instead of
	// comparing against them.
	Update bool
}

func (r *Runner) compile(t testing.TB, name string, src io.Reader) ([]byte, error) {
	if r.Compile != nil {
		return r.Compile(t, name, src)
	}
	c := compiler.New(compiler.WithLogger(NewLogrus(t)))
	return c.Compile(context.Background(), name, src)
}

// SourceFiles returns the sorted source files in dir.
func SourceFiles(t testing.TB, dir string) []string {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+SourceExt))
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

// Golden compiles the file at path and compares the output with the file
// next to it carrying GoldenExt.
func (r *Runner) Golden(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	require.NoError(t, err, "Unable to read source file")
	got, err := r.compile(t, filepath.Base(path), bytes.NewReader(source))
	require.NoError(t, err, "Compile failed")

	golden := strings.TrimSuffix(path, SourceExt) + GoldenExt
	if r.Update {
		require.NoError(t, os.WriteFile(golden, got, 0o644)) //#nosec G306
		return
	}
	want, err := os.ReadFile(golden) //#nosec G304
	require.NoError(t, err, "Unable to read golden file")
	assert.Equal(t, string(want), string(got), "output differs from %s", golden)
}

// RunGoldenDir runs Golden as a subtest for every source file in dir.
func (r *Runner) RunGoldenDir(t *testing.T, dir string) {
	paths := SourceFiles(t, dir)
	require.NotEmpty(t, paths, "no %s files in %s", SourceExt, dir)
	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			r.Golden(t, path)
		})
	}
}

// BenchmarkCompile returns a benchmark compiling the file at path.
func BenchmarkCompile(path string) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		c := compiler.New()
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := c.Compile(context.Background(), "bench", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Compile failure: %v", err)
			}
		}
	}
}
