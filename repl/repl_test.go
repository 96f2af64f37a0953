// Copyright © 2024 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/cljs2js/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		opts = append([]Option{
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever),
		}, opts...)
		RunRepl("cljs> ", opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".cljs2js_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".cljs2js_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "def",
			input:    "(def x 1)\n",
			expected: []string{"  var x = 1;\n"},
		},
		{
			name:     "arithmetic",
			input:    "(+ 1 2)\n",
			expected: []string{"  1 + 2;\n"},
		},
		{
			name:     "multiline form",
			input:    "(defn f [x]\n  (inc x))\n",
			expected: []string{"  function f(x) {\n    return x + 1;\n  }\n"},
		},
		{
			name:     "names are unique across inputs",
			input:    "(or a b)\n(or a b)\n",
			expected: []string{"var or$1 = a;", "var or$3 = a;"},
		},
		{
			name:  "translation error",
			input: "(def x)\n(def y 2)\n",
			expected: []string{
				"error: malformed special form",
				"def of x requires a value",
				"= note: run `cljs2js doc`",
				"  var y = 2;\n",
			},
		},
		{
			name:     "syntax error",
			input:    "(def x ]\n",
			expected: []string{"error: syntax error"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunReplOptions(t *testing.T) {
	got := runReplWithString(t, "(when-not a @b)\n",
		WithRuntimeNamespace("rt"),
		WithIndent(0),
	)
	assert.Contains(t, got, "if (rt.not(a)) {\n  rt.deref(b);\n}\n")
}
