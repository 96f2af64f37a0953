// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/cljs2js/compiler"
	"github.com/spf13/cobra"
)

// Source names used for input that does not come from a file.
const (
	exprSourceName  = "<expr>"
	stdinSourceName = "<stdin>"
)

// CompileCommand creates the "compile" cobra command.
func CompileCommand() *cobra.Command {
	var (
		expression string
		outDir     string
		excludes   []string
	)

	cmd := &cobra.Command{
		Use:   "compile [flags] [files...]",
		Short: "Translate source files to JavaScript",
		Long: `Translate source files to JavaScript.

With no files, reads from stdin. Without -o the generated code of every file
is written to stdout in order. With -o DIR each file is written to
DIR/<name>.js. A directory followed by /... stands for every source file
beneath it.

Translation stops at the first error in a file; the error is reported with
an annotated source snippet and the remaining files are still translated.

Exit codes:
  0  Every file was translated
  1  One or more files failed to translate
  2  Bad invocation (invalid flags, unreadable files)

Examples:
  cljs2js compile app.cljs                  # Print the JavaScript for a file
  cljs2js compile -o build src/...          # Translate a tree into build/
  cljs2js compile -e '(defn f [x] (inc x))' # Translate an expression
  cljs2js compile --indent-size 4 app.cljs  # Indent generated code by 4
  cat app.cljs | cljs2js compile            # Translate stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := compilerOptions()
			if err != nil {
				return err
			}
			rep, err := newReporter(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cc := &compileCmd{
				ctx:    commandContext(cmd),
				c:      compiler.New(opts...),
				rep:    rep,
				stdout: cmd.OutOrStdout(),
				outDir: outDir,
			}

			switch {
			case expression != "":
				if len(args) > 0 {
					return fmt.Errorf("files may not be given with --expression")
				}
				if err := cc.compile(exprSourceName, []byte(expression)); err != nil {
					return err
				}
			case len(args) == 0:
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				if err := cc.compile(stdinSourceName, src); err != nil {
					return err
				}
			default:
				paths, err := expandArgs(args, excludes)
				if err != nil {
					return err
				}
				for _, path := range paths {
					src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
					if err != nil {
						return err
					}
					if err := cc.compile(path, src); err != nil {
						return err
					}
				}
			}
			return rep.err()
		},
	}

	cmd.Flags().StringVarP(&expression, "expression", "e", "",
		"Translate the given source text instead of files.")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "",
		"Write each translated file to this directory instead of stdout.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

type compileCmd struct {
	ctx    context.Context
	c      *compiler.Compiler
	rep    *reporter
	stdout io.Writer
	outDir string
}

// compile translates one source.  Translation errors are reported and do
// not stop the command; only output failures are returned.
func (cc *compileCmd) compile(name string, src []byte) error {
	cc.rep.source(name, src)
	js, err := cc.c.Compile(cc.ctx, name, bytes.NewReader(src))
	if err != nil {
		cc.rep.report(err)
		return nil
	}
	if cc.outDir == "" || name == exprSourceName || name == stdinSourceName {
		_, err := cc.stdout.Write(js)
		return err
	}
	if err := os.MkdirAll(cc.outDir, 0o755); err != nil { //nolint:gosec // generated code is world readable
		return err
	}
	return os.WriteFile(outputPath(cc.outDir, name), js, 0o644) //nolint:gosec // generated code is world readable
}

// outputPath returns the file that the translation of path is written to.
func outputPath(dir, path string) string {
	base := filepath.Base(path)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".js")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(CompileCommand())
}
