// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/cljs2js/compiler"
	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/spf13/cobra"
)

// CheckCommand creates the "check" cobra command.
func CheckCommand() *cobra.Command {
	var (
		jsonOut  bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "check [flags] [files...]",
		Short: "Report every translation error in source files",
		Long: `Report every translation error in source files without writing any
JavaScript.

Unlike compile, check keeps going after a failing top-level form so a single
run lists every problem in a file. A syntax error still ends the check of
that file.

With no files, reads from stdin.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Examples:
  cljs2js check app.cljs                  # Check a single file
  cljs2js check --json src/...            # Output problems as JSON
  cljs2js check --exclude='gen_*' src/... # Skip generated files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := compilerOptions()
			if err != nil {
				return err
			}
			c := compiler.New(opts...)
			rep, err := newReporter(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			type input struct {
				name string
				src  []byte
			}
			var inputs []input
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				inputs = append(inputs, input{stdinSourceName, src})
			} else {
				paths, err := expandArgs(args, excludes)
				if err != nil {
					return err
				}
				for _, path := range paths {
					src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
					if err != nil {
						return err
					}
					inputs = append(inputs, input{path, src})
				}
			}

			var problems []error
			for _, in := range inputs {
				errs, err := c.Check(commandContext(cmd), in.name, bytes.NewReader(in.src))
				if err != nil {
					errs = append(errs, err)
				}
				rep.source(in.name, in.src)
				problems = append(problems, errs...)
			}
			if len(problems) == 0 {
				return nil
			}
			if jsonOut {
				if err := formatJSON(cmd.OutOrStdout(), problems); err != nil {
					return err
				}
				return errReported
			}
			for _, err := range problems {
				rep.report(err, checkNotes(err)...)
			}
			return rep.err()
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output problems as JSON.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// checkNotes suggests the doc command for malformed special forms.
func checkNotes(err error) []string {
	if errors.Is(err, translate.ErrMalformedSpecialForm) || errors.Is(err, translate.ErrUnsupportedArity) {
		return []string{"run `cljs2js doc` to see the usage of each special form"}
	}
	return nil
}

// problem is the JSON form of a reported error.
type problem struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func formatJSON(w io.Writer, errs []error) error {
	out := make([]problem, 0, len(errs))
	for _, err := range errs {
		p := problem{Kind: "error", Message: err.Error()}
		var loc *token.Location
		var terr *translate.Error
		var lerr *token.LocationError
		switch {
		case errors.As(err, &terr):
			p.Kind = terr.Err.Error()
			p.Message = terr.Message
			loc = terr.Source
		case errors.As(err, &lerr):
			p.Kind = "syntax error"
			p.Message = lerr.Err.Error()
			loc = lerr.Source
		}
		if loc != nil {
			p.File, p.Line, p.Col = loc.File, loc.Line, loc.Col
		}
		out = append(out, p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
