// Copyright © 2024 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/cljs2js/astutil"
	"github.com/luthersystems/cljs2js/parser"
	"github.com/luthersystems/cljs2js/syntax"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ReadCommand creates the "read" cobra command.
func ReadCommand() *cobra.Command {
	var expression string

	cmd := &cobra.Command{
		Use:   "read [flags] [file]",
		Short: "Print the syntax tree of a source file",
		Long: `Print the syntax tree the reader produces for a source file, one node
per line, indented by depth. Useful for checking how reader macros and
literals are read before they are translated.

Examples:
  cljs2js read app.cljs
  cljs2js read -e '#(+ % %2)'
  cljs2js read --reader parsec app.cljs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := parser.ReaderNamed(viper.GetString(keyReader))
			if err != nil {
				return err
			}
			var (
				name string
				src  []byte
			)
			switch {
			case expression != "":
				name, src = exprSourceName, []byte(expression)
			case len(args) == 0:
				name = stdinSourceName
				if src, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			default:
				name = args[0]
				if src, err = os.ReadFile(name); err != nil { //nolint:gosec // CLI tool reads user-specified files
					return err
				}
			}
			program, err := reader.Read(name, bytes.NewReader(src))
			if err != nil {
				rep, rerr := newReporter(cmd.ErrOrStderr())
				if rerr != nil {
					return rerr
				}
				rep.source(name, src)
				rep.report(err)
				return rep.err()
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			writeTree(out, program)
			return nil
		},
	}

	cmd.Flags().StringVarP(&expression, "expression", "e", "",
		"Read the given source text instead of a file.")
	return cmd
}

// writeTree writes one line per node: its position, kind and, for atoms,
// its text.
func writeTree(w io.Writer, root *syntax.Node) {
	astutil.Walk(root, func(node, _ *syntax.Node, depth int) {
		pos := "-"
		if node.Source != nil && node.Source.Line > 0 {
			pos = fmt.Sprintf("%d:%d", node.Source.Line, node.Source.Col)
		}
		fmt.Fprintf(w, "%-7s %s%s", pos, strings.Repeat("  ", depth), node.Kind)
		switch node.Kind {
		case syntax.Symbol, syntax.Keyword:
			fmt.Fprintf(w, " %s", node.Str)
		case syntax.String:
			fmt.Fprintf(w, " %q", node.Str)
		case syntax.Number:
			fmt.Fprintf(w, " %s", node.Raw)
		case syntax.Boolean:
			fmt.Fprintf(w, " %t", node.Bool)
		case syntax.Macro:
			if node.Left != nil {
				fmt.Fprintf(w, " %s", node.Left.Str)
			}
		}
		fmt.Fprintln(w)
	})
}

func init() {
	rootCmd.AddCommand(ReadCommand())
}
