// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/luthersystems/cljs2js/docs"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// DocCommand creates the "doc" cobra command.
func DocCommand() *cobra.Command {
	var (
		listNames bool
		guide     bool
		width     uint
	)

	cmd := &cobra.Command{
		Use:   "doc [flags] [FORM]",
		Short: "Show documentation for special forms",
		Long: `Show the usage and a summary of the special forms the translator
understands.

With no argument every special form is listed. Operators and interop forms
share documentation by family, so "doc >=" and "doc .-length" work as well.
A list headed by any other symbol is translated as an ordinary call.

Examples:
  cljs2js doc                Describe every special form
  cljs2js doc loop           Show docs for loop
  cljs2js doc -l             List the names of the special forms
  cljs2js doc --guide        Print the language guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if guide {
				fmt.Fprint(out, docs.Guide)
				return nil
			}
			if listNames {
				for _, d := range translate.Forms() {
					fmt.Fprintln(out, d.Name)
				}
				return nil
			}
			if len(args) == 0 {
				for i, d := range translate.Forms() {
					if i > 0 {
						fmt.Fprintln(out)
					}
					renderFormDoc(out, d, width)
				}
				return nil
			}
			d, ok := translate.LookupForm(args[0])
			if !ok {
				return fmt.Errorf("%s is not a special form; (%s ...) is translated as a call", args[0], args[0])
			}
			renderFormDoc(out, d, width)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listNames, "list", "l", false,
		"List the names of the special forms only.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language guide.")
	cmd.Flags().UintVarP(&width, "width", "w", 72,
		"Wrap summaries at this many columns.")
	return cmd
}

// renderFormDoc writes the usage of d followed by its summary wrapped to
// width and indented beneath it.
func renderFormDoc(w io.Writer, d translate.FormDoc, width uint) {
	const pad = 4
	wrap := int(width) - pad
	if wrap < 20 {
		wrap = 20
	}
	fmt.Fprintln(w, d.Usage)
	fmt.Fprintln(w, indent.String(wordwrap.String(d.Summary, wrap), pad))
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
