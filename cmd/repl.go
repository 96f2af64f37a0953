// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/cljs2js/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive translation session",
	Long: `Start an interactive session that prints the JavaScript for each form
as soon as it is complete.

Definitions made with def and defn are remembered for tab completion and
generated names keep counting up across the session, as they would within
one file. Line editing and command history are supported via readline.
Use Ctrl-D to exit.

Example session:
  cljs2js> (defn sq [x] (* x x))
    function sq(x) {
      return x * x;
    }
  cljs2js> (def n (sq 3))
    var n = sq(3);`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := colorMode()
		if err != nil {
			return err
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithRuntimeNamespace(viper.GetString(keyRuntimeNamespace)),
			repl.WithFormatConfig(formatConfig()),
			repl.WithColor(mode),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
