// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/cljs2js/compiler"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// Configuration keys.  Each is also a persistent flag of the root command
// and may be set in the config file or as a CLJS2JS_ environment variable.
const (
	keyRuntimeNamespace = "runtime-namespace"
	keyIndentSize       = "indent-size"
	keySemicolons       = "semicolons"
	keyReader           = "reader"
	keyColor            = "color"
	keyVerbose          = "verbose"
	keyTrace            = "trace"
	keyTraceExporter    = "trace-exporter"
)

// Tracing APIs accepted by the trace-exporter setting.
const (
	traceOpenTelemetry = "otel"
	traceOpenCensus    = "opencensus"
)

var cfgFile string

// errReported is returned by commands whose diagnostics were already
// written to stderr.
var errReported = errors.New("problems reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cljs2js",
	Short: "cljs2js translates a Clojure-family Lisp to JavaScript",
	Long: `cljs2js translates source written in a Clojure-family Lisp into
readable JavaScript.

Getting started:
  cljs2js compile app.cljs         Print the JavaScript for a file
  cljs2js compile -o out src/...   Write out/<name>.js for every source file
  cljs2js compile -e '(inc x)'     Translate an expression
  cljs2js check src/...            Report every translation error
  cljs2js read app.cljs            Show the syntax tree the reader produces
  cljs2js doc if-let               Show the usage of a special form
  cljs2js repl                     Start an interactive translation session
  cljs2js lsp                      Start the language server

Language overview:
  Special forms (def, defn, fn, let, loop, recur, if-let, and, or, ...)
  lower to statements and expressions.  Any other list is a call.  Vectors
  and keywords become runtime constructor calls in the runtime namespace
  (default cljs.core).  The reader macros @x, #_form and #(...) with the
  placeholders %, %N and %& are supported.

Configuration:
  Flags may also be set in $HOME/.cljs2js.yaml or through environment
  variables such as CLJS2JS_RUNTIME_NAMESPACE and CLJS2JS_INDENT_SIZE.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd.ErrOrStderr())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "cljs2js:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 1 when problems were found in the input and 2 for a bad
// invocation or an I/O failure.
func exitCode(err error) int {
	if errors.Is(err, errReported) {
		return 1
	}
	return 2
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cljs2js.yaml)")
	flags.String(keyColor, "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.String(keyRuntimeNamespace, "cljs.core",
		"Namespace of the runtime library that vectors, keywords and core functions are taken from.")
	flags.Int(keyIndentSize, 2, "Spaces per indentation level in generated code.")
	flags.Bool(keySemicolons, true, "Terminate generated statements with semicolons.")
	flags.String(keyReader, "rd", `Source reader: "rd" (recursive descent) or "parsec" (parser combinators).`)
	flags.BoolP(keyVerbose, "v", false, "Log each translated form.")
	flags.Bool(keyTrace, false, "Log a span for each file and top-level form.")
	flags.String(keyTraceExporter, traceOpenTelemetry,
		`Tracing API spans are recorded with: "otel" or "opencensus".`)

	for _, key := range []string{
		keyColor, keyRuntimeNamespace, keyIndentSize, keySemicolons,
		keyReader, keyVerbose, keyTrace, keyTraceExporter,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		// Search config in home directory with name ".cljs2js" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".cljs2js")
	}

	viper.SetEnvPrefix("cljs2js")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	_ = viper.ReadInConfig()
}

// setupLogging configures the standard logger, which the compiler, the
// language server and span export all write to.  Logs go to w so they never
// mix with generated code on stdout.
func setupLogging(w io.Writer) error {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case viper.GetBool(keyVerbose):
		logrus.SetLevel(logrus.DebugLevel)
	case viper.GetBool(keyTrace):
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		logrus.WithField("file", f).Debug("using config file")
	}
	if !viper.GetBool(keyTrace) {
		return nil
	}
	switch api := viper.GetString(keyTraceExporter); api {
	case traceOpenTelemetry:
		otel.SetTracerProvider(compiler.NewLogTracerProvider(logrus.StandardLogger()))
	case traceOpenCensus:
		compiler.RegisterOpenCensusLogExporter(logrus.StandardLogger())
	default:
		return fmt.Errorf("unknown trace exporter: %q", api)
	}
	return nil
}
