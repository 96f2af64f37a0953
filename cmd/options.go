// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/cljs2js/compiler"
	"github.com/luthersystems/cljs2js/diagnostic"
	"github.com/luthersystems/cljs2js/formatter"
	"github.com/luthersystems/cljs2js/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// formatConfig returns the printing configuration selected by the
// indent-size and semicolons settings.
func formatConfig() *formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.IndentSize = viper.GetInt(keyIndentSize)
	cfg.Semicolons = viper.GetBool(keySemicolons)
	return cfg
}

// compilerOptions builds compiler options from the command configuration.
func compilerOptions() ([]compiler.Option, error) {
	reader, err := parser.ReaderNamed(viper.GetString(keyReader))
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithReader(reader),
		compiler.WithFormatConfig(formatConfig()),
		compiler.WithRuntimeNamespace(viper.GetString(keyRuntimeNamespace)),
		compiler.WithLogger(logrus.StandardLogger()),
	}
	if viper.GetBool(keyTrace) && viper.GetString(keyTraceExporter) == traceOpenCensus {
		opts = append(opts, compiler.WithTracer(compiler.NewOpenCensusTracer()))
	}
	return opts, nil
}

// colorMode returns the configured diagnostic color mode.
func colorMode() (diagnostic.ColorMode, error) {
	return diagnostic.ParseColorMode(viper.GetString(keyColor))
}
