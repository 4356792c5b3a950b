// Command stackvm assembles and runs stack programs.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/stackvm/config"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	trace      bool

	settings config.Config
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stackvm",
	Short: "Assembler and interpreter for a 16-bit stack machine",
	Long: `Stackvm reads programs written in a small stack-machine assembly
language, one instruction per line, and executes them over an operand
stack of 16-bit unsigned numbers and a table of named variables.

Settings come from an optional YAML or TOML file, then from STACKVM_*
environment variables, then from flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML or TOML settings file")
	flags.StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "", "text or json")
	flags.BoolVar(&trace, "trace", false, "log every executed instruction")
}

func loadSettings(cmd *cobra.Command) error {
	settings = config.Default()

	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	settings = settings.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		settings.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		settings.LogFormat = logFormat
	}
	if flags.Changed("trace") {
		settings.Trace = trace
	}
	if flags.Changed("lint") {
		settings.Lint = runLint
	}
	if flags.Changed("simulate") {
		settings.Simulate = simulate
	}
	if flags.Changed("freq") {
		settings.FreqGHz = freqGHz
	}
	if flags.Changed("dump-state") {
		settings.DumpState = dumpState
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	logger = settings.Logger(os.Stderr)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(exitCode(err))
	}

	atexit.Exit(0)
}
