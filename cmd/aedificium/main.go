// aedificium reconstructs hidden door graphs from walk observations.
//
// Usage:
//
//	aedificium solve    [--problem=<name>] [--local] [--engine=auto|merge|exhaustive]
//	aedificium serve    [--addr=host:port] [--seed=<n>]
//	aedificium bench    [--problem=<name>] [--runs=<n>] [--parallel=<n>]
//	aedificium replay   --archive=<path> [run-id]
//	aedificium problems
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/aedificium/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config   string
	logLevel string
}

// cfg and logger are filled by the root pre-run hook.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aedificium",
	Short: "Reconstruct hidden door graphs from walk observations",
	Long: "aedificium explores a hidden graph of labelled six-door rooms through an\n" +
		"oracle, rebuilds the map from the observed labels and submits it.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: loadConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "YAML configuration file")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(rootFlags.config)
	if err != nil {
		return err
	}
	if rootFlags.logLevel != "" {
		c.Log.Level = rootFlags.logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	l, err := c.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, logger = c, l

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
