package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tessera"
	"github.com/aretw0/tessera/internal/config"
	"github.com/aretw0/tessera/internal/logging"
	"github.com/aretw0/tessera/pkg/book"
)

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Tessera expands template invocations in markdown documents",
	Long: `Tessera resolves {{#template}} invocations in markdown files, splicing
in template files with [[#argument]] placeholders filled from the call site.

Run without a subcommand it acts as an mdBook preprocessor, reading the
[context, book] pair from stdin and writing the rewritten book to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		eng := tessera.New(tessera.WithLogger(logger))
		pre := book.NewPreprocessor(eng, logger)
		return pre.Run(cmd.InOrStdin(), cmd.OutOrStdout())
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the tessera config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(level))
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newEngine(cfg config.Config, logger *slog.Logger) *tessera.Engine {
	opts := []tessera.Option{tessera.WithLogger(logger)}
	if cfg.MaxDepth > 0 {
		opts = append(opts, tessera.WithMaxDepth(cfg.MaxDepth))
	}
	return tessera.New(opts...)
}
