package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tessera/internal/cli"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Expand a markdown tree into an output directory",
	Long: `Walks the source directory, expands every markdown document, and writes
the result to the output directory. Non-markdown files are copied through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if src, _ := cmd.Flags().GetString("src"); src != "" {
			cfg.SourceDir = src
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.OutputDir = out
		}
		if tpl, _ := cmd.Flags().GetString("templates-dir"); tpl != "" {
			cfg.TemplatesDir = tpl
		}

		logger := newLogger(cmd)
		_, err = cli.Build(newEngine(cfg, logger), cli.BuildOptions{
			SourceDir:    cfg.SourceDir,
			OutputDir:    cfg.OutputDir,
			TemplatesDir: cfg.TemplatesDir,
		}, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("src", "", "Source directory (overrides config)")
	buildCmd.Flags().String("out", "", "Output directory (overrides config)")
	buildCmd.Flags().String("templates-dir", "", "Resolve template paths against this directory")
}
