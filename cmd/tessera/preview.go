package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/tessera/internal/presentation/tui"
	"github.com/aretw0/tessera/pkg/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Expand a markdown file and render it in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd)
		eng := newEngine(cfg, logger)

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		baseDir := filepath.Dir(path)
		if cfg.TemplatesDir != "" {
			baseDir = cfg.TemplatesDir
		}

		exp := eng.Expand(domain.Document{
			Text:    string(data),
			BaseDir: baseDir,
			Source:  args[0],
		})

		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner()
		}

		render := tui.NewRenderer()
		out, err := render(exp.Text)
		if err != nil {
			// Fall back to the raw expansion when the terminal renderer chokes.
			out = exp.Text
		}
		fmt.Fprint(cmd.OutOrStdout(), out)

		for _, diag := range exp.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", diag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("banner", false, "Print the tessera banner before the preview")
}
