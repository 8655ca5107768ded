package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/tessera"
	mcpAdapter "github.com/aretw0/tessera/internal/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the expansion engine as an MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd)

		dir, _ := cmd.Flags().GetString("dir")
		baseDir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}

		server := mcpAdapter.NewServer(newEngine(cfg, logger), baseDir, tessera.Version)
		return server.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("dir", ".", "Base directory for relative template paths")
}
