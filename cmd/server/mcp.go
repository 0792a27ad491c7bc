package main

import (
	"github.com/spf13/cobra"

	"github.com/rl1809/stock-assistant/internal/adapter/handler"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the inventory tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		defer a.shutdown()

		logger.Info("MCP server ready on stdio")
		return handler.ServeStdio(handler.NewMCPServer(handler.NewMCPHandler(a.service), Version))
	},
}
