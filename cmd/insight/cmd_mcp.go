package main

import (
	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run insight as an MCP (Model Context Protocol) server so agents can
query the overview, trend, drivers, targeting, churn risk, and the
impact simulator as tools. Communicates over stdin/stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}

			server := mcp.NewServer(&mcp.Config{
				Name:    "insight",
				Version: version,
			}, svc, st)

			// Run blocks until the client disconnects; it closes the store.
			return server.Run(cmd.Context())
		},
	}
}
