package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "mcp",
		Short:   "Serve the journal to assistants over MCP (stdio)",
		GroupID: "more",
		Long: `Start a Model Context Protocol server on stdin/stdout. Every tool acts on
the journal of the configured user, and entries it creates are marked as
coming from an external integration.

Example client entry:

  {"command": "bujo", "args": ["mcp", "--user", "me"]}`,
		Args: cobra.NoArgs,
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.NewServer(a.engine, a.coll, a.userID(), version)

			// stdout carries JSON-RPC; everything else goes to the logger.
			a.logger.Printf("MCP server started for user %s", a.userID())
			return server.ServeStdio(srv, server.WithErrorLogger(a.logger))
		}),
	}
}
