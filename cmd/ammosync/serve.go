package main

import (
	"context"

	"github.com/spf13/cobra"

	"ammosync/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	server := mcp.NewServer(h.layout, h.db, h.bus, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
