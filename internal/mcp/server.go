package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ammosync/internal/config"
	"ammosync/internal/dispatch"
	"ammosync/internal/store"
)

// Server exposes the sheet and the event bus as MCP tools. db should be the
// bus's observed store so tool writes are handled like player edits.
type Server struct {
	layout *config.Sheet
	db     store.Store
	bus    *dispatch.Bus
	mcp    *sdk.Server
}

func NewServer(layout *config.Sheet, db store.Store, bus *dispatch.Bus, version string) *Server {
	s := &Server{
		layout: layout,
		db:     db,
		bus:    bus,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "ammosync",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
