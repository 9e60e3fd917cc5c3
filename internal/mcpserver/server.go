// Package mcpserver exposes the CAD tool catalogue as an MCP server.
package mcpserver

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/tools"
)

// Name is the server identity reported during MCP initialization.
const Name = "AutoCAD-Architect-Server"

const instructions = "Tools drive a running AutoCAD session through the cadmcp add-in. " +
	"If a tool reports that AutoCAD is unreachable, start the MCP Server from the " +
	"'MCP Tools' ribbon or run STARTMCP, then retry."

// Server wraps the MCP server bound to one dispatcher.
type Server struct {
	mcp    *server.MCPServer
	logger zerolog.Logger
}

// New registers every catalogue tool with a handler that forwards to d.
func New(d *tools.Dispatcher, version string, logger zerolog.Logger) *Server {
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
	)
	for _, spec := range d.Registry().Specs() {
		s.AddTool(tools.MCPTool(spec), handler(d, spec.Command))
	}
	return &Server{mcp: s, logger: logger}
}

func handler(d *tools.Dispatcher, cmd tools.Command) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := d.Invoke(ctx, string(cmd), request.GetArguments())
		return response.ToolResult(out), nil
	}
}

// MCP returns the underlying server, for in-process clients.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve speaks MCP over the given stdio streams until in is closed or ctx
// is canceled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger.With().Str("component", "stdio").Logger(), "", 0))

	s.logger.Info().Str("server", Name).Msg("serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
