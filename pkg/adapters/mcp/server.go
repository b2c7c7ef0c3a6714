// Package mcp exposes the commands of a running application as Model Context
// Protocol tools, one tool per command.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps a running bootstrap.Context and exposes it as an MCP Server.
type Server struct {
	app       *bootstrap.Context
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance for app.
func NewServer(app *bootstrap.Context, version string) *Server {
	s := &Server{
		app:       app,
		mcpServer: server.NewMCPServer(app.Identifier(), strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Listen serves the protocol on in/out until ctx is done or in is exhausted.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// ToolName maps a namespaced command name to an MCP tool name.
// "plugin:os|platform" becomes "os_platform".
func ToolName(command string) string {
	name := strings.TrimPrefix(command, "plugin:")
	return strings.NewReplacer("|", "_", "-", "_").Replace(name)
}

func (s *Server) registerTools() {
	for _, name := range s.app.Commands().List() {
		tool := mcp.NewTool(ToolName(name),
			mcp.WithDescription(fmt.Sprintf("Invoke the %s command.", name)),
			mcp.WithString("args", mcp.Description("JSON object with the command arguments (optional)")),
		)
		s.mcpServer.AddTool(tool, s.commandHandler(name))
	}
}

func (s *Server) commandHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw, ok := request.GetArguments()["args"].(string); ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("args must be a JSON object: %v", err)), nil
			}
		}

		result, err := s.app.Invoke(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
		}
		jsonBytes, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}
}

const pluginsURI = "appshell://plugins"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(pluginsURI, "Registered plugins",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.app.Plugins())
		if err != nil {
			return nil, fmt.Errorf("failed to encode plugins: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      pluginsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
