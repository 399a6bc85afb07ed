package router

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joshp123/dyson-mcp/internal/tools"
)

// NewMCPServer builds an MCP server exposing every tool in registry.
func NewMCPServer(name, version, instructions string, registry *tools.Registry) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)
	RegisterTools(s, registry)
	return s
}

// RegisterTools registers registry's tools on the MCP server. Calls are
// dispatched back through the registry by name.
func RegisterTools(s *server.MCPServer, registry *tools.Registry) {
	for _, tool := range registry.Tools() {
		s.AddTool(toMCPTool(tool), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result := registry.Call(ctx, req.Params.Name, req.GetArguments())
			if result.IsError {
				return mcp.NewToolResultError(result.Text), nil
			}
			return mcp.NewToolResultText(result.Text), nil
		})
	}
}

func toMCPTool(tool tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(tool.Description)}
	for _, param := range tool.Params {
		props := []mcp.PropertyOption{mcp.Description(param.Description)}
		if param.Required {
			props = append(props, mcp.Required())
		}
		switch param.Kind {
		case tools.KindBoolean:
			opts = append(opts, mcp.WithBoolean(param.Name, props...))
		default:
			opts = append(opts, mcp.WithString(param.Name, props...))
		}
	}
	return mcp.NewTool(tool.Name, opts...)
}
