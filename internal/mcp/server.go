// Package mcp bridges the tool registry onto the MCP protocol: it builds
// the mcp-go tool schemas from the registry's definitions and routes tool
// calls through the dispatch boundary.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/langsmith-mcp/internal/common"
	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// NewServer creates an MCP server exposing every registered tool. The
// transport (stdio or streamable HTTP) is chosen by the caller.
func NewServer(name string, registry *tools.Registry, logger *common.Logger) *server.MCPServer {
	srv := server.NewMCPServer(
		name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	registered := RegisterTools(srv, registry, logger)
	logger.Info().Int("tools", registered).Msg("MCP server initialized")
	return srv
}

// RegisterTools adds every registry tool to the MCP server, in catalog
// order. Returns the number of tools registered.
func RegisterTools(srv *server.MCPServer, registry *tools.Registry, logger *common.Logger) int {
	defs := registry.List()
	for _, def := range defs {
		srv.AddTool(BuildTool(def), dispatchHandler(registry, def.Name, logger))
	}
	return len(defs)
}

// BuildTool converts a registry definition into an mcp.Tool with the
// matching parameter schema.
func BuildTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(def.Name, opts...)
}

// buildParamOption maps a ParamSpec to the appropriate mcp-go tool option.
func buildParamOption(p tools.ParamSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case tools.TypeInteger:
		return mcp.WithNumber(p.Name, opts...)
	case tools.TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	case tools.TypeStringList:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// dispatchHandler routes an MCP tool call through the registry's dispatch
// boundary. The envelope is always well-formed; a transport-level error is
// never returned.
func dispatchHandler(registry *tools.Registry, name string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		correlationID := uuid.NewString()
		log := logger.WithCorrelationId(correlationID)
		log.Debug().Str("tool", name).Msg("dispatching tool call")

		env := registry.Dispatch(ctx, name, r.GetArguments())

		payload, err := json.Marshal(env)
		if err != nil {
			// The envelope itself failed to serialize; report that as the
			// final internal error rather than crashing the session.
			fallback := tools.Failure(tools.Errorf(tools.KindInternal, "failed to encode response"))
			payload, _ = json.Marshal(fallback)
			env = fallback
		}

		if env.IsError() {
			log.Warn().Str("tool", name).Str("kind", string(env.Error.Kind)).Msg("tool call returned error envelope")
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(payload))},
			IsError: env.IsError(),
		}, nil
	}
}
