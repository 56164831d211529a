// Package handlers translates normalized tool calls into backend
// operations and shapes the raw results into each tool's response.
package handlers

import (
	"time"

	"github.com/bobmcallan/langsmith-mcp/internal/tools"
)

// projectPart strips the owner from a qualified "owner/project" name.
// Bare names pass through unchanged; both forms address the same project.
func projectPart(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// splitPromptName splits "owner/name" into its parts. A bare name gets the
// hub's anonymous owner "-".
func splitPromptName(name string) (owner, repo string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			return name[:i], name[i+1:]
		}
	}
	return "-", name
}

// optString reads an optional string argument, treating the literal string
// "null" as absent. Some MCP clients serialize missing optionals that way.
func optString(args tools.Args, name string) string {
	v := args.String(name)
	if v == "null" {
		return ""
	}
	return v
}

// parseTimestamp validates an RFC 3339 timestamp argument.
func parseTimestamp(param, value string) error {
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return tools.Errorf(tools.KindValidation, "parameter %q must be an RFC 3339 timestamp, got %q", param, value)
	}
	return nil
}
