package response

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolResult renders an outcome as an MCP tool result. The text is passed
// through verbatim; every class but OK is flagged as an error.
func ToolResult(o Outcome) *mcp.CallToolResult {
	if o.Class == OK {
		return mcp.NewToolResultText(o.Text)
	}
	return mcp.NewToolResultError(o.Text)
}

// Text extracts the text parts of an MCP tool result, joined by newlines.
// The second return value reports whether the result was flagged as an error.
func Text(result *mcp.CallToolResult) (string, bool) {
	if result == nil {
		return "", true
	}

	var parts []string
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n"), result.IsError
}
