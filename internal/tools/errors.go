package tools

import (
	"errors"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrorResult creates a tool error result with optional recovery hint.
// If hint is non-empty, formats as "{msg}. {hint}".
// Returns IsError=true so LLM can see the error and self-correct.
func ErrorResult(msg, hint string) *mcp.CallToolResult {
	text := msg
	if hint != "" {
		text = msg + ". " + hint
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// TextResult creates a success result with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// CatalogError maps a failed catalog call onto a tool error result.
func CatalogError(err error) *mcp.CallToolResult {
	if errors.Is(err, catalog.ErrUnavailable) {
		return ErrorResult("Catalog is unreachable", "Check the catalog URL and API token, then retry")
	}
	return ErrorResult("Catalog request failed", err.Error())
}
