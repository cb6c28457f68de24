package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - catalog connectivity check
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Check catalog connectivity - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Define tool - resolve a name and return the term card
	mcp.AddTool(server, &mcp.Tool{
		Name:        "define_term",
		Description: "Look up a business glossary term and return its definition card with linked assets",
	}, NewDefineTermHandler(deps))

	// Assets tool - linked assets for a resolved term
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_assets",
		Description: "List the data assets linked to a business glossary term",
	}, NewFindAssetsHandler(deps))

	// List tool - glossary browsing
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_terms",
		Description: "List the terms available in the business glossary",
	}, NewListTermsHandler(deps))

	// Search tool - raw candidate matches without resolution
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_terms",
		Description: "Search glossary terms by name fragment and return raw candidate matches",
	}, NewSearchTermsHandler(deps))
}
