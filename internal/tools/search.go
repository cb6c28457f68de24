package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mflister/lexicat/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchTermsInput defines the input schema for the search_terms tool.
type SearchTermsInput struct {
	Query string `json:"query" jsonschema:"required,The term name fragment to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results 1-50, default 10"`
}

// NewSearchTermsHandler creates the search_terms tool handler.
// Unlike define_term it skips resolution and returns the raw candidate
// matches, so callers can disambiguate themselves.
func NewSearchTermsHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchTermsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchTermsInput) (
		*mcp.CallToolResult, any, error,
	) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return ErrorResult("query cannot be empty", "Provide a term name fragment"), nil, nil
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			return ErrorResult("limit must be 1-50", "Reduce limit value"), nil, nil
		}

		entities, err := deps.Catalog.SearchTerms(ctx, query)
		if err != nil {
			deps.Logger.Error("glossary search failed", "query", query, "error", err)
			return CatalogError(err), nil, nil
		}
		if len(entities) > limit {
			entities = entities[:limit]
		}
		if entities == nil {
			entities = []models.Entity{}
		}

		result := models.SearchResult{
			Entities: entities,
			Count:    len(entities),
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		// Log completion (truncate query to 30 chars)
		queryLog := query
		if len(queryLog) > 30 {
			queryLog = queryLog[:30] + "..."
		}
		deps.Logger.Info("search_terms completed", "query", queryLog, "results", len(entities))

		return TextResult(string(jsonBytes)), nil, nil
	}
}
