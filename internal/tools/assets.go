package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/intent"
	"github.com/mflister/lexicat/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FindAssetsInput defines the input schema for the find_assets tool.
type FindAssetsInput struct {
	Term  string `json:"term" jsonschema:"required,The glossary term whose linked assets to list"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max assets 1-40, default 10"`
}

// FindAssetsResult is the response from the find_assets tool.
type FindAssetsResult struct {
	Term   string          `json:"term"`
	Assets []models.Entity `json:"assets"`
	Count  int             `json:"count"`
}

// NewFindAssetsHandler creates the find_assets tool handler.
// Resolves the term, then follows its recorded asset links.
func NewFindAssetsHandler(deps *Dependencies) mcp.ToolHandlerFor[FindAssetsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FindAssetsInput) (
		*mcp.CallToolResult, any, error,
	) {
		term := strings.TrimSpace(input.Term)
		if term == "" {
			return ErrorResult("term cannot be empty", "Provide a glossary term name"), nil, nil
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 10
		}
		if limit > 40 {
			return ErrorResult("limit must be 1-40", "Reduce limit value"), nil, nil
		}
		term = intent.ExpandAbbreviation(term)

		candidates, err := deps.Catalog.SearchTerms(ctx, term)
		if err != nil {
			deps.Logger.Error("glossary search failed", "term", term, "error", err)
			return CatalogError(err), nil, nil
		}

		match, alternates := catalog.Resolve(term, candidates)
		if match == nil {
			if len(alternates) > 0 {
				return TextResult(deps.Composer.AmbiguousTerm(term, alternates, models.IntentFindAssets)), nil, nil
			}
			return TextResult(deps.Composer.FindNotFound(term)), nil, nil
		}

		assets, err := deps.Catalog.FindLinkedAssets(ctx, match.GUID, match.Name)
		if err != nil {
			deps.Logger.Error("linked assets lookup failed", "term", match.Name, "error", err)
			return CatalogError(err), nil, nil
		}
		if len(assets) > limit {
			assets = assets[:limit]
		}
		if assets == nil {
			assets = []models.Entity{}
		}

		result := FindAssetsResult{
			Term:   match.Name,
			Assets: assets,
			Count:  len(assets),
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		deps.Logger.Info("find_assets completed", "term", match.Name, "assets", len(assets))
		return TextResult(string(jsonBytes)), nil, nil
	}
}
