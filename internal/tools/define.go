package tools

import (
	"context"
	"strings"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/intent"
	"github.com/mflister/lexicat/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefineTermInput defines the input schema for the define_term tool.
type DefineTermInput struct {
	Term string `json:"term" jsonschema:"required,The glossary term name or abbreviation to define"`
}

// NewDefineTermHandler creates the define_term tool handler.
// Resolves the name against the glossary and returns a markdown term card.
func NewDefineTermHandler(deps *Dependencies) mcp.ToolHandlerFor[DefineTermInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DefineTermInput) (
		*mcp.CallToolResult, any, error,
	) {
		term := strings.TrimSpace(input.Term)
		if term == "" {
			return ErrorResult("term cannot be empty", "Provide a glossary term name"), nil, nil
		}
		term = intent.ExpandAbbreviation(term)

		candidates, err := deps.Catalog.SearchTerms(ctx, term)
		if err != nil {
			deps.Logger.Error("glossary search failed", "term", term, "error", err)
			return CatalogError(err), nil, nil
		}

		match, alternates := catalog.Resolve(term, candidates)
		if match == nil {
			// Near-misses and flat misses are answers, not protocol errors.
			if len(alternates) > 0 {
				return TextResult(deps.Composer.AmbiguousTerm(term, alternates, models.IntentDefineTerm)), nil, nil
			}
			return TextResult(deps.Composer.DefineNotFound(term)), nil, nil
		}

		// A failed asset lookup degrades to a card without the asset table.
		assets, err := deps.Catalog.FindLinkedAssets(ctx, match.GUID, match.Name)
		if err != nil {
			deps.Logger.Warn("linked assets lookup failed", "term", match.Name, "error", err)
			assets = nil
		}

		deps.Logger.Info("define_term completed", "term", match.Name, "assets", len(assets))
		return TextResult(deps.Composer.TermCard(*match, assets)), nil, nil
	}
}
