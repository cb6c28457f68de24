package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListTermsInput defines the input schema for the list_terms tool.
type ListTermsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max terms 1-50, default 50"`
}

// TermSummary is one glossary term in the list_terms response.
type TermSummary struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	CertificateStatus string `json:"certificateStatus,omitempty"`
}

// ListTermsResult is the response from the list_terms tool.
type ListTermsResult struct {
	Terms []TermSummary `json:"terms"`
	Count int           `json:"count"`
}

// NewListTermsHandler creates the list_terms tool handler.
func NewListTermsHandler(deps *Dependencies) mcp.ToolHandlerFor[ListTermsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListTermsInput) (
		*mcp.CallToolResult, any, error,
	) {
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		if limit > 50 {
			return ErrorResult("limit must be 1-50", "Reduce limit value"), nil, nil
		}

		terms, err := deps.Catalog.SearchTerms(ctx, "")
		if err != nil {
			deps.Logger.Error("glossary listing failed", "error", err)
			return CatalogError(err), nil, nil
		}
		if len(terms) > limit {
			terms = terms[:limit]
		}

		result := ListTermsResult{
			Terms: make([]TermSummary, len(terms)),
			Count: len(terms),
		}
		for i, term := range terms {
			result.Terms[i] = TermSummary{
				Name:              term.Name,
				Description:       term.Description,
				CertificateStatus: term.CertificateStatus,
			}
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		deps.Logger.Info("list_terms completed", "terms", len(terms))
		return TextResult(string(jsonBytes)), nil, nil
	}
}
