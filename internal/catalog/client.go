package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/models"
)

const (
	searchPath     = "/api/meta/search/indexsearch"
	requestTimeout = 30 * time.Second
	retryDelay     = 500 * time.Millisecond

	termSearchSize = 10
	listSize       = 50
	maxAssets      = 40
	broadSize      = 30
)

// Client queries the catalog's index search API with bearer-token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Collector
}

var _ Catalog = (*Client)(nil)

// NewClient creates a catalog client for the given base URL and API token.
func NewClient(baseURL, token string, logger *slog.Logger, collector *metrics.Collector) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
		metrics: collector,
	}
}

// SearchTerms looks up active glossary terms matching name. An empty name
// lists the glossary: the wildcard block is dropped and the page enlarged.
func (c *Client) SearchTerms(ctx context.Context, name string) ([]models.Entity, error) {
	start := time.Now()

	clauses := boolClauses{
		must: []map[string]any{
			termClause("__typeName.keyword", "AtlasGlossaryTerm"),
			termClause("__state", "ACTIVE"),
		},
	}
	size := listSize
	if name != "" {
		clauses.should = []map[string]any{
			wildcardClause("name", name),
			wildcardClause("displayName", name),
			matchClause("name", name),
			matchClause("displayName", name),
		}
		clauses.minimumShouldMatch = 1
		size = termSearchSize
	}

	raw, err := c.post(ctx, searchRequest{
		DSL:        searchDSL{Query: boolQuery(clauses)},
		Attributes: termAttributes,
		Size:       size,
	})
	c.metrics.RecordTiming(metrics.OpCatalogSearch, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpCatalogSearch)
		return nil, err
	}

	entities := normalizeAll(raw, size)
	c.logger.Debug("term search complete", "query", name, "hits", len(entities))
	return entities, nil
}

// FindLinkedAssets returns assets linked to a glossary term. Three passes,
// most precise first: the recorded term relationship, then name matching,
// then a broader keyword sweep. Results are deduplicated by GUID and capped.
func (c *Client) FindLinkedAssets(ctx context.Context, termGUID, termName string) ([]models.Entity, error) {
	start := time.Now()
	assets, err := c.findLinkedAssets(ctx, termGUID, termName)
	c.metrics.RecordTiming(metrics.OpCatalogAssets, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpCatalogAssets)
		return nil, err
	}
	c.logger.Debug("asset search complete", "term", termName, "hits", len(assets))
	return assets, nil
}

func (c *Client) findLinkedAssets(ctx context.Context, termGUID, termName string) ([]models.Entity, error) {
	if termGUID != "" {
		raw, err := c.post(ctx, searchRequest{
			DSL: searchDSL{Query: boolQuery(boolClauses{
				must: []map[string]any{
					termClause("__state", "ACTIVE"),
					termClause("meanings.termGuid.keyword", termGUID),
				},
			})},
			Attributes: assetAttributes,
			Size:       maxAssets,
		})
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			return normalizeAll(raw, maxAssets), nil
		}
	}

	if termName == "" {
		return []models.Entity{}, nil
	}

	raw, err := c.post(ctx, nameSearch(termName, maxAssets))
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		return normalizeAll(raw, maxAssets), nil
	}

	// Broader sweep on the significant words of the term name. Individual
	// keyword failures are logged and skipped rather than aborting the turn.
	seen := make(map[string]bool)
	assets := []models.Entity{}
	for _, word := range significantWords(termName, 2) {
		raw, err := c.post(ctx, nameSearch(word, broadSize))
		if err != nil {
			c.logger.Warn("keyword sweep failed", "keyword", word, "error", err)
			continue
		}
		for _, r := range raw {
			e := Normalize(r)
			if e.GUID != "" {
				if seen[e.GUID] {
					continue
				}
				seen[e.GUID] = true
			}
			assets = append(assets, e)
		}
	}
	if len(assets) > maxAssets {
		assets = assets[:maxAssets]
	}
	return assets, nil
}

// Ping verifies the catalog answers a minimal search.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.post(ctx, searchRequest{
		DSL: searchDSL{Query: boolQuery(boolClauses{
			must: []map[string]any{termClause("__state", "ACTIVE")},
		})},
		Size: 1,
	})
	return err
}

// nameSearch matches assets whose name or descriptions mention the text.
func nameSearch(text string, size int) searchRequest {
	return searchRequest{
		DSL: searchDSL{Query: boolQuery(boolClauses{
			must: []map[string]any{termClause("__state", "ACTIVE")},
			should: []map[string]any{
				wildcardClause("name", text),
				wildcardClause("description", text),
				wildcardClause("userDescription", text),
				matchClause("name", text),
				matchClause("description", text),
				matchClause("userDescription", text),
			},
			minimumShouldMatch: 1,
		})},
		Attributes: assetAttributes,
		Size:       size,
	}
}

// significantWords returns up to max lowercased words of the name longer
// than three characters, falling back to the whole lowercased name.
func significantWords(name string, max int) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		w = strings.Trim(w, "()")
		if len(w) > 3 {
			words = append(words, w)
		}
		if len(words) == max {
			break
		}
	}
	if len(words) == 0 {
		return []string{strings.ToLower(strings.TrimSpace(name))}
	}
	return words
}

func normalizeAll(raw []map[string]any, limit int) []models.Entity {
	if len(raw) > limit {
		raw = raw[:limit]
	}
	out := make([]models.Entity, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}

// post sends one indexsearch request, retrying once on transient failure.
func (c *Client) post(ctx context.Context, body searchRequest) ([]map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
		raw, retryable, err := c.doSearch(ctx, payload)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// doSearch performs a single request. The bool result reports whether the
// failure is worth one retry (transport errors and 5xx responses).
func (c *Client) doSearch(ctx context.Context, payload []byte) ([]map[string]any, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, wrapUnavailable("search request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, wrapUnavailable("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500,
			fmt.Errorf("%w: search returned %s: %s", ErrUnavailable, resp.Status, truncateBody(respBody))
	}

	var decoded searchResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, false, fmt.Errorf("unmarshal search response: %w", err)
	}
	return decoded.raw(), false, nil
}

func truncateBody(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
