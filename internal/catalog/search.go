package catalog

// searchRequest is the payload for the catalog's indexsearch endpoint.
// Size and the attribute projection sit beside the query DSL.
type searchRequest struct {
	DSL        searchDSL `json:"dsl"`
	Attributes []string  `json:"attributes,omitempty"`
	Size       int       `json:"size"`
}

type searchDSL struct {
	Query map[string]any `json:"query"`
}

// searchResponse covers both envelopes the endpoint produces: a flat
// entities list or an Elasticsearch-style hits wrapper.
type searchResponse struct {
	Entities []map[string]any `json:"entities"`
	Hits     searchHits       `json:"hits"`
}

type searchHits struct {
	Hits []searchHit `json:"hits"`
}

type searchHit struct {
	Source map[string]any `json:"_source"`
}

// raw returns the raw entity maps regardless of envelope.
func (r searchResponse) raw() []map[string]any {
	if len(r.Entities) > 0 {
		return r.Entities
	}
	out := make([]map[string]any, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		if h.Source != nil {
			out = append(out, h.Source)
		}
	}
	return out
}

// boolClauses assembles a bool query from its parts.
type boolClauses struct {
	must               []map[string]any
	should             []map[string]any
	minimumShouldMatch int
}

func boolQuery(c boolClauses) map[string]any {
	b := map[string]any{}
	if len(c.must) > 0 {
		b["must"] = c.must
	}
	if len(c.should) > 0 {
		b["should"] = c.should
		if c.minimumShouldMatch > 0 {
			b["minimum_should_match"] = c.minimumShouldMatch
		}
	}
	return map[string]any{"bool": b}
}

func termClause(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

// wildcardClause wraps the text in * markers for substring matching.
func wildcardClause(field, text string) map[string]any {
	return map[string]any{"wildcard": map[string]any{field: "*" + text + "*"}}
}

func matchClause(field, text string) map[string]any {
	return map[string]any{"match": map[string]any{field: text}}
}

// termAttributes is the glossary attribute set requested for term searches.
var termAttributes = []string{
	"name", "displayName", "description", "userDescription", "longDescription",
	"qualifiedName", "guid", "certificateStatus", "ownerUsers", "ownerGroups",
	"assetTags", "termType", "popularityScore", "starredCount", "abbreviation",
	"examples", "readme", "connectorName", "connectionName", "meaningNames",
}

// assetAttributes is the slimmer set requested for linked-asset searches.
var assetAttributes = []string{
	"name", "displayName", "typeName", "qualifiedName", "guid", "description",
	"userDescription", "certificateStatus", "ownerUsers", "ownerGroups",
	"meanings", "connectorName", "connectionName", "databaseName", "schemaName",
}
