package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeNameChain(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			"attributes name wins",
			map[string]any{
				"displayText": "Display Text",
				"attributes":  map[string]any{"name": "Real Name", "displayName": "Display"},
			},
			"Real Name",
		},
		{
			"attributes displayName second",
			map[string]any{
				"displayText": "Display Text",
				"attributes":  map[string]any{"displayName": "Display"},
			},
			"Display",
		},
		{
			"displayText third",
			map[string]any{"displayText": "Display Text", "name": "Top Name"},
			"Display Text",
		},
		{
			"top-level name fourth",
			map[string]any{"name": "Top Name"},
			"Top Name",
		},
		{"nil map", nil, "Unknown"},
		{"empty map", map[string]any{}, "Unknown"},
		{
			"wrapped name",
			map[string]any{"attributes": map[string]any{"name": map[string]any{"value": "Wrapped"}}},
			"Wrapped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.Name != tt.want {
				t.Errorf("Normalize(%v).Name = %q, want %q", tt.raw, got.Name, tt.want)
			}
		})
	}
}

func TestNormalizeDescriptionChain(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			"userDescription first",
			map[string]any{"attributes": map[string]any{
				"userDescription": "curated",
				"description":     "generated",
			}},
			"curated",
		},
		{
			"description second",
			map[string]any{"attributes": map[string]any{
				"description":     "generated",
				"longDescription": "long",
			}},
			"generated",
		},
		{
			"top-level fallback per key",
			map[string]any{"userDescription": "top curated"},
			"top curated",
		},
		{
			"longDescription third",
			map[string]any{"attributes": map[string]any{"longDescription": "long"}},
			"long",
		},
		{
			"readme attributes description",
			map[string]any{"attributes": map[string]any{
				"readme": map[string]any{"attributes": map[string]any{"description": "from readme"}},
			}},
			"from readme",
		},
		{
			"readme content",
			map[string]any{"attributes": map[string]any{
				"readme": map[string]any{"attributes": map[string]any{"content": "readme body"}},
			}},
			"readme body",
		},
		{
			"readme plain string",
			map[string]any{"readme": "plain readme"},
			"plain readme",
		},
		{
			"wrapped text scalar",
			map[string]any{"attributes": map[string]any{
				"description": map[string]any{"text": "wrapped text"},
			}},
			"wrapped text",
		},
		{"nothing", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.Description != tt.want {
				t.Errorf("Normalize(%v).Description = %q, want %q", tt.raw, got.Description, tt.want)
			}
		})
	}
}

func TestNormalizeCertificateKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"certificateStatus", map[string]any{"attributes": map[string]any{"certificateStatus": "VERIFIED"}}, "VERIFIED"},
		{"certificationStatus", map[string]any{"attributes": map[string]any{"certificationStatus": "DRAFT"}}, "DRAFT"},
		{"status", map[string]any{"status": "DEPRECATED"}, "DEPRECATED"},
		{"missing", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.CertificateStatus != tt.want {
				t.Errorf("CertificateStatus = %q, want %q", got.CertificateStatus, tt.want)
			}
		})
	}
}

func TestNormalizeLists(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{
			"plain strings",
			map[string]any{"attributes": map[string]any{"ownerUsers": []any{"alice", "bob"}}},
			[]string{"alice", "bob"},
		},
		{
			"wrapped elements",
			map[string]any{"attributes": map[string]any{"ownerUsers": []any{
				map[string]any{"name": "alice"},
				map[string]any{"value": "bob"},
				map[string]any{"displayName": "carol"},
			}}},
			[]string{"alice", "bob", "carol"},
		},
		{
			"bare single value promoted",
			map[string]any{"attributes": map[string]any{"ownerUsers": "alice"}},
			[]string{"alice"},
		},
		{
			"unusable elements dropped",
			map[string]any{"attributes": map[string]any{"ownerUsers": []any{42, nil, "alice"}}},
			[]string{"alice"},
		},
		{
			"absent stays empty not nil",
			map[string]any{},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.OwnerUsers == nil {
				t.Fatal("OwnerUsers must never be nil")
			}
			if !reflect.DeepEqual(got.OwnerUsers, tt.want) {
				t.Errorf("OwnerUsers = %v, want %v", got.OwnerUsers, tt.want)
			}
		})
	}
}

func TestNormalizeMeaningNamesFallback(t *testing.T) {
	raw := map[string]any{
		"attributes": map[string]any{
			"meanings": []any{
				map[string]any{"termGuid": "g1", "displayText": "Customer Acquisition Cost (CAC)"},
				map[string]any{"termGuid": "g2"},
			},
		},
	}
	got := Normalize(raw)
	want := []string{"Customer Acquisition Cost (CAC)"}
	if !reflect.DeepEqual(got.MeaningNames, want) {
		t.Errorf("MeaningNames = %v, want %v", got.MeaningNames, want)
	}
}

func TestNormalizeNumbers(t *testing.T) {
	raw := map[string]any{
		"attributes": map[string]any{
			"popularityScore": 0.85,
			"starredCount":    float64(3),
			"viewScore":       map[string]any{"value": 12.5},
		},
	}
	got := Normalize(raw)
	if got.PopularityScore != 0.85 {
		t.Errorf("PopularityScore = %v, want 0.85", got.PopularityScore)
	}
	if got.StarredCount != 3 {
		t.Errorf("StarredCount = %d, want 3", got.StarredCount)
	}
	if got.ViewScore != 12.5 {
		t.Errorf("ViewScore = %v, want 12.5", got.ViewScore)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	raw := map[string]any{
		"typeName": "Table",
		"guid":     "abc-123",
		"attributes": map[string]any{
			"name":           "Marketing Spend Analysis",
			"qualifiedName":  "default/snowflake/marketing_spend",
			"connectorName":  "snowflake",
			"connectionName": "production",
			"databaseName":   "analytics",
			"schemaName":     "marts",
			"termType":       "KPI",
			"abbreviation":   "MSA",
		},
	}
	got := Normalize(raw)
	if got.TypeName != "Table" || got.GUID != "abc-123" {
		t.Errorf("top-level passthrough failed: %+v", got)
	}
	if got.QualifiedName != "default/snowflake/marketing_spend" ||
		got.ConnectorName != "snowflake" ||
		got.ConnectionName != "production" ||
		got.DatabaseName != "analytics" ||
		got.SchemaName != "marts" ||
		got.TermType != "KPI" ||
		got.Abbreviation != "MSA" {
		t.Errorf("attribute passthrough failed: %+v", got)
	}
}
