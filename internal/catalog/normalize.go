package catalog

import (
	"strconv"

	"github.com/mflister/lexicat/internal/models"
)

// Normalize converts one raw search hit into a models.Entity. It is total:
// any input shape, including nil, yields a usable record. Values nested
// under "attributes" take priority over top-level keys, wrapped scalars
// and list elements are unwrapped, and a bare single value is promoted to
// a one-element list.
func Normalize(raw map[string]any) models.Entity {
	attrs, _ := raw["attributes"].(map[string]any)

	e := models.Entity{
		Name:                resolveName(raw, attrs),
		DisplayName:         stringField(raw, attrs, "displayName"),
		Description:         resolveDescription(raw, attrs),
		QualifiedName:       stringField(raw, attrs, "qualifiedName"),
		GUID:                stringField(raw, attrs, "guid"),
		TypeName:            stringField(raw, attrs, "typeName"),
		CertificateStatus:   resolveCertificate(raw, attrs),
		OwnerUsers:          listField(raw, attrs, "ownerUsers"),
		OwnerGroups:         listField(raw, attrs, "ownerGroups"),
		MeaningNames:        resolveMeaningNames(raw, attrs),
		AssetTags:           listField(raw, attrs, "assetTags"),
		Categories:          listField(raw, attrs, "categories"),
		TermType:            stringField(raw, attrs, "termType"),
		Abbreviation:        stringField(raw, attrs, "abbreviation"),
		Examples:            listField(raw, attrs, "examples"),
		AnnouncementTitle:   stringField(raw, attrs, "announcementTitle"),
		AnnouncementMessage: stringField(raw, attrs, "announcementMessage"),
		ConnectorName:       stringField(raw, attrs, "connectorName"),
		ConnectionName:      stringField(raw, attrs, "connectionName"),
		DatabaseName:        stringField(raw, attrs, "databaseName"),
		SchemaName:          stringField(raw, attrs, "schemaName"),
		PopularityScore:     floatField(raw, attrs, "popularityScore"),
		StarredCount:        intField(raw, attrs, "starredCount"),
		ViewScore:           floatField(raw, attrs, "viewScore"),
	}

	// Part of the record contract even when the source omits them.
	if e.OwnerUsers == nil {
		e.OwnerUsers = []string{}
	}
	if e.OwnerGroups == nil {
		e.OwnerGroups = []string{}
	}
	if e.MeaningNames == nil {
		e.MeaningNames = []string{}
	}
	return e
}

// resolveName walks the name fallback chain. Entities always get a name.
func resolveName(raw, attrs map[string]any) string {
	if s := stringFrom(attrs, "name"); s != "" {
		return s
	}
	if s := stringFrom(attrs, "displayName"); s != "" {
		return s
	}
	if s := stringFrom(raw, "displayText"); s != "" {
		return s
	}
	if s := stringFrom(raw, "name"); s != "" {
		return s
	}
	return "Unknown"
}

// resolveDescription prefers the human-curated description, then the
// generated ones, then whatever a readme sub-record carries.
func resolveDescription(raw, attrs map[string]any) string {
	for _, key := range []string{"userDescription", "description", "longDescription", "shortDescription"} {
		if s := stringFrom(attrs, key); s != "" {
			return s
		}
		if s := stringFrom(raw, key); s != "" {
			return s
		}
	}
	if v, ok := pick(raw, attrs, "readme"); ok {
		return readmeText(v)
	}
	return ""
}

// readmeText digs a usable description out of a readme sub-record, which
// is itself entity-shaped (or occasionally a plain string).
func readmeText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if attrs, ok := t["attributes"].(map[string]any); ok {
			if s := stringFrom(attrs, "description"); s != "" {
				return s
			}
			if s := stringFrom(attrs, "content"); s != "" {
				return s
			}
		}
		if s := stringFrom(t, "description"); s != "" {
			return s
		}
		return stringFrom(t, "content")
	}
	return ""
}

// resolveCertificate accepts the certificate status under any of the key
// spellings the catalog has used over time.
func resolveCertificate(raw, attrs map[string]any) string {
	for _, key := range []string{"certificateStatus", "certificationStatus", "status"} {
		if s := stringField(raw, attrs, key); s != "" {
			return s
		}
	}
	return ""
}

// resolveMeaningNames prefers the flat meaningNames list and falls back to
// the display text of linked meaning records.
func resolveMeaningNames(raw, attrs map[string]any) []string {
	if names := listField(raw, attrs, "meaningNames"); len(names) > 0 {
		return names
	}
	v, ok := pick(raw, attrs, "meanings")
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := m["displayText"].(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pick returns the first present non-nil value for key, preferring the
// nested attributes map over the top level.
func pick(raw, attrs map[string]any, key string) (any, bool) {
	if v, ok := attrs[key]; ok && v != nil {
		return v, true
	}
	if v, ok := raw[key]; ok && v != nil {
		return v, true
	}
	return nil, false
}

func stringField(raw, attrs map[string]any, key string) string {
	v, ok := pick(raw, attrs, key)
	if !ok {
		return ""
	}
	return unwrapString(v)
}

func stringFrom(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return unwrapString(v)
}

// unwrapString extracts a string from a scalar that may arrive wrapped in
// a value/text/content object. Primitive non-strings are stringified;
// anything else is dropped.
func unwrapString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"value", "text", "content"} {
			if inner, ok := t[k]; ok && inner != nil {
				if s := unwrapString(inner); s != "" {
					return s
				}
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// listField unwraps a list whose elements may be wrapped objects. A bare
// single value is promoted to a one-element list.
func listField(raw, attrs map[string]any, key string) []string {
	v, ok := pick(raw, attrs, key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		if s := unwrapElement(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := unwrapElement(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// unwrapElement extracts the display string from a list element, which may
// be a plain string or an object keyed by name, value, or displayName.
func unwrapElement(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"name", "value", "displayName"} {
			if inner, ok := t[k]; ok {
				if s, ok := inner.(string); ok && s != "" {
					return s
				}
			}
		}
		return ""
	default:
		return ""
	}
}

func floatField(raw, attrs map[string]any, key string) float64 {
	v, ok := pick(raw, attrs, key)
	if !ok {
		return 0
	}
	return floatOf(v)
}

func floatOf(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err == nil {
			return f
		}
	case map[string]any:
		if inner, ok := t["value"]; ok {
			return floatOf(inner)
		}
	}
	return 0
}

func intField(raw, attrs map[string]any, key string) int {
	return int(floatField(raw, attrs, key))
}
