// Package models defines data structures shared across the lexicat catalog assistant.
package models

// Entity is the normalized view of a catalog asset or glossary term.
// Field names mirror the catalog's attribute names so that raw search
// responses and normalized entities stay recognizable side by side.
type Entity struct {
	Name                string   `json:"name"`
	DisplayName         string   `json:"displayName,omitempty"`
	Description         string   `json:"description,omitempty"`
	QualifiedName       string   `json:"qualifiedName,omitempty"`
	GUID                string   `json:"guid,omitempty"`
	TypeName            string   `json:"typeName,omitempty"`
	CertificateStatus   string   `json:"certificateStatus,omitempty"`
	OwnerUsers          []string `json:"ownerUsers"`
	OwnerGroups         []string `json:"ownerGroups"`
	MeaningNames        []string `json:"meaningNames"`
	AssetTags           []string `json:"assetTags,omitempty"`
	Categories          []string `json:"categories,omitempty"`
	TermType            string   `json:"termType,omitempty"`
	Abbreviation        string   `json:"abbreviation,omitempty"`
	Examples            []string `json:"examples,omitempty"`
	AnnouncementTitle   string   `json:"announcementTitle,omitempty"`
	AnnouncementMessage string   `json:"announcementMessage,omitempty"`
	ConnectorName       string   `json:"connectorName,omitempty"`
	ConnectionName      string   `json:"connectionName,omitempty"`
	DatabaseName        string   `json:"databaseName,omitempty"`
	SchemaName          string   `json:"schemaName,omitempty"`
	PopularityScore     float64  `json:"popularityScore,omitempty"`
	StarredCount        int      `json:"starredCount,omitempty"`
	ViewScore           float64  `json:"viewScore,omitempty"`
}

// SearchResult wraps a page of normalized entities.
type SearchResult struct {
	Entities []Entity `json:"entities"`
	Count    int      `json:"count"`
}
