// Package catalog talks to the metadata catalog's index search API and
// normalizes its hits into models.Entity records.
package catalog

import (
	"context"

	"github.com/mflister/lexicat/internal/models"
)

// Catalog is the read-only search surface the conversation engine needs.
// Two implementations exist: the HTTP Client and the fixture-backed Demo.
type Catalog interface {
	// SearchTerms looks up active glossary terms matching name.
	// An empty name lists the glossary instead.
	SearchTerms(ctx context.Context, name string) ([]models.Entity, error)

	// FindLinkedAssets returns assets linked to a glossary term, falling
	// back from the recorded term relationship to name-based searches.
	FindLinkedAssets(ctx context.Context, termGUID, termName string) ([]models.Entity, error)

	// Ping verifies the catalog answers at all.
	Ping(ctx context.Context) error
}
