// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/respond"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture. Tool calls are
// stateless; conversation context lives in the chat engine, not here.
type Dependencies struct {
	Catalog  catalog.Catalog
	Composer *respond.Composer
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}
