// Package main provides the entry point for the lexicat MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/config"
	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/respond"
	"github.com/mflister/lexicat/internal/server"
	"github.com/mflister/lexicat/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON). Stdout
	// stays clean for the MCP stdio transport.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	demoMode := cfg.DemoMode || cfg.CatalogAPIKey == ""

	// Log startup info
	logger.Info("lexicat-mcp starting",
		"version", version,
		"catalog_url", cfg.CatalogBaseURL,
		"demo_mode", demoMode,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	collector := metrics.NewCollector()

	// Pick the catalog backend
	var cat catalog.Catalog
	if demoMode {
		demo, err := catalog.NewDemo()
		if err != nil {
			logger.Error("failed to load demo glossary", "error", err)
			os.Exit(1)
		}
		cat = demo
		logger.Info("no catalog credentials, using bundled demo glossary")
	} else {
		cat = catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, logger, collector)
	}

	// Create and setup server
	srv := server.New(version, logger)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		Catalog:  cat,
		Composer: respond.NewComposer(cfg.CatalogBaseURL),
		Metrics:  collector,
		Logger:   logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", 5)

	// Log ready state
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
