// Package cli provides the command-line interface for lexicat.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/config"
	"github.com/mflister/lexicat/internal/conversation"
	"github.com/mflister/lexicat/internal/intent"
	"github.com/mflister/lexicat/internal/llm"
	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/respond"
	"github.com/mflister/lexicat/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and wiring, assembled in PersistentPreRunE
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	collector  *metrics.Collector

	cat       catalog.Catalog
	demoMode  bool
	model     *llm.Model
	composer  *respond.Composer
	chatStore *store.Client
	engine    *conversation.Engine
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lexicat",
	Short: "Conversational front end for a data catalog glossary",
	Long: `Lexicat answers plain-language questions about a data catalog's
business glossary: what a term means, which data assets use it, and
what terms exist. Lookups tolerate abbreviations and partial names.

Runs against a live catalog when CATALOG_BASE_URL and CATALOG_API_TOKEN
are set, and against a small bundled demo glossary otherwise.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip wiring for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		// The chat TUI owns the terminal, so its logs go to the file only.
		if cmd.Name() == "chat" {
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		}

		collector = metrics.NewCollector()

		demoMode = cfg.DemoMode || cfg.CatalogAPIKey == ""
		if demoMode {
			demo, err := catalog.NewDemo()
			if err != nil {
				return fmt.Errorf("load demo glossary: %w", err)
			}
			cat = demo
			logger.Info("no catalog credentials, using bundled demo glossary")
		} else {
			cat = catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, logger, collector)
		}

		var err error
		model, err = llm.NewModel(cfg, collector)
		if err != nil {
			// Rule-based classification still works without a model.
			logger.Warn("LLM unavailable, falling back to rule-based classification", "error", err)
			model = nil
		}

		classifier := intent.NewClassifier(model, logger, collector)
		composer = respond.NewComposer(cfg.CatalogBaseURL)

		if cfg.SurrealDBURL != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			chatStore, err = store.New(ctx, store.Config{
				URL:       cfg.SurrealDBURL,
				Namespace: cfg.SurrealDBNamespace,
				Database:  cfg.SurrealDBDatabase,
				Username:  cfg.SurrealDBUser,
				Password:  cfg.SurrealDBPass,
				AuthLevel: cfg.SurrealDBAuthLevel,
			}, logger, collector)
			if err != nil {
				// Transcripts are best-effort; the chat works without them.
				logger.Warn("transcript store unavailable, continuing without persistence", "error", err)
				chatStore = nil
			} else if err := chatStore.InitSchema(ctx); err != nil {
				logger.Warn("transcript schema init failed, continuing without persistence", "error", err)
				_ = chatStore.Close(context.Background())
				chatStore = nil
			}
		}

		engine = conversation.NewEngine(cat, classifier, composer, chatStore, logger, collector)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if chatStore != nil {
			if err := chatStore.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close transcript store: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(termsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(pingCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
