package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/config"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the catalog, LLM, and store",
	Long: `Check that each configured collaborator answers.

Runs a catalog probe, a one-token LLM round trip, and a store query,
and prints one line per check. Exits non-zero when any check fails.

Examples:
  lexicat ping`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	failed := false

	if err := cat.Ping(ctx); err != nil {
		failed = true
		fmt.Printf("Catalog: FAIL (%v)\n", err)
	} else if demoMode {
		fmt.Println("Catalog: OK (demo glossary)")
	} else {
		fmt.Printf("Catalog: OK (%s)\n", cfg.CatalogBaseURL)
	}

	switch {
	case cfg.LLMProvider == config.ProviderNone:
		fmt.Println("LLM:     skipped (not configured)")
	case model == nil:
		failed = true
		fmt.Println("LLM:     FAIL (could not initialize at startup)")
	default:
		if err := model.Ping(ctx); err != nil {
			failed = true
			fmt.Printf("LLM:     FAIL (%v)\n", err)
		} else {
			fmt.Printf("LLM:     OK (%s/%s)\n", cfg.LLMProvider, model.Model())
		}
	}

	switch {
	case cfg.SurrealDBURL == "":
		fmt.Println("Store:   skipped (not configured)")
	case chatStore == nil:
		failed = true
		fmt.Println("Store:   FAIL (could not connect at startup)")
	default:
		if _, err := chatStore.TranscriptCounts(ctx); err != nil {
			failed = true
			fmt.Printf("Store:   FAIL (%v)\n", err)
		} else {
			fmt.Printf("Store:   OK (%s)\n", cfg.SurrealDBURL)
		}
	}

	if failed {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}
