package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show glossary and transcript statistics",
	Long: `Show glossary size, stored transcript counts, and timing statistics
for the catalog and store calls this invocation made.

Examples:
  lexicat stats
  lexicat stats -v`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	terms, err := cat.SearchTerms(ctx, "")
	if err != nil {
		return fmt.Errorf("search terms: %w", err)
	}
	fmt.Printf("Glossary terms: %d\n", len(terms))

	if chatStore != nil {
		counts, err := chatStore.TranscriptCounts(ctx)
		if err != nil {
			return fmt.Errorf("transcript counts: %w", err)
		}
		fmt.Printf("Chat sessions: %d\n", counts.Sessions)
		fmt.Printf("Chat messages: %d\n", counts.Messages)
	} else {
		fmt.Println("Transcript store not configured.")
	}

	fmt.Println()
	printSnapshot(collector.Snapshot())
	return nil
}

// printSnapshot displays in-memory timing statistics. CLI invocations
// are short-lived, so these cover only the probes this run made.
func printSnapshot(snap metrics.Snapshot) {
	fmt.Printf("Runtime Statistics (this invocation)\n")
	fmt.Printf("═══════════════════════════════════════════════\n")
	fmt.Printf("Uptime: %.1f seconds\n", snap.UptimeSeconds)

	if snap.IntentClassify != nil {
		fmt.Printf("\nIntent Classification:\n")
		printOpStats(snap.IntentClassify)
	}

	if snap.LLMGenerate != nil {
		fmt.Printf("\nLLM Generate:\n")
		printOpStats(snap.LLMGenerate)
		printTokenStats(snap.LLMGenerate)
	}

	if snap.CatalogSearch != nil {
		fmt.Printf("\nCatalog Search:\n")
		printOpStats(snap.CatalogSearch)
	}

	if snap.CatalogAssets != nil {
		fmt.Printf("\nCatalog Assets:\n")
		printOpStats(snap.CatalogAssets)
	}

	if snap.StoreQuery != nil {
		fmt.Printf("\nStore Query:\n")
		printOpStats(snap.StoreQuery)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(op *metrics.OperationSnapshot) {
	fmt.Printf("  Calls: %d, Total: %dms\n", op.Count, op.TotalTimeMs)
	fmt.Printf("  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	if op.Errors > 0 {
		fmt.Printf("  Errors: %d\n", op.Errors)
	}
}

// printTokenStats displays token statistics if available.
func printTokenStats(op *metrics.OperationSnapshot) {
	if op.TotalInputTokens == nil || op.TotalOutputTokens == nil {
		return
	}
	fmt.Printf("  Tokens In:  %d total", *op.TotalInputTokens)
	if op.AvgInputTokens != nil {
		fmt.Printf(", avg %.0f", *op.AvgInputTokens)
	}
	if op.MinInputTokens != nil && op.MaxInputTokens != nil {
		fmt.Printf(", min %d, max %d", *op.MinInputTokens, *op.MaxInputTokens)
	}
	fmt.Println()

	fmt.Printf("  Tokens Out: %d total", *op.TotalOutputTokens)
	if op.AvgOutputTokens != nil {
		fmt.Printf(", avg %.0f", *op.AvgOutputTokens)
	}
	if op.MinOutputTokens != nil && op.MaxOutputTokens != nil {
		fmt.Printf(", min %d, max %d", *op.MinOutputTokens, *op.MaxOutputTokens)
	}
	fmt.Println()
}
