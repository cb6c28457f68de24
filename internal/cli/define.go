package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/models"
)

var defineCmd = &cobra.Command{
	Use:   "define <term>",
	Short: "Show a glossary term's definition card",
	Long: `Look up a glossary term and print its definition card with linked
assets.

Matching tolerates abbreviations and partial names. When several terms
come close without an exact hit, the near misses are listed instead.

Examples:
  lexicat define CAC
  lexicat define "Customer Lifetime Value"
  lexicat define churn`,
	Args: cobra.ExactArgs(1),
	RunE: runDefine,
}

func runDefine(cmd *cobra.Command, args []string) error {
	term := args[0]
	ctx := context.Background()

	candidates, err := cat.SearchTerms(ctx, term)
	if err != nil {
		return fmt.Errorf("search terms: %w", err)
	}

	match, alternates := catalog.Resolve(term, candidates)
	if match == nil {
		if len(alternates) > 0 {
			fmt.Println(composer.AmbiguousTerm(term, alternates, models.IntentDefineTerm))
		} else {
			fmt.Println(composer.DefineNotFound(term))
		}
		return nil
	}

	assets, err := cat.FindLinkedAssets(ctx, match.GUID, match.Name)
	if err != nil {
		// The card still renders without the asset table.
		logger.Warn("linked assets lookup failed", "term", match.Name, "error", err)
		assets = nil
	}

	fmt.Println(composer.TermCard(*match, assets))
	return nil
}
