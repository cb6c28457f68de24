package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/models"
)

var assetsCmd = &cobra.Command{
	Use:   "assets <term>",
	Short: "List the data assets linked to a glossary term",
	Long: `Look up a glossary term and list the data assets linked to it,
grouped by asset type.

Examples:
  lexicat assets MRR
  lexicat assets "Customer Acquisition Cost"`,
	Args: cobra.ExactArgs(1),
	RunE: runAssets,
}

func runAssets(cmd *cobra.Command, args []string) error {
	term := args[0]
	ctx := context.Background()

	candidates, err := cat.SearchTerms(ctx, term)
	if err != nil {
		return fmt.Errorf("search terms: %w", err)
	}

	match, alternates := catalog.Resolve(term, candidates)
	if match == nil {
		if len(alternates) > 0 {
			fmt.Println(composer.AmbiguousTerm(term, alternates, models.IntentFindAssets))
		} else {
			fmt.Println(composer.FindNotFound(term))
		}
		return nil
	}

	assets, err := cat.FindLinkedAssets(ctx, match.GUID, match.Name)
	if err != nil {
		return fmt.Errorf("find linked assets: %w", err)
	}

	if len(assets) == 0 {
		fmt.Println(composer.NoAssets(match.Name))
		return nil
	}
	fmt.Println(composer.AssetsAnswer(match.Name, assets))
	return nil
}
