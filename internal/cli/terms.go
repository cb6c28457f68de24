package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	termsLimit int
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List glossary terms",
	Long: `List the terms available in the business glossary.

Examples:
  lexicat terms
  lexicat terms --limit 10
  lexicat terms -v`,
	Args: cobra.NoArgs,
	RunE: runTerms,
}

func init() {
	termsCmd.Flags().IntVarP(&termsLimit, "limit", "n", 50, "max results")
}

func runTerms(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	terms, err := cat.SearchTerms(ctx, "")
	if err != nil {
		return fmt.Errorf("search terms: %w", err)
	}

	if len(terms) == 0 {
		fmt.Println("No glossary terms found.")
		return nil
	}
	if termsLimit > 0 && len(terms) > termsLimit {
		terms = terms[:termsLimit]
	}

	fmt.Printf("Glossary terms (%d):\n\n", len(terms))
	for _, term := range terms {
		statusMark := ""
		if term.CertificateStatus != "" {
			statusMark = fmt.Sprintf(" [%s]", term.CertificateStatus)
		}
		fmt.Printf("- %s%s\n", term.Name, statusMark)
		if verbose && term.Description != "" {
			fmt.Printf("  %s\n", term.Description)
		}
	}

	return nil
}
