// Package respond renders resolved catalog data into chat replies. All
// user-facing wording lives here so the engine, CLI and MCP tools speak
// with one voice.
package respond

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mflister/lexicat/internal/models"
)

const (
	maxListedAssets = 5
	maxListedTerms  = 10

	nameColumnWidth  = 50
	shortColumnWidth = 20
	descPreviewWidth = 100
)

// Composer formats replies. baseURL, when set, is used to link terms and
// assets back to the catalog UI.
type Composer struct {
	baseURL string
}

// NewComposer creates a composer. baseURL may be empty, in which case no
// links are rendered.
func NewComposer(baseURL string) *Composer {
	return &Composer{baseURL: strings.TrimRight(baseURL, "/")}
}

// Confirmation asks the user to confirm a moderately confident intent.
func (c *Composer) Confirmation(result models.IntentResult) string {
	entities := strings.Join(result.Entities, ", ")
	switch result.Intent {
	case models.IntentDefineTerm:
		return fmt.Sprintf("I understand you want to define the term '%s'. Is that correct?", entities)
	case models.IntentFindAssets:
		return fmt.Sprintf("I understand you want to find assets linked to '%s'. Is that correct?", entities)
	default:
		return fmt.Sprintf("I think you want to %s for '%s'. Is that correct?",
			strings.ReplaceAll(result.Intent, "_", " "), entities)
	}
}

// ConfirmationDeclined acknowledges a rejected confirmation.
func (c *Composer) ConfirmationDeclined() string {
	return "No problem. Could you please rephrase your question?"
}

// Clarification explains that the intent was unclear, quoting the
// classifier's suggestion when it has one.
func (c *Composer) Clarification(result models.IntentResult) string {
	message := fmt.Sprintf("I'm not sure what you're asking for. %s", result.Explanation)
	if result.SuggestedPhrasing != "" {
		message += fmt.Sprintf("\n\nDid you mean: \"%s\"?", result.SuggestedPhrasing)
	}
	return message
}

// AmbiguousTerm lists near-miss glossary terms when resolution failed.
func (c *Composer) AmbiguousTerm(query string, alternates []string, intent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I found several similar terms in the glossary, but no exact match for '%s'. Did you mean one of these?\n\n", query)
	for _, name := range alternates {
		fmt.Fprintf(&sb, "• **%s**\n", name)
	}
	action := "define"
	if intent == models.IntentFindAssets {
		action = "find assets for"
	}
	fmt.Fprintf(&sb, "\nPlease specify which term you'd like me to %s.", action)
	return sb.String()
}

// TermCard renders the full glossary term view with its linked assets.
func (c *Composer) TermCard(term models.Entity, assets []models.Entity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## 📋 **%s**\n\n", term.Name)

	if term.Description != "" {
		fmt.Fprintf(&sb, "### 📖 Description\n%s\n\n", term.Description)
	} else {
		sb.WriteString("### 📖 Description\n*No description available*\n\n")
	}

	categories := append([]string{}, term.AssetTags...)
	if term.TermType != "" {
		categories = append(categories, term.TermType)
	}
	if len(categories) > 0 {
		sb.WriteString("### 🏷️ Categories\n")
		for _, category := range categories {
			fmt.Fprintf(&sb, "• **%s**\n", category)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("### 🏷️ Categories\n*No categories assigned*\n\n")
	}

	if term.CertificateStatus != "" {
		fmt.Fprintf(&sb, "### ✅ Certificate\n%s **%s**\n\n",
			certificateEmoji(term.CertificateStatus), term.CertificateStatus)
	} else {
		sb.WriteString("### ✅ Certificate\n*No certificate status*\n\n")
	}

	owners := append([]string{}, term.OwnerUsers...)
	owners = append(owners, term.OwnerGroups...)
	if len(owners) > 0 {
		sb.WriteString("### 👥 Owners\n")
		for _, owner := range owners {
			fmt.Fprintf(&sb, "• **%s**\n", owner)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("### 👥 Owners\n*No owners assigned*\n\n")
	}

	if term.ViewScore > 0 {
		fmt.Fprintf(&sb, "### 📊 Score\n**%s**\n\n", formatScore(term.ViewScore))
	} else if term.PopularityScore > 0 {
		fmt.Fprintf(&sb, "### 📊 Popularity Score\n**%s**\n\n", formatScore(term.PopularityScore))
	}

	if term.StarredCount > 0 {
		fmt.Fprintf(&sb, "### ⭐ Popularity\n**Starred %d times**\n\n", term.StarredCount)
	}

	if term.QualifiedName != "" && term.GUID != "" && c.baseURL != "" {
		fmt.Fprintf(&sb, "### 🔗 Glossary Term\n[View in catalog](%s/glossary/%s)\n\n", c.baseURL, term.GUID)
	}

	sb.WriteString("### 📊 Linked Assets")
	if len(assets) > 0 {
		fmt.Fprintf(&sb, " (%d total)\n", len(assets))
		sb.WriteString(c.assetsTable(assets))
	} else {
		sb.WriteString(" (0 total)\n*No linked assets found*\n")
	}
	sb.WriteString("\n")

	if term.QualifiedName != "" || term.GUID != "" {
		sb.WriteString("---\n**Technical Details:**\n")
		if term.QualifiedName != "" {
			fmt.Fprintf(&sb, "• **Qualified Name:** `%s`\n", term.QualifiedName)
		}
		if term.GUID != "" {
			fmt.Fprintf(&sb, "• **GUID:** `%s`\n", term.GUID)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// assetsTable renders linked assets as a markdown table, linking names
// back to the catalog when possible.
func (c *Composer) assetsTable(assets []models.Entity) string {
	var sb strings.Builder
	sb.WriteString("| Name | Asset Type | Source Name |\n")
	sb.WriteString("|------|------------|-------------|\n")
	for _, asset := range assets {
		name := truncateText(asset.Name, nameColumnWidth)
		typeName := truncateText(orUnknown(asset.TypeName), shortColumnWidth)
		source := asset.ConnectionName
		if source == "" {
			source = asset.ConnectorName
		}
		if source == "" {
			source = "Unknown"
		}
		source = truncateText(source, shortColumnWidth)
		if asset.GUID != "" && c.baseURL != "" {
			name = fmt.Sprintf("[%s](%s/asset/%s)", name, c.baseURL, asset.GUID)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, typeName, source)
	}
	return sb.String()
}

// AssetsAnswer lists the assets linked to a resolved term.
func (c *Composer) AssetsAnswer(canonical string, assets []models.Entity) string {
	if len(assets) == 0 {
		return c.NoAssets(canonical)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d assets linked to the term '%s':\n\n", len(assets), canonical)
	for i, asset := range assets {
		if i == maxListedAssets {
			break
		}
		description := asset.Description
		if description == "" {
			description = "No description"
		}
		fmt.Fprintf(&sb, "%d. **%s** (%s)\n", i+1, asset.Name, orUnknown(asset.TypeName))
		fmt.Fprintf(&sb, "   - Description: %s\n", description)
		fmt.Fprintf(&sb, "   - Status: %s\n", orUnknown(asset.CertificateStatus))
		fmt.Fprintf(&sb, "   - Owners: %s\n\n", strings.Join(asset.OwnerUsers, ", "))
	}
	if len(assets) > maxListedAssets {
		fmt.Fprintf(&sb, "... and %d more assets.\n\n", len(assets)-maxListedAssets)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NoAssets reports a resolved term with nothing linked to it.
func (c *Composer) NoAssets(canonical string) string {
	return fmt.Sprintf("I found the term '%s' but no assets are currently linked to it in the catalog.", canonical)
}

// TermList renders the glossary overview.
func (c *Composer) TermList(terms []models.Entity) string {
	if len(terms) == 0 {
		return "I couldn't find any terms in the glossary. The glossary might be empty or there might be a connection issue."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the terms available in the glossary (%d total):\n\n", len(terms))
	for i, term := range terms {
		if i == maxListedTerms {
			break
		}
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, term.Name)
		if term.Description != "" {
			fmt.Fprintf(&sb, "   - %s\n", truncateText(term.Description, descPreviewWidth))
		}
		sb.WriteString("\n")
	}
	if len(terms) > maxListedTerms {
		fmt.Fprintf(&sb, "... and %d more terms.\n\n", len(terms)-maxListedTerms)
	}
	sb.WriteString("*You can ask me to define any specific term or find assets linked to it.*")
	return sb.String()
}

// DefineNotFound reports a failed definition lookup.
func (c *Composer) DefineNotFound(query string) string {
	return fmt.Sprintf("I couldn't find a definition for '%s' in the glossary. This term may not be defined in the data catalog.", query)
}

// FindNotFound reports a failed term lookup during an asset search.
func (c *Composer) FindNotFound(query string) string {
	return fmt.Sprintf("I couldn't find the term '%s' in the glossary. Please check the spelling or try a different term.", query)
}

// MissingEntityDefine asks for the term when a define request named none.
func (c *Composer) MissingEntityDefine() string {
	return "I couldn't identify which term you want me to define. Could you please specify the term?"
}

// MissingEntityFind asks for the term when an asset request named none.
func (c *Composer) MissingEntityFind() string {
	return "I couldn't identify which term you're looking for. Could you please specify which term you'd like me to find assets for?"
}

// UnknownHelp shows example phrasings when nothing else applies.
func (c *Composer) UnknownHelp(input string) string {
	return fmt.Sprintf("I'm not sure how to help with '%s'. You can:\n\n", input) +
		"• Ask me to define a term (e.g., 'Define Customer Acquisition Cost')\n" +
		"• Ask me to list all terms (e.g., 'List all terms')\n" +
		"• Ask me to find assets related to a term (e.g., 'Show me assets for Revenue')\n" +
		"• Or just ask me anything about the data catalog!"
}

// CatalogUnavailable is the one reply that mentions infrastructure.
func (c *Composer) CatalogUnavailable() string {
	return "I couldn't reach the data catalog right now. Please check the connection and try again in a moment."
}

func certificateEmoji(status string) string {
	switch status {
	case "VERIFIED":
		return "🟢"
	case "DRAFT":
		return "🟡"
	default:
		return "🔴"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// truncateText shortens s to max runes, marking the cut with an ellipsis.
func truncateText(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
