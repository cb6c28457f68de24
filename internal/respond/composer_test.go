package respond

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mflister/lexicat/internal/models"
)

func cacTerm() models.Entity {
	return models.Entity{
		Name:              "Customer Acquisition Cost (CAC)",
		Description:       "The total cost of acquiring a new customer.",
		QualifiedName:     "customer-acquisition-cost-cac@glossary",
		GUID:              "af6a32d4-936b-4a59-9917-7082c56ba443",
		TypeName:          "AtlasGlossaryTerm",
		CertificateStatus: "VERIFIED",
		OwnerUsers:        []string{"data.team"},
		OwnerGroups:       []string{"data-governance"},
		AssetTags:         []string{"finance"},
		TermType:          "KPI",
		ViewScore:         12.5,
		StarredCount:      3,
	}
}

func TestConfirmationWordings(t *testing.T) {
	composer := NewComposer("")

	define := composer.Confirmation(models.IntentResult{
		Intent:   models.IntentDefineTerm,
		Entities: []string{"CAC"},
	})
	assert.Equal(t, "I understand you want to define the term 'CAC'. Is that correct?", define)

	find := composer.Confirmation(models.IntentResult{
		Intent:   models.IntentFindAssets,
		Entities: []string{"Churn Rate"},
	})
	assert.Equal(t, "I understand you want to find assets linked to 'Churn Rate'. Is that correct?", find)

	generic := composer.Confirmation(models.IntentResult{
		Intent:   models.IntentListTerms,
		Entities: []string{"x"},
	})
	assert.Equal(t, "I think you want to list terms for 'x'. Is that correct?", generic)
}

func TestClarification(t *testing.T) {
	composer := NewComposer("")

	with := composer.Clarification(models.IntentResult{
		Explanation:       "Intent unclear - needs clarification",
		SuggestedPhrasing: "Define CAC",
	})
	assert.Equal(t, "I'm not sure what you're asking for. Intent unclear - needs clarification\n\nDid you mean: \"Define CAC\"?", with)

	without := composer.Clarification(models.IntentResult{Explanation: "Cannot determine intent"})
	assert.Equal(t, "I'm not sure what you're asking for. Cannot determine intent", without)
}

func TestAmbiguousTerm(t *testing.T) {
	composer := NewComposer("")
	alternates := []string{"Customer Acquisition Cost (CAC)", "Customer Lifetime Value (CLV)"}

	got := composer.AmbiguousTerm("customer", alternates, models.IntentDefineTerm)
	assert.Contains(t, got, "I found several similar terms in the glossary, but no exact match for 'customer'. Did you mean one of these?")
	assert.Contains(t, got, "• **Customer Acquisition Cost (CAC)**")
	assert.Contains(t, got, "• **Customer Lifetime Value (CLV)**")
	assert.True(t, strings.HasSuffix(got, "Please specify which term you'd like me to define."))

	forAssets := composer.AmbiguousTerm("customer", alternates, models.IntentFindAssets)
	assert.True(t, strings.HasSuffix(forAssets, "Please specify which term you'd like me to find assets for."))
}

func TestTermCardSections(t *testing.T) {
	composer := NewComposer("https://catalog.example.com")

	card := composer.TermCard(cacTerm(), nil)

	assert.True(t, strings.HasPrefix(card, "## 📋 **Customer Acquisition Cost (CAC)**"))
	assert.Contains(t, card, "### 📖 Description\nThe total cost of acquiring a new customer.")
	assert.Contains(t, card, "### 🏷️ Categories\n• **finance**\n• **KPI**")
	assert.Contains(t, card, "### ✅ Certificate\n🟢 **VERIFIED**")
	assert.Contains(t, card, "### 👥 Owners\n• **data.team**\n• **data-governance**")
	assert.Contains(t, card, "### 📊 Score\n**12.5**")
	assert.Contains(t, card, "### ⭐ Popularity\n**Starred 3 times**")
	assert.Contains(t, card, "[View in catalog](https://catalog.example.com/glossary/af6a32d4-936b-4a59-9917-7082c56ba443)")
	assert.Contains(t, card, "### 📊 Linked Assets (0 total)\n*No linked assets found*")
	assert.Contains(t, card, "---\n**Technical Details:**")
	assert.Contains(t, card, "• **Qualified Name:** `customer-acquisition-cost-cac@glossary`")
	assert.Contains(t, card, "• **GUID:** `af6a32d4-936b-4a59-9917-7082c56ba443`")
}

func TestTermCardPlaceholders(t *testing.T) {
	composer := NewComposer("")

	card := composer.TermCard(models.Entity{Name: "Bare Term"}, nil)

	assert.Contains(t, card, "### 📖 Description\n*No description available*")
	assert.Contains(t, card, "### 🏷️ Categories\n*No categories assigned*")
	assert.Contains(t, card, "### ✅ Certificate\n*No certificate status*")
	assert.Contains(t, card, "### 👥 Owners\n*No owners assigned*")
	assert.NotContains(t, card, "### 📊 Score")
	assert.NotContains(t, card, "### ⭐ Popularity")
	assert.NotContains(t, card, "View in catalog")
	assert.NotContains(t, card, "Technical Details")
}

func TestTermCardCertificateColors(t *testing.T) {
	composer := NewComposer("")

	draft := composer.TermCard(models.Entity{Name: "T", CertificateStatus: "DRAFT"}, nil)
	assert.Contains(t, draft, "🟡 **DRAFT**")

	deprecated := composer.TermCard(models.Entity{Name: "T", CertificateStatus: "DEPRECATED"}, nil)
	assert.Contains(t, deprecated, "🔴 **DEPRECATED**")
}

func TestTermCardAssetsTable(t *testing.T) {
	composer := NewComposer("https://catalog.example.com")
	assets := []models.Entity{
		{
			Name:           "CAC Dashboard",
			TypeName:       "Tableau",
			GUID:           "asset-guid-1",
			ConnectionName: "tableau-prod",
		},
		{
			Name:          strings.Repeat("x", 60),
			TypeName:      "A very long asset type name",
			ConnectorName: "snowflake",
		},
		{
			Name: "Orphan Asset",
		},
	}

	card := composer.TermCard(cacTerm(), assets)

	assert.Contains(t, card, "### 📊 Linked Assets (3 total)")
	assert.Contains(t, card, "| Name | Asset Type | Source Name |\n|------|------------|-------------|")
	assert.Contains(t, card, "| [CAC Dashboard](https://catalog.example.com/asset/asset-guid-1) | Tableau | tableau-prod |")
	// no guid means no link, missing source falls back to Unknown
	assert.Contains(t, card, "| Orphan Asset | Unknown | Unknown |")
	// long values are cut with an ellipsis
	assert.Contains(t, card, "| "+strings.Repeat("x", 50)+"... | A very long asset ty... | snowflake |")
}

func TestAssetsAnswer(t *testing.T) {
	composer := NewComposer("")

	var assets []models.Entity
	for i := 1; i <= 7; i++ {
		assets = append(assets, models.Entity{
			Name:              fmt.Sprintf("Asset %d", i),
			TypeName:          "Table",
			Description:       "Some table",
			CertificateStatus: "VERIFIED",
			OwnerUsers:        []string{"data.engineer"},
		})
	}

	got := composer.AssetsAnswer("Customer Acquisition Cost (CAC)", assets)

	assert.True(t, strings.HasPrefix(got, "I found 7 assets linked to the term 'Customer Acquisition Cost (CAC)':"))
	assert.Contains(t, got, "1. **Asset 1** (Table)")
	assert.Contains(t, got, "   - Description: Some table")
	assert.Contains(t, got, "   - Status: VERIFIED")
	assert.Contains(t, got, "   - Owners: data.engineer")
	assert.Contains(t, got, "5. **Asset 5** (Table)")
	assert.NotContains(t, got, "6. **Asset 6**")
	assert.Contains(t, got, "... and 2 more assets.")
}

func TestAssetsAnswerEmpty(t *testing.T) {
	composer := NewComposer("")

	got := composer.AssetsAnswer("Churn Rate", nil)
	assert.Equal(t, "I found the term 'Churn Rate' but no assets are currently linked to it in the catalog.", got)
}

func TestTermList(t *testing.T) {
	composer := NewComposer("")

	var terms []models.Entity
	for i := 1; i <= 12; i++ {
		terms = append(terms, models.Entity{
			Name:        fmt.Sprintf("Term %d", i),
			Description: strings.Repeat("d", 120),
		})
	}

	got := composer.TermList(terms)

	require.True(t, strings.HasPrefix(got, "Here are the terms available in the glossary (12 total):"))
	assert.Contains(t, got, "1. **Term 1**")
	assert.Contains(t, got, "   - "+strings.Repeat("d", 100)+"...")
	assert.Contains(t, got, "10. **Term 10**")
	assert.NotContains(t, got, "11. **Term 11**")
	assert.Contains(t, got, "... and 2 more terms.")
	assert.True(t, strings.HasSuffix(got, "*You can ask me to define any specific term or find assets linked to it.*"))
}

func TestTermListEmpty(t *testing.T) {
	composer := NewComposer("")

	got := composer.TermList(nil)
	assert.Equal(t, "I couldn't find any terms in the glossary. The glossary might be empty or there might be a connection issue.", got)
}

func TestNotFoundWordings(t *testing.T) {
	composer := NewComposer("")

	assert.Equal(t,
		"I couldn't find a definition for 'XYZ' in the glossary. This term may not be defined in the data catalog.",
		composer.DefineNotFound("XYZ"))
	assert.Equal(t,
		"I couldn't find the term 'XYZ' in the glossary. Please check the spelling or try a different term.",
		composer.FindNotFound("XYZ"))
	assert.Equal(t,
		"No problem. Could you please rephrase your question?",
		composer.ConfirmationDeclined())
}

func TestUnknownHelp(t *testing.T) {
	composer := NewComposer("")

	got := composer.UnknownHelp("sing me a song")
	assert.Contains(t, got, "I'm not sure how to help with 'sing me a song'. You can:")
	assert.Contains(t, got, "• Ask me to define a term (e.g., 'Define Customer Acquisition Cost')")
	assert.Contains(t, got, "• Ask me to list all terms (e.g., 'List all terms')")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "exactlyten", truncateText("exactlyten", 10))
	assert.Equal(t, "toolongval...", truncateText("toolongvalue", 10))
	// rune-aware, not byte-aware
	assert.Equal(t, "日本語...", truncateText("日本語テスト", 3))
}
