package intent

import (
	"fmt"
	"strings"

	"github.com/mflister/lexicat/internal/models"
)

// Keyword tiers for classification without an LLM. First match wins.
var (
	listKeywords   = []string{"list", "show", "what terms", "available terms", "all terms", "terms available"}
	defineKeywords = []string{"define", "what is", "explain", "tell me about", "meaning of", "definition of"}
	findKeywords   = []string{"assets", "linked", "use", "which", "what are", "find", "search", "show me"}
)

// fallbackClassify classifies input with keyword matching alone. It
// mirrors the LLM contract: always a usable IntentResult, never an error.
func fallbackClassify(input, lastDiscussedTerm string, extractor *Extractor) models.IntentResult {
	lower := strings.ToLower(input)

	if containsAny(lower, listKeywords) {
		return models.IntentResult{
			Intent:      models.IntentListTerms,
			Entities:    []string{},
			Confidence:  0.9,
			Explanation: "Detected intent to list terms using keyword matching",
		}
	}

	if containsAny(lower, defineKeywords) {
		entities := extractor.Extract(input, lastDiscussedTerm)
		return keywordIntent(models.IntentDefineTerm, entities,
			"Detected intent to define a term using keyword matching")
	}

	if containsAny(lower, findKeywords) {
		entities := extractor.Extract(input, lastDiscussedTerm)
		return keywordIntent(models.IntentFindAssets, entities,
			"Detected intent to find assets using keyword matching")
	}

	if entities := extractor.Extract(input, lastDiscussedTerm); len(entities) > 0 {
		return models.IntentResult{
			Intent:               models.IntentDefineTerm,
			Entities:             entities,
			Confidence:           0.7,
			RequiresConfirmation: true,
			SuggestedPhrasing:    fmt.Sprintf("Did you want to define '%s' or find assets linked to it?", entities[0]),
			Explanation:          "Found entities but intent unclear - defaulting to define_term",
		}
	}

	return models.IntentResult{
		Intent:            models.IntentUnknown,
		Entities:          []string{},
		Confidence:        0.3,
		SuggestedPhrasing: "Could you please rephrase your question? For example: 'Define CAC' or 'Which assets use Customer Acquisition Cost?'",
		Explanation:       "Intent unclear - needs clarification",
	}
}

// keywordIntent builds the result for the define and find tiers: higher
// confidence with entities in hand, a confirmation request without.
func keywordIntent(intent string, entities []string, explanation string) models.IntentResult {
	if entities == nil {
		entities = []string{}
	}
	confidence := 0.6
	if len(entities) > 0 {
		confidence = 0.8
	}
	return models.IntentResult{
		Intent:               intent,
		Entities:             entities,
		Confidence:           confidence,
		RequiresConfirmation: len(entities) == 0,
		Explanation:          explanation,
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
