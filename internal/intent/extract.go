// Package intent turns free-form chat input into a structured intent:
// what the user wants to do and which glossary terms they mean. An LLM
// does the heavy lifting when one is configured; a deterministic keyword
// fallback keeps the assistant working without one.
package intent

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviations maps well-known business acronyms to their full glossary
// names. Matched case-insensitively against whole inputs and short spans.
var abbreviations = map[string]string{
	"cac": "Customer Acquisition Cost",
	"clv": "Customer Lifetime Value",
	"ltv": "Lifetime Value",
	"cpa": "Cost Per Acquisition",
	"cpc": "Cost Per Click",
	"cpm": "Cost Per Mille",
	"roi": "Return On Investment",
	"kpi": "Key Performance Indicator",
}

// stopWords are dropped before the last-resort token extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"what": true, "is": true, "are": true, "how": true,
	"why": true, "when": true, "where": true,
	"define": true, "definition": true, "of": true,
	"explain": true, "tell": true, "me": true, "about": true,
}

// fillerWords get trimmed from the front of shape-matched spans.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"me": true, "my": true, "our": true, "your": true, "please": true,
}

var (
	contextPhrases = []string{"this term", "that term", "the term"}
	contextWords   = []string{"it", "this", "that"}
	assetPhrases   = []string{"assets use", "what uses", "which assets", "find assets"}
)

// entityPatterns anchor a glossary term to common question phrasings.
// They run against the lowercased input in this order.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`["']([^"']+)["']`),
	regexp.MustCompile(`\bdefine\s+(.+)`),
	regexp.MustCompile(`\bdefinition of\s+(.+)`),
	regexp.MustCompile(`\bwhat is\s+(.+)`),
	regexp.MustCompile(`\bhow is\s+(.+)`),
	regexp.MustCompile(`\bmeaning of\s+(.+)`),
	regexp.MustCompile(`\btell me about\s+(.+)`),
	regexp.MustCompile(`\bexplain\s+(.+)`),
	regexp.MustCompile(`\bwhich assets use\s+(.+)`),
	regexp.MustCompile(`\bwhat uses\s+(.+)`),
	regexp.MustCompile(`\bfind\s+(.+)`),
	regexp.MustCompile(`\bsearch for\s+(.+)`),
}

var (
	capitalizedSpan = regexp.MustCompile(`[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)+(?:\s*\([A-Z]{2,}\))?`)
	suffixSpan      = regexp.MustCompile(`(?i)\b(?:[a-z][a-z0-9-]*\s+){1,3}(?:cost|rate|value|metric|score|index|ratio|count|amount|price|revenue|profit|loss|margin|performance|indicator|analysis|report|dashboard|data|table|column)\b`)
)

// Extractor pulls candidate glossary term names out of user input.
type Extractor struct{}

// NewExtractor creates an entity extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the glossary terms the input refers to. Strategies run
// in strict order and the first one that yields a term wins: context
// references resolve to lastDiscussedTerm, then whole-input acronyms,
// then anchored question patterns, then business-term shapes, then a
// stop-word-filtered token fallback. An empty result means nothing in
// the input survived filtering.
func (e *Extractor) Extract(input, lastDiscussedTerm string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	lower := strings.ToLower(trimmed)

	if lastDiscussedTerm != "" && refersToContext(lower) {
		return []string{lastDiscussedTerm}
	}

	if full, ok := abbreviations[lower]; ok {
		return []string{full}
	}

	if entity := matchPatterns(lower); entity != "" {
		return []string{entity}
	}

	if entity := matchTermShapes(trimmed); entity != "" {
		return []string{entity}
	}

	return filterStopWords(trimmed)
}

// refersToContext reports whether the input points back at the term the
// conversation is already about.
func refersToContext(lower string) bool {
	for _, phrase := range contextPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, phrase := range assetPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, word := range contextWords {
		if containsWord(lower, word) {
			return true
		}
	}
	return false
}

func containsWord(lower, word string) bool {
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if token == word {
			return true
		}
	}
	return false
}

func matchPatterns(lower string) string {
	for _, pattern := range entityPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if entity := cleanSpan(m[1]); entity != "" {
			return entity
		}
	}
	return ""
}

// cleanSpan normalizes a captured span: collapse whitespace, strip
// trailing punctuation, expand short acronyms, reject fragments.
func cleanSpan(span string) string {
	span = strings.Join(strings.Fields(span), " ")
	span = strings.TrimSpace(strings.TrimRight(span, "?.,!"))
	if len(span) <= 4 {
		if full, ok := abbreviations[span]; ok {
			return full
		}
	}
	if len(span) > 2 {
		return span
	}
	return ""
}

// matchTermShapes looks for spans that are shaped like business terms in
// the original casing: multi-word capitalized names such as "Customer
// Acquisition Cost (CAC)", or spans ending in a domain suffix word such
// as "churn rate". The longest multi-word candidate wins.
func matchTermShapes(input string) string {
	var candidates []string
	candidates = append(candidates, capitalizedSpan.FindAllString(input, -1)...)
	candidates = append(candidates, suffixSpan.FindAllString(input, -1)...)

	best := ""
	for _, candidate := range candidates {
		candidate = trimLeadingFiller(candidate)
		if !strings.Contains(candidate, " ") {
			continue
		}
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}

func trimLeadingFiller(span string) string {
	words := strings.Fields(span)
	for len(words) > 0 && fillerWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// filterStopWords is the last resort: drop stop words and short tokens,
// keep the longest run of consecutive survivors, and expand a lone
// acronym when the table knows it.
func filterStopWords(input string) []string {
	var runs [][]string
	var current []string
	for _, raw := range strings.Fields(input) {
		token := strings.Trim(raw, `?.,!'"`)
		if len(token) > 2 && !stopWords[strings.ToLower(token)] {
			current = append(current, token)
			continue
		}
		if len(current) > 0 {
			runs = append(runs, current)
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	if len(runs) == 0 {
		return nil
	}

	var best []string
	for _, run := range runs {
		if len(run) <= 4 && len(run) > len(best) {
			best = run
		}
	}
	if best == nil {
		return []string{expandAbbreviation(runs[0][0])}
	}
	if len(best) == 1 {
		return []string{expandAbbreviation(best[0])}
	}
	return []string{strings.Join(best, " ")}
}

// ExpandAbbreviation returns the full glossary name for a well-known
// business acronym, or the input unchanged when it is not one.
func ExpandAbbreviation(term string) string {
	return expandAbbreviation(strings.TrimSpace(term))
}

func expandAbbreviation(token string) string {
	if full, ok := abbreviations[strings.ToLower(token)]; ok {
		return full
	}
	return token
}
