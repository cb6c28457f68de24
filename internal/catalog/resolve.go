package catalog

import (
	"strings"

	"github.com/mflister/lexicat/internal/models"
)

const maxAlternates = 5

// Resolve picks the candidate matching the query, case-insensitively.
// Tiers run in order over the whole candidate list: exact name, then the
// name with a trailing parenthesized acronym stripped, then substring
// containment in either direction (queries longer than three characters
// only). Within a tier the first candidate wins. No match returns the
// leading candidate names as alternates for a clarification prompt.
func Resolve(query string, candidates []models.Entity) (*models.Entity, []string) {
	q := strings.ToLower(strings.TrimSpace(query))

	for i := range candidates {
		if strings.ToLower(candidates[i].Name) == q {
			return &candidates[i], nil
		}
	}

	for i := range candidates {
		base := strings.TrimSpace(strings.SplitN(candidates[i].Name, "(", 2)[0])
		if strings.ToLower(base) == q {
			return &candidates[i], nil
		}
	}

	if len(q) > 3 {
		for i := range candidates {
			name := strings.ToLower(candidates[i].Name)
			if strings.Contains(name, q) || strings.Contains(q, name) {
				return &candidates[i], nil
			}
		}
	}

	alternates := make([]string, 0, maxAlternates)
	for _, c := range candidates {
		alternates = append(alternates, c.Name)
		if len(alternates) == maxAlternates {
			break
		}
	}
	return nil, alternates
}
