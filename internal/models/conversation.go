package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Intent values produced by classification.
const (
	IntentDefineTerm = "define_term"
	IntentFindAssets = "find_assets"
	IntentListTerms  = "list_terms"
	IntentClarify    = "clarify"
	IntentUnknown    = "unknown"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// IntentResult is the outcome of classifying one user utterance.
type IntentResult struct {
	Intent               string   `json:"intent"`
	Entities             []string `json:"entities"`
	Confidence           float64  `json:"confidence"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	SuggestedPhrasing    string   `json:"suggested_phrasing,omitempty"`
	Explanation          string   `json:"explanation,omitempty"`
	OriginalQuery        string   `json:"original_query,omitempty"`
}

// Session represents one persisted chat session.
type Session struct {
	ID        surrealmodels.RecordID `json:"id"`
	Title     string                 `json:"title"`
	StartedAt time.Time              `json:"started_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Message is a single turn in a conversation. The ID and Session fields
// are only populated once the message has been persisted.
type Message struct {
	ID        surrealmodels.RecordID `json:"id"`
	Session   surrealmodels.RecordID `json:"session"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Intent    string                 `json:"intent,omitempty"`
	Entities  []string               `json:"entities,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// ConversationContext is the in-memory state of one chat session:
// the transcript so far plus what the conversation is currently about.
type ConversationContext struct {
	Messages          []Message
	LastDiscussedTerm string
	LastIntent        string
	StartedAt         time.Time
}

// Reply kinds.
const (
	ReplyAnswer        = "answer"
	ReplyConfirmation  = "confirmation"
	ReplyClarification = "clarification"
	ReplyInfo          = "info"
)

// Reply is the assistant's answer to one turn, ready for rendering.
type Reply struct {
	Text                 string   `json:"text"`
	Kind                 string   `json:"kind"`
	Intent               string   `json:"intent"`
	Entities             []string `json:"entities,omitempty"`
	Confidence           float64  `json:"confidence"`
	AwaitingConfirmation bool     `json:"awaiting_confirmation,omitempty"`
}
