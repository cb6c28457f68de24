// Package conversation drives the chat loop: it owns the per-session
// context, the confirmation state machine and the dispatch from
// classified intents to catalog lookups and composed replies.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mflister/lexicat/internal/models"
)

// contextWindowSize caps how many transcript messages feed the LLM
// classification prompt.
const contextWindowSize = 5

func newContext() *models.ConversationContext {
	return &models.ConversationContext{StartedAt: time.Now()}
}

// window renders the recent transcript for the classification prompt:
// one "ROLE: content" line per message plus intent and entity metadata
// when the message carries it.
func window(c *models.ConversationContext) string {
	if len(c.Messages) == 0 {
		return "No previous conversation."
	}

	messages := c.Messages
	if len(messages) > contextWindowSize {
		messages = messages[len(messages)-contextWindowSize:]
	}

	var sb strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&sb, "%s: %s\n", strings.ToUpper(msg.Role), msg.Content)
		if msg.Intent != "" {
			fmt.Fprintf(&sb, "Intent: %s\n", msg.Intent)
		}
		if len(msg.Entities) > 0 {
			fmt.Fprintf(&sb, "Entities: %s\n", strings.Join(msg.Entities, ", "))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
