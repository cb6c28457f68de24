package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/intent"
	"github.com/mflister/lexicat/internal/models"
	"github.com/mflister/lexicat/internal/respond"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine wires an engine over the fixture catalog with keyword
// classification and no transcript store.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	demo, err := catalog.NewDemo()
	require.NoError(t, err, "should load fixture catalog")
	classifier := intent.NewClassifier(nil, discardLogger(), nil)
	return NewEngine(demo, classifier, respond.NewComposer(""), nil, discardLogger(), nil)
}

func turn(t *testing.T, e *Engine, input string) *models.Reply {
	t.Helper()
	reply, err := e.HandleInput(context.Background(), "test-session", input)
	require.NoError(t, err, "turn should not fail")
	require.NotNil(t, reply)
	return reply
}

// downCatalog fails every lookup, simulating an unreachable catalog.
type downCatalog struct{}

func (downCatalog) SearchTerms(context.Context, string) ([]models.Entity, error) {
	return nil, catalog.ErrUnavailable
}

func (downCatalog) FindLinkedAssets(context.Context, string, string) ([]models.Entity, error) {
	return nil, catalog.ErrUnavailable
}

func (downCatalog) Ping(context.Context) error {
	return catalog.ErrUnavailable
}

func TestEngineDefineFlow(t *testing.T) {
	e := newTestEngine(t)

	reply := turn(t, e, "Define CAC")
	assert.Equal(t, models.ReplyAnswer, reply.Kind)
	assert.True(t, strings.HasPrefix(reply.Text, "## 📋 **Customer Acquisition Cost (CAC)**"),
		"definition should lead with the canonical term card, got: %.80s", reply.Text)
	assert.Equal(t, "Customer Acquisition Cost (CAC)", e.LastDiscussedTerm())

	// The follow-up never names the term; it must resolve through the
	// conversation context to the canonical name.
	reply = turn(t, e, "which assets use this term?")
	assert.Equal(t, models.ReplyAnswer, reply.Kind)
	assert.Contains(t, reply.Text, "I found 3 assets linked to the term 'Customer Acquisition Cost (CAC)'")
}

func TestEngineConfirmationGate(t *testing.T) {
	e := newTestEngine(t)

	reply := turn(t, e, "Churn Rate")
	assert.Equal(t, models.ReplyConfirmation, reply.Kind)
	assert.Equal(t, "I understand you want to define the term 'Churn Rate'. Is that correct?", reply.Text)
	assert.True(t, reply.AwaitingConfirmation)
	assert.True(t, e.AwaitingConfirmation())

	reply = turn(t, e, "yes")
	assert.Equal(t, models.ReplyAnswer, reply.Kind)
	assert.True(t, strings.HasPrefix(reply.Text, "## 📋 **Churn Rate**"))
	assert.False(t, e.AwaitingConfirmation())
	assert.Equal(t, "Churn Rate", e.LastDiscussedTerm())
}

func TestNeedsConfirmationBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		result models.IntentResult
		want   bool
	}{
		{"floor is inclusive", models.IntentResult{Intent: models.IntentDefineTerm, Confidence: 0.5, RequiresConfirmation: true}, true},
		{"below floor", models.IntentResult{Intent: models.IntentDefineTerm, Confidence: 0.49, RequiresConfirmation: true}, false},
		{"ceiling is exclusive", models.IntentResult{Intent: models.IntentDefineTerm, Confidence: 0.9, RequiresConfirmation: true}, false},
		{"just under ceiling", models.IntentResult{Intent: models.IntentFindAssets, Confidence: 0.89, RequiresConfirmation: true}, true},
		{"flag not set", models.IntentResult{Intent: models.IntentDefineTerm, Confidence: 0.7, RequiresConfirmation: false}, false},
		{"unknown never gates", models.IntentResult{Intent: models.IntentUnknown, Confidence: 0.7, RequiresConfirmation: true}, false},
		{"clarify never gates", models.IntentResult{Intent: models.IntentClarify, Confidence: 0.7, RequiresConfirmation: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsConfirmation(tt.result))
		})
	}
}

func TestEngineConfirmationDeclined(t *testing.T) {
	e := newTestEngine(t)

	turn(t, e, "Churn Rate")
	require.True(t, e.AwaitingConfirmation())

	reply := turn(t, e, "no thanks")
	assert.Equal(t, models.ReplyInfo, reply.Kind)
	assert.Equal(t, "No problem. Could you please rephrase your question?", reply.Text)
	assert.False(t, e.AwaitingConfirmation())
	assert.Empty(t, e.LastDiscussedTerm(), "a declined intent should not touch the discussed term")
}

func TestEngineListTerms(t *testing.T) {
	e := newTestEngine(t)

	reply := turn(t, e, "list all terms")
	assert.Equal(t, models.ReplyAnswer, reply.Kind)
	assert.True(t, strings.HasPrefix(reply.Text, "Here are the terms available in the glossary (5 total):"))
	assert.Contains(t, reply.Text, "**Customer Acquisition Cost (CAC)**")
	assert.False(t, e.AwaitingConfirmation(), "a high-confidence list request skips confirmation")
}

func TestEngineUnknown(t *testing.T) {
	e := newTestEngine(t)

	reply := turn(t, e, "???")
	assert.Equal(t, models.ReplyClarification, reply.Kind)
	assert.Contains(t, reply.Text, "I'm not sure what you're asking for.")
	assert.Contains(t, reply.Text, "Could you please rephrase your question?")
	assert.False(t, e.AwaitingConfirmation(), "clarifications leave nothing pending")
}

func TestEngineAmbiguous(t *testing.T) {
	e := newTestEngine(t)

	// "arr" is too short for substring resolution, so the single
	// candidate comes back as an alternate instead of a silent match.
	reply := turn(t, e, "define arr")
	assert.Equal(t, models.ReplyClarification, reply.Kind)
	assert.Contains(t, reply.Text, "no exact match for 'arr'")
	assert.Contains(t, reply.Text, "• **Annual Recurring Revenue (ARR)**")
	assert.True(t, strings.HasSuffix(reply.Text, "Please specify which term you'd like me to define."))
}

func TestEngineCatalogDown(t *testing.T) {
	classifier := intent.NewClassifier(nil, discardLogger(), nil)
	e := NewEngine(downCatalog{}, classifier, respond.NewComposer(""), nil, discardLogger(), nil)

	reply := turn(t, e, "list all terms")
	assert.Equal(t, models.ReplyInfo, reply.Kind)
	assert.Equal(t, "I couldn't reach the data catalog right now. Please check the connection and try again in a moment.", reply.Text)
}

func TestEngineMissingEntity(t *testing.T) {
	e := newTestEngine(t)

	reply := turn(t, e, "define")
	require.Equal(t, models.ReplyConfirmation, reply.Kind)

	reply = turn(t, e, "yes")
	assert.Equal(t, models.ReplyClarification, reply.Kind)
	assert.Equal(t, "I couldn't identify which term you want me to define. Could you please specify the term?", reply.Text)
}

func TestEngineReset(t *testing.T) {
	e := newTestEngine(t)

	turn(t, e, "Define CAC")
	require.Equal(t, "Customer Acquisition Cost (CAC)", e.LastDiscussedTerm())

	e.Reset()
	assert.Empty(t, e.LastDiscussedTerm())
	assert.False(t, e.AwaitingConfirmation())

	// Without context the follow-up degrades to a literal lookup.
	reply := turn(t, e, "which assets use this term?")
	assert.Equal(t, models.ReplyInfo, reply.Kind)
	assert.Contains(t, reply.Text, "I couldn't find the term 'this term' in the glossary.")
}

func TestEngineTranscript(t *testing.T) {
	e := newTestEngine(t)

	turn(t, e, "Define CAC")
	turn(t, e, "which assets use it?")

	e.mu.Lock()
	messages := e.context.Messages
	e.mu.Unlock()

	require.Len(t, messages, 4)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, models.IntentDefineTerm, messages[1].Intent)
	assert.Equal(t, []string{"Customer Acquisition Cost"}, messages[1].Entities)
	assert.Empty(t, messages[0].Intent, "user messages carry no intent metadata")
	assert.Equal(t, models.IntentFindAssets, messages[3].Intent)
}
