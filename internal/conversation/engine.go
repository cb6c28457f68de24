package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mflister/lexicat/internal/catalog"
	"github.com/mflister/lexicat/internal/intent"
	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/models"
	"github.com/mflister/lexicat/internal/respond"
	"github.com/mflister/lexicat/internal/store"
)

// Gate boundaries: a confirmation is only worth asking for inside this
// confidence band. Above it the intent is trusted, below it the lookups
// run anyway and fail informatively.
const (
	confirmFloor   = 0.5
	confirmCeiling = 0.9
)

// yesWords accept a pending confirmation when they appear as a whole
// word of the reply.
var yesWords = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true,
	"correct": true, "right": true, "exactly": true,
}

// Engine runs one conversation: classify, gate, execute, remember.
type Engine struct {
	catalog    catalog.Catalog
	classifier *intent.Classifier
	composer   *respond.Composer
	store      *store.Client
	logger     *slog.Logger
	metrics    *metrics.Collector

	mu      sync.Mutex
	context *models.ConversationContext
	pending *models.IntentResult
}

// NewEngine creates a conversation engine. st may be nil; transcripts
// are then kept in memory only.
func NewEngine(cat catalog.Catalog, classifier *intent.Classifier, composer *respond.Composer, st *store.Client, logger *slog.Logger, collector *metrics.Collector) *Engine {
	return &Engine{
		catalog:    cat,
		classifier: classifier,
		composer:   composer,
		store:      st,
		logger:     logger,
		metrics:    collector,
		context:    newContext(),
	}
}

// AwaitingConfirmation reports whether the engine is holding a pending
// intent for the user to confirm.
func (e *Engine) AwaitingConfirmation() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

// LastDiscussedTerm returns the canonical name of the term the
// conversation is currently about, if any.
func (e *Engine) LastDiscussedTerm() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.context.LastDiscussedTerm
}

// Reset replaces the whole conversation context and drops any pending
// confirmation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.context = newContext()
	e.pending = nil
}

// HandleInput runs one turn. sessionID names the transcript session for
// store mirroring. Collaborator failures degrade to informational
// replies; an error return means the turn itself could not run.
func (e *Engine) HandleInput(ctx context.Context, sessionID, input string) (*models.Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.appendUser(ctx, sessionID, input)

	var reply *models.Reply
	if e.pending != nil {
		reply = e.resolveConfirmation(ctx, input)
	} else {
		result := e.classifier.Classify(ctx, input, window(e.context), e.context.LastDiscussedTerm)

		switch {
		case result.Intent == models.IntentUnknown || result.Intent == models.IntentClarify:
			reply = e.clarify(result)
		case needsConfirmation(result):
			e.pending = &result
			reply = &models.Reply{
				Text:                 e.composer.Confirmation(result),
				Kind:                 models.ReplyConfirmation,
				Intent:               result.Intent,
				Entities:             result.Entities,
				Confidence:           result.Confidence,
				AwaitingConfirmation: true,
			}
		default:
			reply = e.execute(ctx, result)
		}
	}

	e.appendAssistant(ctx, sessionID, reply)
	return reply, nil
}

// needsConfirmation applies the gate: only moderately confident intents
// that ask for confirmation get one, and only for executable intents.
func needsConfirmation(result models.IntentResult) bool {
	if result.Intent == models.IntentUnknown || result.Confidence > confirmCeiling {
		return false
	}
	switch result.Intent {
	case models.IntentDefineTerm, models.IntentFindAssets, models.IntentListTerms:
	default:
		return false
	}
	return result.RequiresConfirmation &&
		result.Confidence >= confirmFloor && result.Confidence < confirmCeiling
}

// resolveConfirmation consumes the pending intent: yes executes it with
// its original entities, anything else discards it.
func (e *Engine) resolveConfirmation(ctx context.Context, input string) *models.Reply {
	pending := *e.pending
	e.pending = nil

	if isAffirmative(input) {
		return e.execute(ctx, pending)
	}

	return &models.Reply{
		Text:   e.composer.ConfirmationDeclined(),
		Kind:   models.ReplyInfo,
		Intent: pending.Intent,
	}
}

func isAffirmative(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if strings.Contains(lower, "that's right") {
		return true
	}
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if yesWords[token] {
			return true
		}
	}
	return false
}

func (e *Engine) execute(ctx context.Context, result models.IntentResult) *models.Reply {
	switch result.Intent {
	case models.IntentDefineTerm:
		return e.defineTerm(ctx, result)
	case models.IntentFindAssets:
		return e.findAssets(ctx, result)
	case models.IntentListTerms:
		return e.listTerms(ctx, result)
	default:
		return e.clarify(result)
	}
}

func (e *Engine) defineTerm(ctx context.Context, result models.IntentResult) *models.Reply {
	if len(result.Entities) == 0 {
		return e.reply(result, models.ReplyClarification, e.composer.MissingEntityDefine())
	}
	query := result.Entities[0]

	terms, err := e.catalog.SearchTerms(ctx, query)
	if err != nil {
		return e.catalogTrouble(result, err)
	}

	match, alternates := catalog.Resolve(query, terms)
	if match == nil {
		if len(alternates) > 0 {
			return e.reply(result, models.ReplyClarification, e.composer.AmbiguousTerm(query, alternates, result.Intent))
		}
		return e.reply(result, models.ReplyInfo, e.composer.DefineNotFound(query))
	}

	// The card's asset table is auxiliary; a failed lookup degrades to
	// a card without assets rather than losing the definition.
	assets, err := e.catalog.FindLinkedAssets(ctx, match.GUID, match.Name)
	if err != nil {
		e.logger.Warn("linked assets lookup failed", "term", match.Name, "error", err)
		assets = nil
	}

	e.context.LastDiscussedTerm = match.Name
	e.context.LastIntent = result.Intent
	return e.reply(result, models.ReplyAnswer, e.composer.TermCard(*match, assets))
}

func (e *Engine) findAssets(ctx context.Context, result models.IntentResult) *models.Reply {
	if len(result.Entities) == 0 {
		return e.reply(result, models.ReplyClarification, e.composer.MissingEntityFind())
	}
	query := result.Entities[0]

	terms, err := e.catalog.SearchTerms(ctx, query)
	if err != nil {
		return e.catalogTrouble(result, err)
	}

	match, alternates := catalog.Resolve(query, terms)
	if match == nil {
		if len(alternates) > 0 {
			return e.reply(result, models.ReplyClarification, e.composer.AmbiguousTerm(query, alternates, result.Intent))
		}
		return e.reply(result, models.ReplyInfo, e.composer.FindNotFound(query))
	}

	assets, err := e.catalog.FindLinkedAssets(ctx, match.GUID, match.Name)
	if err != nil {
		return e.catalogTrouble(result, err)
	}

	e.context.LastDiscussedTerm = match.Name
	e.context.LastIntent = result.Intent
	return e.reply(result, models.ReplyAnswer, e.composer.AssetsAnswer(match.Name, assets))
}

func (e *Engine) listTerms(ctx context.Context, result models.IntentResult) *models.Reply {
	terms, err := e.catalog.SearchTerms(ctx, "")
	if err != nil {
		return e.catalogTrouble(result, err)
	}

	e.context.LastIntent = result.Intent
	kind := models.ReplyAnswer
	if len(terms) == 0 {
		kind = models.ReplyInfo
	}
	return e.reply(result, kind, e.composer.TermList(terms))
}

func (e *Engine) clarify(result models.IntentResult) *models.Reply {
	text := e.composer.Clarification(result)
	if result.Explanation == "" && result.SuggestedPhrasing == "" {
		text = e.composer.UnknownHelp(result.OriginalQuery)
	}
	return e.reply(result, models.ReplyClarification, text)
}

func (e *Engine) catalogTrouble(result models.IntentResult, err error) *models.Reply {
	e.logger.Error("catalog request failed", "intent", result.Intent, "error", err)
	return e.reply(result, models.ReplyInfo, e.composer.CatalogUnavailable())
}

func (e *Engine) reply(result models.IntentResult, kind, text string) *models.Reply {
	return &models.Reply{
		Text:       text,
		Kind:       kind,
		Intent:     result.Intent,
		Entities:   result.Entities,
		Confidence: result.Confidence,
	}
}

func (e *Engine) appendUser(ctx context.Context, sessionID, input string) {
	e.context.Messages = append(e.context.Messages, models.Message{
		Role:      models.RoleUser,
		Content:   input,
		CreatedAt: time.Now(),
	})
	e.persist(ctx, sessionID, models.RoleUser, input, "", nil)
}

func (e *Engine) appendAssistant(ctx context.Context, sessionID string, reply *models.Reply) {
	e.context.Messages = append(e.context.Messages, models.Message{
		Role:      models.RoleAssistant,
		Content:   reply.Text,
		Intent:    reply.Intent,
		Entities:  reply.Entities,
		CreatedAt: time.Now(),
	})
	e.persist(ctx, sessionID, models.RoleAssistant, reply.Text, reply.Intent, reply.Entities)
}

// persist mirrors a message to the transcript store. Best-effort:
// transcripts never break a turn.
func (e *Engine) persist(ctx context.Context, sessionID, role, content, intentName string, entities []string) {
	if e.store == nil {
		return
	}
	if _, err := e.store.AppendMessage(ctx, sessionID, role, content, intentName, entities); err != nil {
		e.logger.Warn("transcript write failed", "session", sessionID, "error", err)
	}
}
