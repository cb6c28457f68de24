package intent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mflister/lexicat/internal/llm"
	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/models"
)

const classifyTimeout = 15 * time.Second

// Classifier determines user intent, preferring the LLM and degrading to
// keyword matching when the model is missing, failing or unparseable.
type Classifier struct {
	model     *llm.Model
	extractor *Extractor
	logger    *slog.Logger
	metrics   *metrics.Collector

	// set after a fatal provider error so the session stops paying
	// for calls that cannot succeed
	disabled atomic.Bool
}

// NewClassifier creates a classifier. A nil model means keyword-only mode.
func NewClassifier(model *llm.Model, logger *slog.Logger, collector *metrics.Collector) *Classifier {
	return &Classifier{
		model:     model,
		extractor: NewExtractor(),
		logger:    logger,
		metrics:   collector,
	}
}

// Extractor returns the entity extractor the classifier uses.
func (c *Classifier) Extractor() *Extractor {
	return c.extractor
}

// Classify determines what the user wants. window is the rendered
// conversation history for the LLM prompt; lastDiscussedTerm feeds the
// extractor's context-reference strategy. Classification never fails:
// any LLM problem falls back to keyword matching.
func (c *Classifier) Classify(ctx context.Context, input, window, lastDiscussedTerm string) models.IntentResult {
	start := time.Now()
	defer func() {
		c.metrics.RecordTiming(metrics.OpIntentClassify, time.Since(start))
	}()

	if c.model == nil || c.disabled.Load() {
		result := fallbackClassify(input, lastDiscussedTerm, c.extractor)
		result.OriginalQuery = input
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	raw, err := c.model.ClassifyIntent(ctx, window, input)
	if err != nil {
		c.metrics.RecordError(metrics.OpIntentClassify)
		if errors.Is(err, llm.ErrFatalAPI) {
			c.disabled.Store(true)
			c.logger.Warn("llm classification disabled after fatal provider error", "error", err)
		} else {
			c.logger.Debug("llm classification failed, using fallback", "error", err)
		}
		result := fallbackClassify(input, lastDiscussedTerm, c.extractor)
		result.OriginalQuery = input
		return result
	}

	result, ok := parseIntentReply(raw)
	if !ok {
		c.logger.Debug("unparseable llm intent reply, using fallback", "reply", truncate(raw, 120))
		result = fallbackClassify(input, lastDiscussedTerm, c.extractor)
	}
	result.OriginalQuery = input

	c.logger.Debug("intent classified",
		"intent", result.Intent,
		"confidence", result.Confidence,
		"entities", result.Entities)

	return result
}

// intentReply is the JSON shape the model is prompted to produce.
type intentReply struct {
	Intent               string   `json:"intent"`
	Entities             []string `json:"entities"`
	Confidence           float64  `json:"confidence"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	Reasoning            string   `json:"reasoning"`
}

// parseIntentReply parses the model output tolerantly. Anything that is
// not a JSON object carrying a known intent reports false so the caller
// can fall back.
func parseIntentReply(raw string) (models.IntentResult, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return models.IntentResult{}, false
	}

	var reply intentReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err != nil {
		return models.IntentResult{}, false
	}

	switch reply.Intent {
	case models.IntentDefineTerm, models.IntentFindAssets, models.IntentListTerms,
		models.IntentClarify, models.IntentUnknown:
	default:
		return models.IntentResult{}, false
	}

	if reply.Entities == nil {
		reply.Entities = []string{}
	}
	if reply.Confidence < 0 {
		reply.Confidence = 0
	}
	if reply.Confidence > 1 {
		reply.Confidence = 1
	}

	return models.IntentResult{
		Intent:               reply.Intent,
		Entities:             reply.Entities,
		Confidence:           reply.Confidence,
		RequiresConfirmation: reply.RequiresConfirmation,
		Explanation:          reply.Reasoning,
	}, true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
