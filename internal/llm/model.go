// Package llm wraps langchaingo chat models behind a small interface the
// rest of lexicat talks to. Provider selection, default model names and
// token accounting live here so callers only deal in prompts and text.
package llm

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mflister/lexicat/internal/config"
	"github.com/mflister/lexicat/internal/metrics"
)

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm       llms.Model
	modelName string
	metrics   *metrics.Collector
}

// NewModel creates an LLM model based on configuration. ProviderNone
// returns a nil model without error; callers treat that as keyword-only
// mode and skip the LLM entirely.
func NewModel(cfg config.Config, collector *metrics.Collector) (*Model, error) {
	if cfg.LLMProvider == config.ProviderNone {
		return nil, nil
	}

	name := cfg.LLMModel
	if name == "" {
		name = defaultModel(cfg.LLMProvider)
	}

	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(name),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(name),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		model, err = openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(name),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		model, err = bedrock.New(
			bedrock.WithClient(bedrockruntime.NewFromConfig(awsCfg)),
			bedrock.WithModel(name),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: name,
		metrics:   collector,
	}, nil
}

// NewModelFromLLM wraps an already constructed langchaingo model. Used by
// tests and by callers that bring their own client.
func NewModelFromLLM(model llms.Model, name string, collector *metrics.Collector) *Model {
	return &Model{llm: model, modelName: name, metrics: collector}
}

// Generate generates text based on a prompt.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
	if err != nil {
		m.metrics.RecordError(metrics.OpLLMGenerate)
		return "", wrapFatalError(fmt.Errorf("generate: %w", err))
	}
	m.metrics.RecordTiming(metrics.OpLLMGenerate, time.Since(start))
	return response, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		m.metrics.RecordError(metrics.OpLLMGenerate)
		return "", wrapFatalError(fmt.Errorf("generate with system: %w", err))
	}

	if len(response.Choices) == 0 {
		m.metrics.RecordError(metrics.OpLLMGenerate)
		return "", fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	input, output := tokenUsage(choice.GenerationInfo)
	m.metrics.RecordLLMUsage(metrics.OpLLMGenerate, time.Since(start), input, output)

	return choice.Content, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Ping verifies the provider is reachable with a one-token round trip.
func (m *Model) Ping(ctx context.Context) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "ping"),
	}
	_, err := m.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(1))
	if err != nil {
		return wrapFatalError(fmt.Errorf("llm ping: %w", err))
	}
	return nil
}

// ClassifyIntent asks the model to identify what the user wants and to
// extract glossary term entities from the input. The reply is expected to
// be a JSON object; parsing and validation happen in the intent package.
func (m *Model) ClassifyIntent(ctx context.Context, history, input string) (string, error) {
	systemPrompt := `You are an intent recognition system for a data glossary assistant. Analyze the user's input and determine their intent.`

	userPrompt := fmt.Sprintf(`Conversation History:
%s

User Input: "%s"

IMPORTANT: For entity extraction, extract the FULL term name, not just individual words.
- "Customer Acquisition Cost" should be extracted as ["Customer Acquisition Cost"], not ["Customer", "Acquisition", "Cost"]
- "CAC" should be extracted as ["CAC"]
- "Customer Lifetime Value" should be extracted as ["Customer Lifetime Value"]
- "CLV" should be extracted as ["CLV"]

Analyze the intent and extract entities. Return a JSON response with:
{
    "intent": "define_term|find_assets|list_terms|clarify|unknown",
    "entities": ["extracted_terms"],
    "confidence": 0.0-1.0,
    "requires_confirmation": true/false,
    "reasoning": "brief explanation"
}

Intent types:
- define_term: User wants to know what a term means
- find_assets: User wants to find assets linked to a term
- list_terms: User wants to see available terms
- clarify: Intent is unclear, needs clarification
- unknown: Cannot determine intent

Examples:
- "define customer acquisition cost" -> {"intent": "define_term", "entities": ["Customer Acquisition Cost"], "confidence": 0.9, "requires_confirmation": false}
- "which assets use CAC" -> {"intent": "find_assets", "entities": ["CAC"], "confidence": 0.95, "requires_confirmation": false}
- "what terms are available" -> {"intent": "list_terms", "entities": [], "confidence": 0.8, "requires_confirmation": false}

Respond with the JSON object only.`, history, input)

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

// defaultModel picks a sensible model name when the configuration leaves
// it empty.
func defaultModel(provider string) string {
	switch provider {
	case config.ProviderOpenAI:
		return "gpt-4o-mini"
	case config.ProviderAnthropic:
		return "claude-3-5-haiku-20241022"
	case config.ProviderBedrock:
		return "anthropic.claude-3-5-sonnet-20240620-v1:0"
	default:
		return "llama3.2"
	}
}

// tokenUsage pulls prompt and completion token counts out of the
// provider-specific generation info, which langchaingo does not unify.
func tokenUsage(info map[string]any) (input, output int64) {
	input = tokenCount(info, "PromptTokens", "InputTokens", "prompt_tokens", "input_tokens")
	output = tokenCount(info, "CompletionTokens", "OutputTokens", "completion_tokens", "output_tokens")
	return input, output
}

func tokenCount(info map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}
