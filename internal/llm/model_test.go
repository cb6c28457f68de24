package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/mflister/lexicat/internal/metrics"
)

// fakeLLM implements llms.Model with canned output and captures the
// messages it was called with.
type fakeLLM struct {
	response string
	info     map[string]any
	err      error
	messages []llms.MessageContent
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response, GenerationInfo: f.info}},
	}, nil
}

func (f *fakeLLM) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func messageText(msg llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if text, ok := part.(llms.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{"credit balance", errors.New("insufficient credit balance"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota exceeded", errors.New("quota exceeded for model"), true},
		{"billing issue", errors.New("billing account inactive"), true},
		{"invalid api key", errors.New("invalid api key"), true},
		{"authentication failed", errors.New("authentication failed"), true},
		{"unauthorized", errors.New("unauthorized request"), true},
		{"401 status", errors.New("HTTP 401: not allowed"), true},
		{"403 status", errors.New("HTTP 403: forbidden"), true},
		{"wrapped error", fmt.Errorf("classify: %w", errors.New("credit balance too low")), true},
		{"404 not fatal", errors.New("HTTP 404: not found"), false},
		{"timeout not fatal", errors.New("context deadline exceeded"), false},
		{"refused not fatal", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isFatalAPIError(tt.err)
			if got != tt.fatal {
				t.Errorf("isFatalAPIError(%v) = %v, want %v", tt.err, got, tt.fatal)
			}
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("wraps fatal error", func(t *testing.T) {
		err := errors.New("invalid api key provided")
		wrapped := wrapFatalError(err)
		if !errors.Is(wrapped, ErrFatalAPI) {
			t.Errorf("expected wrapped error to match ErrFatalAPI")
		}
	})

	t.Run("passes through non-fatal error", func(t *testing.T) {
		err := errors.New("network timeout")
		result := wrapFatalError(err)
		if errors.Is(result, ErrFatalAPI) {
			t.Errorf("non-fatal error should not be wrapped with ErrFatalAPI")
		}
		if result != err {
			t.Errorf("expected original error returned, got %v", result)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		result := wrapFatalError(nil)
		if result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})
}

func TestGenerateWithSystem(t *testing.T) {
	fake := &fakeLLM{
		response: "a definition",
		info:     map[string]any{"PromptTokens": 120, "CompletionTokens": 30},
	}
	collector := metrics.NewCollector()
	model := NewModelFromLLM(fake, "test-model", collector)

	got, err := model.GenerateWithSystem(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("GenerateWithSystem: %v", err)
	}
	if got != "a definition" {
		t.Errorf("response = %q, want %q", got, "a definition")
	}

	if len(fake.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(fake.messages))
	}
	if fake.messages[0].Role != llms.ChatMessageTypeSystem {
		t.Errorf("first message role = %v, want system", fake.messages[0].Role)
	}
	if fake.messages[1].Role != llms.ChatMessageTypeHuman {
		t.Errorf("second message role = %v, want human", fake.messages[1].Role)
	}

	snap := collector.Snapshot()
	if snap.LLMGenerate == nil || snap.LLMGenerate.Count != 1 {
		t.Fatalf("expected one recorded llm generation, got %+v", snap.LLMGenerate)
	}
	if snap.LLMGenerate.TotalInputTokens == nil || *snap.LLMGenerate.TotalInputTokens != 120 {
		t.Errorf("input tokens not recorded: %+v", snap.LLMGenerate)
	}
	if snap.LLMGenerate.TotalOutputTokens == nil || *snap.LLMGenerate.TotalOutputTokens != 30 {
		t.Errorf("output tokens not recorded: %+v", snap.LLMGenerate)
	}
}

func TestGenerateWithSystemFatalError(t *testing.T) {
	fake := &fakeLLM{err: errors.New("invalid api key")}
	collector := metrics.NewCollector()
	model := NewModelFromLLM(fake, "test-model", collector)

	_, err := model.GenerateWithSystem(context.Background(), "system", "user")
	if !errors.Is(err, ErrFatalAPI) {
		t.Fatalf("expected ErrFatalAPI, got %v", err)
	}
}

func TestClassifyIntentPrompt(t *testing.T) {
	fake := &fakeLLM{response: `{"intent": "define_term"}`}
	model := NewModelFromLLM(fake, "test-model", nil)

	got, err := model.ClassifyIntent(context.Background(), "USER: define CAC", "what about CLV?")
	if err != nil {
		t.Fatalf("ClassifyIntent: %v", err)
	}
	if got != `{"intent": "define_term"}` {
		t.Errorf("response = %q", got)
	}

	if len(fake.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(fake.messages))
	}
	system := messageText(fake.messages[0])
	if !strings.Contains(system, "intent recognition system") {
		t.Errorf("system prompt missing role statement: %q", system)
	}
	user := messageText(fake.messages[1])
	for _, want := range []string{
		`User Input: "what about CLV?"`,
		"USER: define CAC",
		"define_term|find_assets|list_terms|clarify|unknown",
		"FULL term name",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestTokenUsage(t *testing.T) {
	tests := []struct {
		name    string
		info    map[string]any
		wantIn  int64
		wantOut int64
	}{
		{"openai style ints", map[string]any{"PromptTokens": 100, "CompletionTokens": 20}, 100, 20},
		{"anthropic style", map[string]any{"InputTokens": 50, "OutputTokens": 10}, 50, 10},
		{"snake case floats", map[string]any{"input_tokens": float64(7), "output_tokens": float64(3)}, 7, 3},
		{"nil info", nil, 0, 0},
		{"unusable values", map[string]any{"PromptTokens": "many"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := tokenUsage(tt.info)
			if in != tt.wantIn || out != tt.wantOut {
				t.Errorf("tokenUsage() = (%d, %d), want (%d, %d)", in, out, tt.wantIn, tt.wantOut)
			}
		})
	}
}
