// Package enhance post-processes caption text through a hosted LLM to fix
// Hinglish transliteration errors. The correction call is best effort: the
// caller skips the stage on any failure and keeps the document unchanged.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Groq API configuration. Groq exposes an OpenAI-compatible endpoint, so the
// same client library serves both providers.
const (
	// DefaultBaseURL is the Groq OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the correction model.
	DefaultModel = "llama-3.3-70b-versatile"

	// defaultTimeout bounds the single correction request. There is no retry:
	// a timeout means the stage is skipped, not the pipeline aborted.
	defaultTimeout = 30 * time.Second

	// defaultTemperature keeps corrections near-deterministic.
	defaultTemperature = 0.1
)

// ErrAPIKeyMissing indicates no Groq API key was provided.
var ErrAPIKeyMissing = errors.New("GROQ_API_KEY not set")

// correctionPrompt instructs the model to fix transliteration errors without
// changing the word count, so corrected output can be merged positionally.
const correctionPrompt = `You are a Hinglish text corrector. Fix spelling and transliteration errors in this Whisper-transcribed Hinglish text.

Rules:
- Keep words in Roman script (no Devanagari)
- Fix common Whisper misheard words (e.g., "ka" -> "kya", "hay" -> "hai")
- Maintain the EXACT number of words - do NOT add or remove words
- Return ONLY the corrected text, nothing else

Original: %s

Corrected:`

// Corrector produces a corrected version of caption text.
type Corrector interface {
	// Correct returns the corrected text. The word-count contract is enforced
	// by the caller, not here.
	Correct(ctx context.Context, text string) (string, error)
}

// chatCompleter is an internal interface for the chat completion call.
// *openai.Client implements this implicitly, which allows injecting mocks
// in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Corrector     = (*GroqCorrector)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// GroqCorrector corrects Hinglish text via the Groq chat completion API.
// Each correction is a single attempt with a fixed timeout.
type GroqCorrector struct {
	client chatCompleter
	model  string
}

// Option configures a GroqCorrector.
type Option func(*GroqCorrector)

// WithModel sets the correction model.
func WithModel(model string) Option {
	return func(c *GroqCorrector) {
		if model != "" {
			c.model = model
		}
	}
}

// withChatCompleter sets a custom chat client (for testing).
func withChatCompleter(cc chatCompleter) Option {
	return func(c *GroqCorrector) { c.client = cc }
}

// NewGroqCorrector creates a corrector for the given API key.
func NewGroqCorrector(apiKey string, opts ...Option) (*GroqCorrector, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}

	c := &GroqCorrector{
		client: openai.NewClientWithConfig(cfg),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Correct sends the full caption text for correction and returns the model's
// corrected text, trimmed. Network errors, non-200 responses, and empty
// completions are all returned as errors for the caller to treat as a
// skipped stage.
func (c *GroqCorrector) Correct(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: defaultTemperature,
		MaxTokens:   len(text) * 2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(correctionPrompt, text),
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("correction API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("correction API: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
