package asr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ModelWhisper1 is the hosted transcription model used by the API engine.
const ModelWhisper1 = "whisper-1"

// audioTranscriber is an internal interface for the OpenAI transcription
// call. *openai.Client implements this implicitly, which allows injecting
// mocks in tests.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Engine           = (*OpenAIEngine)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAIEngine transcribes via an OpenAI-compatible transcription API with
// word-level timestamp granularity.
type OpenAIEngine struct {
	client   audioTranscriber
	model    string
	language string
}

// OpenAIOption configures an OpenAIEngine.
type OpenAIOption func(*OpenAIEngine)

// WithOpenAIModel sets the transcription model (default whisper-1).
func WithOpenAIModel(model string) OpenAIOption {
	return func(e *OpenAIEngine) {
		if model != "" {
			e.model = model
		}
	}
}

// WithOpenAILanguage sets the spoken language hint.
func WithOpenAILanguage(lang string) OpenAIOption {
	return func(e *OpenAIEngine) { e.language = lang }
}

// withAudioTranscriber sets a custom transcription client (for testing).
func withAudioTranscriber(c audioTranscriber) OpenAIOption {
	return func(e *OpenAIEngine) { e.client = c }
}

// NewOpenAIEngine creates an API-backed engine.
func NewOpenAIEngine(client *openai.Client, opts ...OpenAIOption) *OpenAIEngine {
	e := &OpenAIEngine{
		client:   client,
		model:    ModelWhisper1,
		language: "hi",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transcribe requests a verbose transcription with word timestamps. Engines
// that return only segments or plain text still produce a usable Result;
// the caller degrades through lower-fidelity timing modes.
func (e *OpenAIEngine) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	req := openai.AudioRequest{
		Model:    e.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: e.language,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
			openai.TranscriptionTimestampGranularitySegment,
		},
	}

	resp, err := e.client.CreateTranscription(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("transcription API: %w", err)
	}

	res := Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Model:    e.model,
	}
	for _, w := range resp.Words {
		res.Words = append(res.Words, Word{
			Text:    w.Word,
			StartMs: int64(w.Start * 1000),
			EndMs:   int64(w.End * 1000),
		})
	}
	for _, s := range resp.Segments {
		res.Segments = append(res.Segments, Segment{
			Text:    strings.TrimSpace(s.Text),
			StartMs: int64(s.Start * 1000),
			EndMs:   int64(s.End * 1000),
		})
	}

	if res.Text == "" && len(res.Words) == 0 && len(res.Segments) == 0 {
		return Result{}, ErrEmptyResult
	}
	return res, nil
}
