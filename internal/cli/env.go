package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/VikashMeena777/Capion-Gen/internal/asr"
	"github.com/VikashMeena777/Capion-Gen/internal/config"
	"github.com/VikashMeena777/Capion-Gen/internal/enhance"
	"github.com/VikashMeena777/Capion-Gen/internal/media"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

// Engine names accepted by the --engine flag.
const (
	EngineWhisperCPP = "whisper"
	EngineOpenAI     = "openai"
)

// DurationProber probes the authoritative audio duration.
type DurationProber interface {
	Duration(ctx context.Context, audioPath string) (time.Duration, error)
}

// Uploader pushes a file to a cloud storage folder.
type Uploader interface {
	Upload(ctx context.Context, filePath, folderID string) (upload.Result, error)
}

// Env holds injectable dependencies for CLI commands. This is the central
// injection point for testing commands in isolation; production defaults
// come from DefaultEnv.
type Env struct {
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time
	Logger zerolog.Logger

	NewEngine    func(cfg config.Config, engine, model, language string) (asr.Engine, error)
	NewProber    func(cfg config.Config) DurationProber
	NewCorrector func(apiKey, model string) (enhance.Corrector, error)
	NewUploader  func(cfg config.Config, logger zerolog.Logger) Uploader
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) { e.Now = fn }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) EnvOption {
	return func(e *Env) { e.Logger = l }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Now:          time.Now,
		Logger:       zerolog.Nop(),
		NewEngine:    defaultNewEngine,
		NewProber:    defaultNewProber,
		NewCorrector: defaultNewCorrector,
		NewUploader:  defaultNewUploader,
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// defaultNewEngine builds the requested transcription engine.
func defaultNewEngine(cfg config.Config, engine, model, language string) (asr.Engine, error) {
	switch engine {
	case EngineWhisperCPP, "":
		opts := []asr.WhisperOption{asr.WithWhisperLanguage(language)}
		if model != "" {
			opts = append(opts, asr.WithWhisperModelName(model))
		}
		return asr.NewWhisperCPP(cfg.WhisperBin, cfg.WhisperModel, opts...)

	case EngineOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, config.EnvOpenAIAPIKey)
		}
		client := openai.NewClient(cfg.OpenAIAPIKey)
		opts := []asr.OpenAIOption{asr.WithOpenAILanguage(language)}
		if model != "" {
			opts = append(opts, asr.WithOpenAIModel(model))
		}
		return asr.NewOpenAIEngine(client, opts...), nil

	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", asr.ErrUnknownEngine, engine, EngineWhisperCPP, EngineOpenAI)
	}
}

func defaultNewProber(cfg config.Config) DurationProber {
	return media.NewProber(cfg.FFprobePath)
}

func defaultNewCorrector(apiKey, model string) (enhance.Corrector, error) {
	return enhance.NewGroqCorrector(apiKey, enhance.WithModel(model))
}

func defaultNewUploader(cfg config.Config, logger zerolog.Logger) Uploader {
	return upload.NewUploader(
		upload.WithRemote(cfg.RcloneRemote),
		upload.WithLogger(logger),
	)
}
