// Package config builds explicit configuration from the environment at
// startup. Components never read environment variables themselves; they
// receive values at construction time.
package config

import (
	"path/filepath"

	"github.com/VikashMeena777/Capion-Gen/internal/asr"
	"github.com/VikashMeena777/Capion-Gen/internal/enhance"
	"github.com/VikashMeena777/Capion-Gen/internal/media"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

// Environment variable names.
const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGroqModel    = "GROQ_MODEL"
	EnvWhisperBin   = "WHISPER_BIN"
	EnvWhisperModel = "WHISPER_MODEL"
	EnvFFprobePath  = "FFPROBE_PATH"
	EnvRcloneRemote = "RCLONE_REMOTE"
	EnvOutputDir    = "CAPGEN_OUTPUT_DIR"
)

// Config holds all externally sourced settings for one pipeline run.
type Config struct {
	// GroqAPIKey authorizes the caption correction API. Empty disables the
	// correction stage.
	GroqAPIKey string

	// GroqModel is the correction model identifier.
	GroqModel string

	// OpenAIAPIKey authorizes the hosted transcription engine. Only required
	// when the openai engine is selected.
	OpenAIAPIKey string

	// WhisperBin is the whisper.cpp CLI binary name or path.
	WhisperBin string

	// WhisperModel is the path to the local ggml weights file.
	WhisperModel string

	// FFprobePath is the ffprobe binary name or path.
	FFprobePath string

	// RcloneRemote is the pre-configured rclone remote name.
	RcloneRemote string

	// OutputDir, when set, anchors relative output paths.
	OutputDir string
}

// FromEnv reads configuration with defaults applied. getenv is injected so
// the loader is testable without environment mutation.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		GroqAPIKey:   getenv(EnvGroqAPIKey),
		OpenAIAPIKey: getenv(EnvOpenAIAPIKey),
		GroqModel:    getenv(EnvGroqModel),
		WhisperBin:   getenv(EnvWhisperBin),
		WhisperModel: getenv(EnvWhisperModel),
		FFprobePath:  getenv(EnvFFprobePath),
		RcloneRemote: getenv(EnvRcloneRemote),
		OutputDir:    getenv(EnvOutputDir),
	}

	if cfg.GroqModel == "" {
		cfg.GroqModel = enhance.DefaultModel
	}
	if cfg.WhisperBin == "" {
		cfg.WhisperBin = asr.DefaultWhisperBin
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = media.DefaultFFprobeBin
	}
	if cfg.RcloneRemote == "" {
		cfg.RcloneRemote = upload.DefaultRemote
	}
	return cfg
}

// ResolveOutputPath resolves the final output path:
//  1. empty output uses defaultName (in OutputDir when set)
//  2. a relative output is joined with OutputDir when set
//  3. an absolute output is used as-is
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output == "" {
		output = defaultName
	}
	if outputDir == "" || filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	return filepath.Clean(filepath.Join(outputDir, output))
}
