package config

import (
	"testing"

	"github.com/VikashMeena777/Capion-Gen/internal/asr"
	"github.com/VikashMeena777/Capion-Gen/internal/enhance"
	"github.com/VikashMeena777/Capion-Gen/internal/media"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

func mapGetenv(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Parallel()

	cfg := FromEnv(mapGetenv(nil))

	if cfg.GroqAPIKey != "" || cfg.OpenAIAPIKey != "" {
		t.Error("API keys must default to empty")
	}
	if cfg.GroqModel != enhance.DefaultModel {
		t.Errorf("GroqModel = %q, want %q", cfg.GroqModel, enhance.DefaultModel)
	}
	if cfg.WhisperBin != asr.DefaultWhisperBin {
		t.Errorf("WhisperBin = %q, want %q", cfg.WhisperBin, asr.DefaultWhisperBin)
	}
	if cfg.FFprobePath != media.DefaultFFprobeBin {
		t.Errorf("FFprobePath = %q, want %q", cfg.FFprobePath, media.DefaultFFprobeBin)
	}
	if cfg.RcloneRemote != upload.DefaultRemote {
		t.Errorf("RcloneRemote = %q, want %q", cfg.RcloneRemote, upload.DefaultRemote)
	}
	if cfg.OutputDir != "" {
		t.Errorf("OutputDir = %q, want empty", cfg.OutputDir)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Parallel()

	cfg := FromEnv(mapGetenv(map[string]string{
		EnvGroqAPIKey:   "gsk-test",
		EnvOpenAIAPIKey: "sk-test",
		EnvGroqModel:    "llama-3.1-8b-instant",
		EnvWhisperBin:   "/opt/whisper/main",
		EnvWhisperModel: "/models/ggml-hindi.bin",
		EnvFFprobePath:  "/usr/local/bin/ffprobe",
		EnvRcloneRemote: "drive",
		EnvOutputDir:    "/data/out",
	}))

	if cfg.GroqAPIKey != "gsk-test" || cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("keys = %q/%q", cfg.GroqAPIKey, cfg.OpenAIAPIKey)
	}
	if cfg.GroqModel != "llama-3.1-8b-instant" {
		t.Errorf("GroqModel = %q", cfg.GroqModel)
	}
	if cfg.WhisperBin != "/opt/whisper/main" || cfg.WhisperModel != "/models/ggml-hindi.bin" {
		t.Errorf("whisper = %q/%q", cfg.WhisperBin, cfg.WhisperModel)
	}
	if cfg.FFprobePath != "/usr/local/bin/ffprobe" {
		t.Errorf("FFprobePath = %q", cfg.FFprobePath)
	}
	if cfg.RcloneRemote != "drive" {
		t.Errorf("RcloneRemote = %q", cfg.RcloneRemote)
	}
	if cfg.OutputDir != "/data/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		outputDir   string
		defaultName string
		want        string
	}{
		{"explicit relative, no dir", "out.json", "", "x.json", "out.json"},
		{"explicit relative, with dir", "out.json", "/data", "x.json", "/data/out.json"},
		{"absolute ignores dir", "/tmp/out.json", "/data", "x.json", "/tmp/out.json"},
		{"empty uses default", "", "", "x.json", "x.json"},
		{"empty uses default in dir", "", "/data", "x.json", "/data/x.json"},
		{"cleans path", "a/./b.json", "", "", "a/b.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveOutputPath(tt.output, tt.outputDir, tt.defaultName)
			if got != tt.want {
				t.Errorf("ResolveOutputPath(%q, %q, %q) = %q, want %q",
					tt.output, tt.outputDir, tt.defaultName, got, tt.want)
			}
		})
	}
}
