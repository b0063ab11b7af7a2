package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VikashMeena777/Capion-Gen/internal/asr"
	"github.com/VikashMeena777/Capion-Gen/internal/caption"
	"github.com/VikashMeena777/Capion-Gen/internal/config"
)

// deriveCaptionsPath converts an audio file path to a captions output path.
// Example: "clip.wav" -> "clip.captions.json"
func deriveCaptionsPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".captions.json"
}

// TranscribeCmd creates the transcribe command.
func TranscribeCmd(env *Env) *cobra.Command {
	var (
		output   string
		engine   string
		model    string
		language string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>...",
		Short: "Transcribe audio into word-level timed captions",
		Long: `Transcribe Hinglish audio into word-level timed captions.

The engine's timing evidence is used at the best available granularity:
per-word timestamps directly, per-chunk timestamps split evenly across
words, or an even distribution over the probed audio duration. A failed
duration probe falls back to an estimate; it never fails the pipeline.`,
		Example: `  capgen transcribe clip.wav -o captions.json
  capgen transcribe clip.wav --engine openai --language hi
  capgen transcribe ep1.wav ep2.wav ep3.wav --parallel 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd.Context(), env, args, output, engine, model, language, parallel)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON path (single input only; default: <input>.captions.json)")
	cmd.Flags().StringVar(&engine, "engine", EngineWhisperCPP, "Transcription engine: whisper, openai")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier recorded in the document")
	cmd.Flags().StringVarP(&language, "language", "l", "hi", "Audio language (ISO 639-1 code)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Max concurrent files when batching (1-4)")

	return cmd
}

// runTranscribe executes the transcription stage for one or more files.
func runTranscribe(ctx context.Context, env *Env, inputs []string, output, engineName, model, language string, parallel int) error {
	for _, input := range inputs {
		if _, err := os.Stat(input); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, input)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
	}
	if output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output cannot be used with multiple input files")
	}

	cfg := config.FromEnv(env.Getenv)

	engine, err := env.NewEngine(cfg, engineName, model, language)
	if err != nil {
		return err
	}
	prober := env.NewProber(cfg)

	if parallel > asr.MaxRecommendedParallel {
		parallel = asr.MaxRecommendedParallel
	}

	env.Logger.Info().Int("files", len(inputs)).Str("engine", engineName).Msg("transcribing")

	results, err := asr.TranscribeAll(ctx, inputs, engine, parallel)
	if err != nil {
		return err
	}

	for i, input := range inputs {
		out := output
		if out == "" {
			out = deriveCaptionsPath(input)
		}
		out = config.ResolveOutputPath(out, cfg.OutputDir, "")

		if err := writeCaptionDocument(ctx, env, prober, input, out, results[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeCaptionDocument allocates timing for one engine result and persists
// the caption document.
func writeCaptionDocument(ctx context.Context, env *Env, prober DurationProber, input, output string, res asr.Result) error {
	// A failed probe means "duration unknown": the allocator degrades to its
	// estimate mode instead of aborting.
	var durationMs int64
	if d, err := prober.Duration(ctx, input); err != nil {
		env.Logger.Warn().Str("file", input).Err(err).Msg("duration probe failed, estimating timing")
	} else {
		durationMs = d.Milliseconds()
	}

	captions, source := caption.Allocate(asr.ToEvidence(res, durationMs))

	language := res.Language
	if language == "" {
		language = "hi"
	}
	doc := caption.New(language, res.Model, captions, source, res.Elapsed, res.LoadTime)

	if err := caption.Save(doc, output); err != nil {
		return err
	}

	env.Logger.Info().
		Str("file", input).
		Str("output", output).
		Int("words", doc.Stats.TotalWords).
		Int64("duration_ms", doc.Stats.DurationMs).
		Str("timing", string(source)).
		Msg("captions saved")
	return nil
}
