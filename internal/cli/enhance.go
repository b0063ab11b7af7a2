package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VikashMeena777/Capion-Gen/internal/caption"
	"github.com/VikashMeena777/Capion-Gen/internal/config"
)

// EnhanceCmd creates the enhance command.
func EnhanceCmd(env *Env) *cobra.Command {
	var (
		output    string
		groqKey   string
		threshold float64
		skipAI    bool
	)

	cmd := &cobra.Command{
		Use:   "enhance <captions.json>",
		Short: "Flag low-confidence words and fix transliteration errors",
		Long: `Post-process a caption document.

Words below the confidence threshold are flagged for manual review. With a
Groq API key, the caption text is sent for Hinglish transliteration fixes;
corrections are merged back only when the corrected word count matches
exactly. Any correction failure skips that step and leaves the document
unchanged - enhancement is always best effort.`,
		Example: `  capgen enhance captions.json
  capgen enhance captions.json -o enhanced.json --confidence-threshold 0.6
  capgen enhance captions.json --skip-ai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnhance(cmd.Context(), env, args[0], output, groqKey, threshold, skipAI)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite input)")
	cmd.Flags().StringVar(&groqKey, "groq-key", "", "Groq API key (or set GROQ_API_KEY)")
	cmd.Flags().Float64Var(&threshold, "confidence-threshold", caption.DefaultConfidenceThreshold, "Low confidence threshold")
	cmd.Flags().BoolVar(&skipAI, "skip-ai", false, "Skip the AI correction step")

	return cmd
}

// runEnhance executes the enhancement stage: flag, correct, persist.
func runEnhance(ctx context.Context, env *Env, input, output, groqKey string, threshold float64, skipAI bool) error {
	doc, err := caption.Load(input)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		return err
	}

	cfg := config.FromEnv(env.Getenv)
	if groqKey == "" {
		groqKey = cfg.GroqAPIKey
	}

	if flagged := caption.FlagLowConfidence(doc, threshold, env.Logger); flagged > 0 {
		env.Logger.Info().Int("flagged", flagged).Msg("low confidence words flagged for review")
	}

	switch {
	case skipAI:
	case groqKey == "":
		env.Logger.Info().Msg("no Groq API key provided, skipping AI enhancement")
	default:
		correctCaptions(ctx, env, doc, groqKey, cfg.GroqModel)
	}

	if output == "" {
		output = input
	}
	if err := caption.Save(doc, output); err != nil {
		return err
	}
	env.Logger.Info().Str("output", output).Msg("saved")
	return nil
}

// correctCaptions runs the correction call and merges the result. Every
// failure path logs and returns with the document unmodified; correction is
// never fatal to the pipeline.
func correctCaptions(ctx context.Context, env *Env, doc *caption.Document, apiKey, model string) {
	corrector, err := env.NewCorrector(apiKey, model)
	if err != nil {
		env.Logger.Warn().Err(err).Msg("AI enhancement unavailable, skipping")
		return
	}

	// Correct the current caption words, not the document aggregate: earlier
	// runs may already have rewritten individual captions.
	words := make([]string, len(doc.Captions))
	for i, c := range doc.Captions {
		words[i] = c.Text
	}

	corrected, err := corrector.Correct(ctx, strings.Join(words, " "))
	if err != nil {
		env.Logger.Warn().Err(err).Msg("AI enhancement failed, skipping")
		return
	}

	correctedWords := strings.Fields(corrected)
	changed, ok := caption.ApplyCorrection(doc, correctedWords)
	if !ok {
		env.Logger.Warn().
			Int("got", len(correctedWords)).
			Int("want", len(doc.Captions)).
			Msg("word count mismatch, skipping AI fixes")
		return
	}
	env.Logger.Info().Int("enhanced", changed).Msg("words enhanced via Groq AI")
}
