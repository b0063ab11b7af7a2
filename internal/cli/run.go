package cli

import (
	"github.com/spf13/cobra"

	"github.com/VikashMeena777/Capion-Gen/internal/caption"
	"github.com/VikashMeena777/Capion-Gen/internal/config"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

// RunCmd creates the run command: the full sequential pipeline in one
// invocation, replacing the chain of separate stage calls in automation.
func RunCmd(env *Env) *cobra.Command {
	var (
		output    string
		engine    string
		model     string
		language  string
		threshold float64
		skipAI    bool
		video     string
		folderID  string
	)

	cmd := &cobra.Command{
		Use:   "run <audio-file>",
		Short: "Run the full caption pipeline: transcribe, enhance, upload",
		Long: `Run all pipeline stages in sequence against one audio file:
probe duration, transcribe, allocate word timing, flag low-confidence words,
apply AI corrections, and persist the caption document. With --video and
--folder, the rendered video is uploaded afterwards.

Each stage degrades independently: a failed probe falls back to estimated
timing and a failed correction leaves the captions unchanged. Only a missing
input or a failed upload stops the run.`,
		Example: `  capgen run clip.wav
  capgen run clip.wav -o captions.json --video final.mp4 --folder 1AbCdEfGhIjK`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]

			out := output
			if out == "" {
				out = deriveCaptionsPath(input)
			}
			// The transcribe stage anchors relative outputs in OutputDir;
			// mirror that so the enhance stage reads the file it wrote.
			resolved := config.ResolveOutputPath(out, config.FromEnv(env.Getenv).OutputDir, "")

			if err := runTranscribe(ctx, env, []string{input}, out, engine, model, language, 1); err != nil {
				return err
			}
			if err := runEnhance(ctx, env, resolved, "", "", threshold, skipAI); err != nil {
				return err
			}

			if video != "" && folderID != "" {
				return runUpload(ctx, env, video, folderID, "", upload.DefaultResultFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Captions output path (default: <input>.captions.json)")
	cmd.Flags().StringVar(&engine, "engine", EngineWhisperCPP, "Transcription engine: whisper, openai")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier recorded in the document")
	cmd.Flags().StringVarP(&language, "language", "l", "hi", "Audio language (ISO 639-1 code)")
	cmd.Flags().Float64Var(&threshold, "confidence-threshold", caption.DefaultConfidenceThreshold, "Low confidence threshold")
	cmd.Flags().BoolVar(&skipAI, "skip-ai", false, "Skip the AI correction step")
	cmd.Flags().StringVar(&video, "video", "", "Rendered video to upload after captioning")
	cmd.Flags().StringVar(&folderID, "folder", "", "Drive folder id for the video upload")

	return cmd
}
