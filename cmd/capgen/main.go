package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VikashMeena777/Capion-Gen/internal/asr"
	"github.com/VikashMeena777/Capion-Gen/internal/cli"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitUsage         = 2
	ExitSetup         = 3
	ExitValidation    = 4
	ExitTranscription = 5
	ExitUpload        = 7
	ExitInterrupt     = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var verbose bool

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "capgen",
		Short:   "Transcribe, enhance, and publish Hinglish word-level captions",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			env.Logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.Kitchen,
			}).Level(level).With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		cli.TranscribeCmd(env),
		cli.EnhanceCmd(env),
		cli.UploadCmd(env),
		cli.RunCmd(env),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit code by its taxonomy: missing
// input is a validation failure, missing binaries and credentials are setup
// failures, and stage failures get stage-specific codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.Is(err, cli.ErrFileNotFound):
		return ExitValidation
	case errors.Is(err, cli.ErrAPIKeyMissing),
		errors.Is(err, asr.ErrEngineNotFound),
		errors.Is(err, upload.ErrRcloneNotFound),
		errors.Is(err, upload.ErrNoConfig):
		return ExitSetup
	case errors.Is(err, asr.ErrUnknownEngine):
		return ExitUsage
	case errors.Is(err, asr.ErrEmptyResult):
		return ExitTranscription
	case errors.Is(err, upload.ErrUploadFailed):
		return ExitUpload
	default:
		return ExitGeneral
	}
}
