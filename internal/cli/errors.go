package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrAPIKeyMissing indicates OPENAI_API_KEY is not set but the hosted
	// transcription engine was requested.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")
)
