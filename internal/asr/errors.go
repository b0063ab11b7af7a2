package asr

import "errors"

// ErrEngineNotFound indicates the local transcription binary is not installed.
var ErrEngineNotFound = errors.New("transcription engine not found")

// ErrUnknownEngine indicates an unrecognized engine name was requested.
var ErrUnknownEngine = errors.New("unknown transcription engine")

// ErrEmptyResult indicates the engine produced no transcribable output.
var ErrEmptyResult = errors.New("engine returned no transcription")
