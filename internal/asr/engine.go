// Package asr wraps external speech-to-text engines behind a common
// interface. Engines differ in timestamp granularity: some report per-word
// timestamps, some per-segment, some plain text only. The caller downgrades
// gracefully through caption.Evidence.
package asr

import (
	"context"
	"strings"
	"time"

	"github.com/VikashMeena777/Capion-Gen/internal/caption"
)

// Word is a transcribed token with model-reported timestamps.
type Word struct {
	Text    string
	StartMs int64
	EndMs   int64
}

// Segment is a model-reported span of text covering several words with one
// timestamp pair for the whole span.
type Segment struct {
	Text    string
	StartMs int64
	EndMs   int64
}

// Result is the output of one engine invocation. Words is the highest
// fidelity, then Segments, then Text alone.
type Result struct {
	Text     string
	Words    []Word
	Segments []Segment
	Language string
	Model    string

	// LoadTime is the model load time, when the engine reports it.
	LoadTime time.Duration

	// Elapsed is the wall-clock transcription time, set by TranscribeAll.
	Elapsed time.Duration
}

// Engine transcribes an audio file. Implementations always return something
// transcribable on success; timestamp granularity varies by engine.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
}

// ToEvidence flattens an engine result into ordered timing evidence for the
// caption allocator. Empty tokens are dropped; durationMs is the probed
// audio duration (0 when unknown) used by the lowest-fidelity mode.
func ToEvidence(res Result, durationMs int64) caption.Evidence {
	ev := caption.Evidence{DurationMs: durationMs}

	if len(res.Words) > 0 {
		ev.Words = make([]caption.TimedWord, 0, len(res.Words))
		for _, w := range res.Words {
			text := strings.TrimSpace(w.Text)
			if text == "" {
				continue
			}
			ev.Words = append(ev.Words, caption.TimedWord{
				Text:    text,
				StartMs: w.StartMs,
				EndMs:   w.EndMs,
			})
		}
		if len(ev.Words) > 0 {
			return ev
		}
	}

	if len(res.Segments) > 0 {
		for _, seg := range res.Segments {
			words := strings.Fields(seg.Text)
			if len(words) == 0 {
				continue
			}
			ev.Chunks = append(ev.Chunks, caption.Chunk{
				Words:   words,
				StartMs: seg.StartMs,
				EndMs:   seg.EndMs,
			})
		}
		if len(ev.Chunks) > 0 {
			return ev
		}
	}

	ev.Plain = strings.Fields(res.Text)
	return ev
}
