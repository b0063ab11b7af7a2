package caption_test

import (
	"testing"

	"github.com/VikashMeena777/Capion-Gen/internal/caption"
)

func words(texts ...string) []string {
	return texts
}

func TestAllocate_WordMode(t *testing.T) {
	t.Parallel()

	ev := caption.Evidence{
		Words: []caption.TimedWord{
			{Text: "namaste", StartMs: 100, EndMs: 450},
			{Text: "kya", StartMs: 500, EndMs: 0}, // unknown end
			{Text: "haal", StartMs: 900, EndMs: 1300},
		},
	}

	captions, source := caption.Allocate(ev)

	if source != caption.SourceWord {
		t.Fatalf("source = %q, want %q", source, caption.SourceWord)
	}
	if len(captions) != 3 {
		t.Fatalf("got %d captions, want 3", len(captions))
	}
	if captions[0].StartMs != 100 || captions[0].EndMs != 450 {
		t.Errorf("caption 0 = [%d, %d), want [100, 450)", captions[0].StartMs, captions[0].EndMs)
	}
	// Unknown end falls back to start + 200ms.
	if captions[1].StartMs != 500 || captions[1].EndMs != 700 {
		t.Errorf("caption 1 = [%d, %d), want [500, 700)", captions[1].StartMs, captions[1].EndMs)
	}
	for i, c := range captions {
		if c.Confidence != 0.9 {
			t.Errorf("caption %d confidence = %v, want 0.9", i, c.Confidence)
		}
	}
}

func TestAllocate_ChunkMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		chunk     caption.Chunk
		wantSpans [][2]int64
	}{
		{
			name:      "even split across three words",
			chunk:     caption.Chunk{Words: words("kya", "haal", "hai"), StartMs: 1000, EndMs: 4000},
			wantSpans: [][2]int64{{1000, 2000}, {2000, 3000}, {3000, 4000}},
		},
		{
			name:      "non-divisible span stays within rounding tolerance",
			chunk:     caption.Chunk{Words: words("a", "b", "c"), StartMs: 0, EndMs: 1000},
			wantSpans: [][2]int64{{0, 333}, {333, 666}, {666, 1000}},
		},
		{
			name:      "zero duration chunk defaults to one second",
			chunk:     caption.Chunk{Words: words("theek", "hai"), StartMs: 2000, EndMs: 2000},
			wantSpans: [][2]int64{{2000, 2500}, {2500, 3000}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			captions, source := caption.Allocate(caption.Evidence{Chunks: []caption.Chunk{tt.chunk}})

			if source != caption.SourceChunk {
				t.Fatalf("source = %q, want %q", source, caption.SourceChunk)
			}
			if len(captions) != len(tt.chunk.Words) {
				t.Fatalf("got %d captions, want %d", len(captions), len(tt.chunk.Words))
			}
			for i, want := range tt.wantSpans {
				if captions[i].StartMs != want[0] || captions[i].EndMs != want[1] {
					t.Errorf("caption %d = [%d, %d), want [%d, %d)",
						i, captions[i].StartMs, captions[i].EndMs, want[0], want[1])
				}
				if captions[i].Confidence != 0.9 {
					t.Errorf("caption %d confidence = %v, want 0.9", i, captions[i].Confidence)
				}
			}

			// Sub-interval durations must sum to the chunk duration.
			var sum int64
			for _, c := range captions {
				sum += c.EndMs - c.StartMs
			}
			first, last := captions[0].StartMs, captions[len(captions)-1].EndMs
			if sum != last-first {
				t.Errorf("durations sum to %d, chunk spans %d", sum, last-first)
			}
		})
	}
}

func TestAllocate_ChunkMode_MultipleChunks(t *testing.T) {
	t.Parallel()

	ev := caption.Evidence{Chunks: []caption.Chunk{
		{Words: words("pehla", "chunk"), StartMs: 0, EndMs: 2000},
		{Words: words("doosra"), StartMs: 2000, EndMs: 3500},
	}}

	captions, _ := caption.Allocate(ev)

	if len(captions) != 3 {
		t.Fatalf("got %d captions, want 3", len(captions))
	}
	if captions[2].StartMs != 2000 || captions[2].EndMs != 3500 {
		t.Errorf("caption 2 = [%d, %d), want [2000, 3500)", captions[2].StartMs, captions[2].EndMs)
	}
}

func TestAllocate_ProbeMode(t *testing.T) {
	t.Parallel()

	// 10s of audio, 10 words: 200ms lead-in, 500ms buffer, 930ms per word.
	texts := make([]string, 10)
	for i := range texts {
		texts[i] = "word"
	}

	captions, source := caption.Allocate(caption.Evidence{Plain: texts, DurationMs: 10000})

	if source != caption.SourceProbe {
		t.Fatalf("source = %q, want %q", source, caption.SourceProbe)
	}
	if len(captions) != 10 {
		t.Fatalf("got %d captions, want 10", len(captions))
	}
	if captions[0].StartMs != 200 {
		t.Errorf("first startMs = %d, want 200", captions[0].StartMs)
	}
	if captions[9].EndMs != 9500 {
		t.Errorf("last endMs = %d, want 9500", captions[9].EndMs)
	}
	for i, c := range captions {
		if c.EndMs-c.StartMs != 930 {
			t.Errorf("caption %d duration = %d, want 930", i, c.EndMs-c.StartMs)
		}
		if c.Confidence != 0.9 {
			t.Errorf("caption %d confidence = %v, want 0.9", i, c.Confidence)
		}
	}
}

func TestAllocate_EstimateMode(t *testing.T) {
	t.Parallel()

	captions, source := caption.Allocate(caption.Evidence{
		Plain: words("yeh", "bina", "timestamps", "wala", "audio"),
	})

	if source != caption.SourceEstimate {
		t.Fatalf("source = %q, want %q", source, caption.SourceEstimate)
	}
	if len(captions) != 5 {
		t.Fatalf("got %d captions, want 5", len(captions))
	}
	if captions[4].EndMs != 1500 {
		t.Errorf("last endMs = %d, want 1500 (5 words * 300ms)", captions[4].EndMs)
	}
	for i, c := range captions {
		if c.Confidence != 0.5 {
			t.Errorf("caption %d confidence = %v, want 0.5", i, c.Confidence)
		}
	}
}

func TestAllocate_ProbeTooShortFallsBackToEstimate(t *testing.T) {
	t.Parallel()

	// 600ms of probed audio cannot hold the 700ms of reserved margins.
	captions, source := caption.Allocate(caption.Evidence{
		Plain:      words("bahut", "chhota"),
		DurationMs: 600,
	})

	if source != caption.SourceEstimate {
		t.Fatalf("source = %q, want %q", source, caption.SourceEstimate)
	}
	if captions[1].EndMs != 600 {
		t.Errorf("last endMs = %d, want 600", captions[1].EndMs)
	}
}

func TestAllocate_Empty(t *testing.T) {
	t.Parallel()

	captions, _ := caption.Allocate(caption.Evidence{})

	if len(captions) != 0 {
		t.Fatalf("got %d captions for empty input, want 0", len(captions))
	}
}

func TestAllocate_Invariants(t *testing.T) {
	t.Parallel()

	evidences := map[string]caption.Evidence{
		"word": {Words: []caption.TimedWord{
			{Text: "a", StartMs: 0, EndMs: 10},
			{Text: "b", StartMs: 10, EndMs: 10}, // degenerate end
		}},
		"chunk": {Chunks: []caption.Chunk{
			{Words: words("a", "b", "c", "d", "e"), StartMs: 0, EndMs: 3}, // span < word count
		}},
		"probe":    {Plain: words("a", "b", "c"), DurationMs: 5000},
		"estimate": {Plain: words("a", "b", "c")},
	}

	for name, ev := range evidences {
		ev := ev
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			captions, _ := caption.Allocate(ev)
			if len(captions) == 0 {
				t.Fatal("expected captions")
			}
			for i, c := range captions {
				if c.StartMs >= c.EndMs {
					t.Errorf("caption %d: startMs %d >= endMs %d", i, c.StartMs, c.EndMs)
				}
				if i > 0 && c.StartMs < captions[i-1].StartMs {
					t.Errorf("caption %d starts before caption %d", i, i-1)
				}
			}
		})
	}
}
