package caption

// Timing constants. Lead-in and buffer compensate for the silence typically
// present at clip boundaries when distributing a probed duration.
const (
	// wordEndFallbackMs extends a word whose end timestamp is unknown.
	wordEndFallbackMs = 200

	// chunkEndFallbackMs extends a chunk with a zero or missing end timestamp.
	chunkEndFallbackMs = 1000

	// leadInMs is reserved before the first word in probe-backed allocation.
	leadInMs = 200

	// trailBufferMs is reserved after the last word in probe-backed allocation.
	trailBufferMs = 500

	// estimateWordMs is the per-word duration when no timing evidence exists.
	estimateWordMs = 300
)

// Confidence constants by timing provenance.
const (
	wordConfidence     = 0.9
	chunkConfidence    = 0.9
	probeConfidence    = 0.9
	estimateConfidence = 0.5
)

// Source identifies which timing evidence produced a caption set.
type Source string

const (
	// SourceWord means the model reported per-word timestamps.
	SourceWord Source = "word"
	// SourceChunk means per-chunk timestamps were split evenly across words.
	SourceChunk Source = "chunk"
	// SourceProbe means a probed audio duration was distributed evenly.
	SourceProbe Source = "probe"
	// SourceEstimate means the duration was synthesized from the word count.
	SourceEstimate Source = "estimate"
)

// TimedWord is a token with model-reported timestamps in milliseconds.
// EndMs <= StartMs means the end timestamp is unknown.
type TimedWord struct {
	Text    string
	StartMs int64
	EndMs   int64
}

// Chunk is a model-reported span covering several words with a single
// timestamp pair for the whole span.
type Chunk struct {
	Words   []string
	StartMs int64
	EndMs   int64
}

// Evidence is the timing information available for one transcription, in
// decreasing order of fidelity. Words wins over Chunks, which wins over
// Plain. DurationMs is the probed audio duration; 0 means unknown.
type Evidence struct {
	Words      []TimedWord
	Chunks     []Chunk
	Plain      []string
	DurationMs int64
}

// Allocate assigns a time interval to every word using the best available
// evidence. It is total: any input yields one caption per word in input
// order with StartMs < EndMs, and empty input yields an empty slice.
func Allocate(ev Evidence) ([]Caption, Source) {
	switch {
	case len(ev.Words) > 0:
		return allocateWords(ev.Words), SourceWord
	case len(ev.Chunks) > 0:
		return allocateChunks(ev.Chunks), SourceChunk
	default:
		return allocatePlain(ev.Plain, ev.DurationMs)
	}
}

// allocateWords trusts the model's per-word timestamps directly.
func allocateWords(words []TimedWord) []Caption {
	captions := make([]Caption, 0, len(words))
	for _, w := range words {
		start := w.StartMs
		if start < 0 {
			start = 0
		}
		end := w.EndMs
		if end <= start {
			end = start + wordEndFallbackMs
		}
		captions = append(captions, Caption{
			Text:       w.Text,
			StartMs:    start,
			EndMs:      end,
			Confidence: wordConfidence,
		})
	}
	return captions
}

// allocateChunks splits each chunk's interval into equal sub-intervals, one
// per word, in token order. Boundaries are computed against the chunk span so
// per-word rounding never accumulates: the last word always ends exactly at
// the chunk end.
func allocateChunks(chunks []Chunk) []Caption {
	var captions []Caption
	for _, ch := range chunks {
		n := int64(len(ch.Words))
		if n == 0 {
			continue
		}

		start := ch.StartMs
		if start < 0 {
			start = 0
		}
		end := ch.EndMs
		if end <= start {
			end = start + chunkEndFallbackMs
		}
		span := end - start

		for i, word := range ch.Words {
			ws := start + int64(i)*span/n
			we := start + int64(i+1)*span/n
			if we <= ws {
				we = ws + 1
			}
			captions = append(captions, Caption{
				Text:       word,
				StartMs:    ws,
				EndMs:      we,
				Confidence: chunkConfidence,
			})
		}
	}
	return captions
}

// allocatePlain distributes time across words with no timestamps at all.
// With a probed duration, a lead-in and trailing buffer are reserved and the
// rest is divided evenly. Without one, the duration is synthesized at
// estimateWordMs per word.
func allocatePlain(words []string, durationMs int64) ([]Caption, Source) {
	if len(words) == 0 {
		return []Caption{}, SourceEstimate
	}

	n := int64(len(words))

	// A probed duration shorter than the reserved margins cannot be
	// distributed; fall through to the synthesized estimate.
	if durationMs > leadInMs+trailBufferMs {
		span := durationMs - leadInMs - trailBufferMs
		captions := make([]Caption, 0, len(words))
		for i, word := range words {
			ws := leadInMs + int64(i)*span/n
			we := leadInMs + int64(i+1)*span/n
			if we <= ws {
				we = ws + 1
			}
			captions = append(captions, Caption{
				Text:       word,
				StartMs:    ws,
				EndMs:      we,
				Confidence: probeConfidence,
			})
		}
		return captions, SourceProbe
	}

	captions := make([]Caption, 0, len(words))
	for i, word := range words {
		captions = append(captions, Caption{
			Text:       word,
			StartMs:    int64(i) * estimateWordMs,
			EndMs:      int64(i+1) * estimateWordMs,
			Confidence: estimateConfidence,
		})
	}
	return captions, SourceEstimate
}
