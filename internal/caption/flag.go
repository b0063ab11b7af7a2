package caption

import (
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultConfidenceThreshold is the confidence below which a caption is
// flagged for manual review.
const DefaultConfidenceThreshold = 0.7

// flagLogLimit caps how many flagged words are logged individually.
const flagLogLimit = 10

// FlagLowConfidence marks captions whose confidence is strictly below
// threshold for manual review and returns the number of flagged captions.
// It never removes, reorders, or retimes captions, and re-running it with
// the same threshold changes nothing. The per-word log output is operator
// visibility only, truncated after flagLogLimit entries.
func FlagLowConfidence(doc *Document, threshold float64, logger zerolog.Logger) int {
	flagged := 0
	for i := range doc.Captions {
		c := &doc.Captions[i]
		if c.Confidence >= threshold {
			continue
		}
		c.LowConfidence = true
		flagged++
		if flagged <= flagLogLimit {
			logger.Warn().
				Str("word", c.Text).
				Str("confidence", fmt.Sprintf("%.0f%%", c.Confidence*100)).
				Msg("low confidence word flagged")
		}
	}

	if flagged > flagLogLimit {
		logger.Warn().Int("more", flagged-flagLogLimit).Msg("additional low confidence words flagged")
	}
	return flagged
}
