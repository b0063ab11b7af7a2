// Package caption defines the word-level caption document and the timing,
// flagging, and correction logic that produces and refines it.
package caption

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Caption is one transcribed word with its time interval and reliability score.
type Caption struct {
	Text          string  `json:"text"`
	StartMs       int64   `json:"startMs"`
	EndMs         int64   `json:"endMs"`
	Confidence    float64 `json:"confidence"`
	LowConfidence bool    `json:"lowConfidence,omitempty"`
	Original      string  `json:"original,omitempty"`
	Enhanced      bool    `json:"enhanced,omitempty"`
}

// Stats carries word count, duration, and provenance for a Document.
type Stats struct {
	TotalWords      int     `json:"total_words"`
	DurationMs      int64   `json:"duration_ms"`
	TimingSource    string  `json:"timing_source,omitempty"`
	ModelLoadTimeS  float64 `json:"model_load_time_s,omitempty"`
	TranscribeTimeS float64 `json:"transcribe_time_s,omitempty"`
}

// Document is a full caption set for one audio file. Captions are ordered:
// sequence order equals temporal order.
type Document struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Model    string    `json:"model"`
	Captions []Caption `json:"captions"`
	Stats    Stats     `json:"stats"`
}

// New assembles a Document from allocated captions. Text is the space-joined
// word texts; duration is the end of the last caption, or 0 when empty.
// loadTime may be zero when the engine does not report it.
func New(language, model string, captions []Caption, source Source, transcribeTime, loadTime time.Duration) *Document {
	parts := make([]string, len(captions))
	for i, c := range captions {
		parts[i] = c.Text
	}

	var durationMs int64
	if len(captions) > 0 {
		durationMs = captions[len(captions)-1].EndMs
	}

	return &Document{
		Text:     strings.Join(parts, " "),
		Language: language,
		Model:    model,
		Captions: captions,
		Stats: Stats{
			TotalWords:      len(captions),
			DurationMs:      durationMs,
			TimingSource:    string(source),
			ModelLoadTimeS:  roundTenth(loadTime.Seconds()),
			TranscribeTimeS: roundTenth(transcribeTime.Seconds()),
		},
	}
}

func roundTenth(s float64) float64 {
	return float64(int64(s*10+0.5)) / 10
}

// Load reads a caption document from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input file
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse captions %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document as pretty-printed JSON. HTML escaping is disabled
// so Hinglish text round-trips byte-identical.
func Save(doc *Document, path string) error {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode captions: %w", err)
	}

	// #nosec G306 -- caption documents are not sensitive
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write captions %s: %w", path, err)
	}
	return nil
}
