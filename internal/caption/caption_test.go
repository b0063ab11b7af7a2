package caption_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/VikashMeena777/Capion-Gen/internal/caption"
)

func TestNew(t *testing.T) {
	t.Parallel()

	captions := []caption.Caption{
		{Text: "kya", StartMs: 200, EndMs: 650, Confidence: 0.9},
		{Text: "haal", StartMs: 650, EndMs: 1100, Confidence: 0.9},
		{Text: "hai", StartMs: 1100, EndMs: 1550, Confidence: 0.9},
	}

	doc := caption.New("hi", "oriserve/whisper-hindi2hinglish-apex", captions,
		caption.SourceWord, 2345*time.Millisecond, 1*time.Second)

	if doc.Text != "kya haal hai" {
		t.Errorf("text = %q, want space-joined words", doc.Text)
	}
	if doc.Stats.TotalWords != 3 {
		t.Errorf("total_words = %d, want 3", doc.Stats.TotalWords)
	}
	if doc.Stats.DurationMs != 1550 {
		t.Errorf("duration_ms = %d, want last caption end 1550", doc.Stats.DurationMs)
	}
	if doc.Stats.TimingSource != "word" {
		t.Errorf("timing_source = %q, want word", doc.Stats.TimingSource)
	}
	if doc.Stats.TranscribeTimeS != 2.3 {
		t.Errorf("transcribe_time_s = %v, want 2.3", doc.Stats.TranscribeTimeS)
	}
	if doc.Stats.ModelLoadTimeS != 1.0 {
		t.Errorf("model_load_time_s = %v, want 1.0", doc.Stats.ModelLoadTimeS)
	}
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	doc := caption.New("hi", "m", nil, caption.SourceEstimate, 0, 0)

	if doc.Stats.TotalWords != 0 || doc.Stats.DurationMs != 0 {
		t.Errorf("stats = %+v, want zero words and duration", doc.Stats)
	}
	if doc.Text != "" {
		t.Errorf("text = %q, want empty", doc.Text)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := &caption.Document{
		Text:     "kya haal hai",
		Language: "hi",
		Model:    "oriserve/whisper-hindi2hinglish-apex",
		Captions: []caption.Caption{
			{Text: "kya", StartMs: 0, EndMs: 300, Confidence: 0.9, Original: "ka", Enhanced: true},
			{Text: "haal", StartMs: 300, EndMs: 600, Confidence: 0.4, LowConfidence: true},
			{Text: "hai", StartMs: 600, EndMs: 900, Confidence: 0.9},
		},
		Stats: caption.Stats{TotalWords: 3, DurationMs: 900, TimingSource: "estimate"},
	}

	path := filepath.Join(t.TempDir(), "captions.json")
	if err := caption.Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := caption.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestSave_NoHTMLEscaping(t *testing.T) {
	t.Parallel()

	doc := &caption.Document{
		Text:     "chai <3 पानी",
		Language: "hi",
		Captions: []caption.Caption{{Text: "chai", StartMs: 0, EndMs: 300, Confidence: 0.5}},
	}

	path := filepath.Join(t.TempDir(), "captions.json")
	if err := caption.Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := caption.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Text != doc.Text {
		t.Errorf("text = %q, want %q preserved byte-identical", got.Text, doc.Text)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := caption.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, "{not json")

	_, err := caption.Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse captions") {
		t.Fatalf("err = %v, want parse error", err)
	}
}
