package asr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default local engine configuration.
const (
	// DefaultWhisperBin is the whisper.cpp CLI binary name.
	DefaultWhisperBin = "whisper-cli"

	// DefaultWhisperModel is the fine-tuned Hinglish model identifier recorded
	// in the output document. The actual weights path comes from configuration.
	DefaultWhisperModel = "oriserve/whisper-hindi2hinglish-apex"
)

// runFn runs a command and returns its stdout and stderr.
type runFn func(ctx context.Context, name string, args []string) (stdout, stderr []byte, err error)

// defaultRun is the production runner.
func defaultRun(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// WhisperCPP transcribes locally via the whisper.cpp CLI. The binary writes
// segment-level JSON; when invoked with one-word-per-segment splitting the
// output carries word-level timing.
type WhisperCPP struct {
	bin       string
	modelPath string
	modelName string
	language  string
	run       runFn
	tempDir   string
}

// WhisperOption configures a WhisperCPP engine.
type WhisperOption func(*WhisperCPP)

// WithWhisperLanguage sets the spoken language hint (default "hi").
func WithWhisperLanguage(lang string) WhisperOption {
	return func(w *WhisperCPP) {
		if lang != "" {
			w.language = lang
		}
	}
}

// WithWhisperModelName overrides the model identifier recorded in results.
func WithWhisperModelName(name string) WhisperOption {
	return func(w *WhisperCPP) {
		if name != "" {
			w.modelName = name
		}
	}
}

// WithWhisperRunner sets a custom command runner (for testing).
func WithWhisperRunner(fn runFn) WhisperOption {
	return func(w *WhisperCPP) { w.run = fn }
}

// WithWhisperTempDir sets the directory for intermediate JSON output.
func WithWhisperTempDir(dir string) WhisperOption {
	return func(w *WhisperCPP) { w.tempDir = dir }
}

// Compile-time interface compliance check.
var _ Engine = (*WhisperCPP)(nil)

// NewWhisperCPP creates a local whisper.cpp engine. bin is the CLI binary
// (name or path), modelPath the ggml weights file. The binary is resolved
// eagerly so a missing installation fails before any audio work starts.
func NewWhisperCPP(bin, modelPath string, opts ...WhisperOption) (*WhisperCPP, error) {
	if bin == "" {
		bin = DefaultWhisperBin
	}

	w := &WhisperCPP{
		bin:       bin,
		modelPath: modelPath,
		modelName: DefaultWhisperModel,
		language:  "hi",
		run:       defaultRun,
		tempDir:   os.TempDir(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := exec.LookPath(w.bin); err != nil {
		return nil, fmt.Errorf("%w: %q is not installed (build it from https://github.com/ggml-org/whisper.cpp or set WHISPER_BIN)",
			ErrEngineNotFound, w.bin)
	}
	return w, nil
}

// Transcribe runs the whisper.cpp CLI and parses its JSON output.
func (w *WhisperCPP) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	outBase := filepath.Join(w.tempDir, fmt.Sprintf("capgen-%d", time.Now().UnixNano()))
	outPath := outBase + ".json"
	defer func() { _ = os.Remove(outPath) }()

	args := []string{
		"-m", w.modelPath,
		"-l", w.language,
		"-oj",
		"-of", outBase,
		"-np",
		audioPath,
	}

	_, stderr, err := w.run(ctx, w.bin, args)
	if err != nil {
		return Result{}, fmt.Errorf("whisper.cpp: %w\nOutput: %s", err, strings.TrimSpace(string(stderr)))
	}

	data, err := os.ReadFile(outPath) // #nosec G304 -- path built from our temp dir
	if err != nil {
		return Result{}, fmt.Errorf("read whisper.cpp output: %w", err)
	}

	res, err := parseWhisperJSON(data)
	if err != nil {
		return Result{}, err
	}
	res.Model = w.modelName
	res.LoadTime = parseWhisperLoadTime(stderr)
	if res.Language == "" {
		res.Language = w.language
	}
	return res, nil
}

// whisperOutput mirrors the whisper.cpp -oj document.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON converts whisper.cpp segment output into a Result.
// Segments that each hold a single word (one-word-per-segment splitting) are
// promoted to word-level timestamps; multi-word segments stay as chunks.
func parseWhisperJSON(data []byte) (Result, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("parse whisper.cpp output: %w", err)
	}

	res := Result{Language: out.Result.Language}

	wordLevel := len(out.Transcription) > 0
	var parts []string
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		res.Segments = append(res.Segments, Segment{
			Text:    text,
			StartMs: seg.Offsets.From,
			EndMs:   seg.Offsets.To,
		})
		if len(strings.Fields(text)) != 1 {
			wordLevel = false
		}
	}
	res.Text = strings.Join(parts, " ")

	if len(res.Segments) == 0 {
		return Result{}, ErrEmptyResult
	}

	if wordLevel {
		res.Words = make([]Word, len(res.Segments))
		for i, seg := range res.Segments {
			res.Words[i] = Word{Text: seg.Text, StartMs: seg.StartMs, EndMs: seg.EndMs}
		}
		res.Segments = nil
	}
	return res, nil
}

// parseWhisperLoadTime extracts the model load time from whisper.cpp timing
// output, e.g. "whisper_print_timings:     load time =   123.45 ms".
// Returns 0 when the line is absent or unparsable.
func parseWhisperLoadTime(stderr []byte) time.Duration {
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "load time") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "ms"))
		ms, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		return time.Duration(ms * float64(time.Millisecond))
	}
	return 0
}
