// Package media probes audio files with ffprobe.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// DefaultFFprobeBin is the ffprobe binary name used when no path is configured.
const DefaultFFprobeBin = "ffprobe"

// ErrProbeFailed indicates the duration could not be determined. Callers
// treat this as "duration unknown" and fall back to estimation, never as a
// fatal pipeline error.
var ErrProbeFailed = errors.New("duration probe failed")

// runFn runs a command and returns its combined stdout.
type runFn func(ctx context.Context, name string, args []string) ([]byte, error)

// defaultRun is the production runner.
func defaultRun(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Prober reads audio durations via ffprobe.
type Prober struct {
	bin string
	run runFn
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberRunner sets a custom command runner (for testing).
func WithProberRunner(fn runFn) ProberOption {
	return func(p *Prober) { p.run = fn }
}

// NewProber creates a Prober. bin is the ffprobe binary name or path;
// empty uses DefaultFFprobeBin.
func NewProber(bin string, opts ...ProberOption) *Prober {
	if bin == "" {
		bin = DefaultFFprobeBin
	}
	p := &Prober{bin: bin, run: defaultRun}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ffprobeOutput mirrors the -show_format JSON document.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the total duration of an audio file. Any failure (missing
// binary, unreadable file, malformed output) is reported as ErrProbeFailed.
func (p *Prober) Duration(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		audioPath,
	}

	out, err := p.run(ctx, p.bin, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	seconds, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("%w: no duration in ffprobe output", ErrProbeFailed)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
