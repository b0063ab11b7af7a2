// Package upload pushes rendered videos to a cloud storage folder through a
// pre-configured rclone remote.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults.
const (
	// DefaultRemote is the rclone remote name for the Drive destination.
	DefaultRemote = "gdrive"

	// DefaultResultFile receives the upload status for downstream automation.
	DefaultResultFile = "gdrive_result.json"

	// timestampLayout names uploads uniquely per run.
	timestampLayout = "20060102_150405"
)

// Environment variables consumed by config materialization.
const (
	// EnvConfigB64 holds a base64-encoded rclone.conf (for CI/CD).
	EnvConfigB64 = "RCLONE_CONFIG_B64"
)

// Sentinel errors.
var (
	// ErrRcloneNotFound indicates the rclone binary is not installed.
	ErrRcloneNotFound = errors.New("rclone not found")

	// ErrNoConfig indicates no rclone configuration could be located or built.
	ErrNoConfig = errors.New("no rclone config found")

	// ErrUploadFailed indicates rclone exited non-zero.
	ErrUploadFailed = errors.New("upload failed")
)

// Result is the status document written for downstream automation.
type Result struct {
	FileName string `json:"fileName"`
	FolderID string `json:"folderId"`
	Status   string `json:"status"`
}

// runFn runs a command and returns its combined output.
type runFn func(ctx context.Context, name string, args []string) ([]byte, error)

// defaultRun is the production runner.
func defaultRun(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.Bytes(), err
}

// Uploader copies files to a Drive folder via rclone.
type Uploader struct {
	remote   string
	run      runFn
	lookPath func(string) (string, error)
	getenv   func(string) string
	homeDir  func() (string, error)
	now      func() time.Time
	logger   zerolog.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithRemote sets the rclone remote name.
func WithRemote(remote string) UploaderOption {
	return func(u *Uploader) {
		if remote != "" {
			u.remote = remote
		}
	}
}

// WithRunner sets a custom command runner (for testing).
func WithRunner(fn runFn) UploaderOption {
	return func(u *Uploader) { u.run = fn }
}

// WithLookPath sets a custom binary resolver (for testing).
func WithLookPath(fn func(string) (string, error)) UploaderOption {
	return func(u *Uploader) { u.lookPath = fn }
}

// WithGetenv sets the environment variable getter (for testing).
func WithGetenv(fn func(string) string) UploaderOption {
	return func(u *Uploader) { u.getenv = fn }
}

// WithHomeDir sets the home directory resolver (for testing).
func WithHomeDir(fn func() (string, error)) UploaderOption {
	return func(u *Uploader) { u.homeDir = fn }
}

// WithClock sets the time provider used for destination names (for testing).
func WithClock(fn func() time.Time) UploaderOption {
	return func(u *Uploader) { u.now = fn }
}

// WithLogger sets the progress logger.
func WithLogger(l zerolog.Logger) UploaderOption {
	return func(u *Uploader) { u.logger = l }
}

// NewUploader creates an Uploader with production defaults.
func NewUploader(opts ...UploaderOption) *Uploader {
	u := &Uploader{
		remote:   DefaultRemote,
		run:      defaultRun,
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
		homeDir:  os.UserHomeDir,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// DestName builds the timestamped destination filename for an upload, e.g.
// "captioned_final_20250114_093055.mp4".
func (u *Uploader) DestName(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("captioned_%s_%s%s", stem, u.now().Format(timestampLayout), ext)
}

// EnsureConfig materializes the rclone config. When EnvConfigB64 is set its
// decoded contents are written to ~/.config/rclone/rclone.conf (CI/CD path);
// otherwise an existing config file is required.
func (u *Uploader) EnsureConfig() (string, error) {
	home, err := u.homeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot determine home directory: %v", ErrNoConfig, err)
	}
	configPath := filepath.Join(home, ".config", "rclone", "rclone.conf")

	if b64 := u.getenv(EnvConfigB64); b64 != "" {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return "", fmt.Errorf("%w: invalid %s: %v", ErrNoConfig, EnvConfigB64, err)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoConfig, err)
		}
		if err := os.WriteFile(configPath, raw, 0600); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoConfig, err)
		}
		u.logger.Info().Str("path", configPath).Msg("rclone config written from environment")
		return configPath, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return "", fmt.Errorf("%w: set %s or run: rclone config", ErrNoConfig, EnvConfigB64)
	}
	return configPath, nil
}

// Upload copies filePath into the Drive folder identified by folderID under a
// timestamped name. rclone must be installed and configured; a non-zero exit
// is fatal for this stage.
func (u *Uploader) Upload(ctx context.Context, filePath, folderID string) (Result, error) {
	bin, err := u.lookPath("rclone")
	if err != nil {
		return Result{}, fmt.Errorf("%w: install it from https://rclone.org/install/", ErrRcloneNotFound)
	}

	if _, err := u.EnsureConfig(); err != nil {
		return Result{}, err
	}

	destName := u.DestName(filePath)
	u.logger.Info().
		Str("file", destName).
		Str("folder", folderID).
		Msg("uploading to Google Drive")

	args := []string{
		"copyto",
		filePath,
		u.remote + ":" + destName,
		"--drive-root-folder-id", folderID,
		"--stats-one-line",
		"-v",
	}

	out, err := u.run(ctx, bin, args)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v\nOutput: %s", ErrUploadFailed, err, strings.TrimSpace(string(out)))
	}

	return Result{FileName: destName, FolderID: folderID, Status: "success"}, nil
}

// WriteResult persists the upload status document for downstream automation.
func WriteResult(path string, res Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode upload result: %w", err)
	}

	// #nosec G306 -- status file consumed by automation, not sensitive
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write upload result: %w", err)
	}
	return nil
}
