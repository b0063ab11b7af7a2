package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VikashMeena777/Capion-Gen/internal/config"
	"github.com/VikashMeena777/Capion-Gen/internal/upload"
)

// UploadCmd creates the upload command.
func UploadCmd(env *Env) *cobra.Command {
	var (
		remote     string
		resultPath string
	)

	cmd := &cobra.Command{
		Use:   "upload <file> <folder-id>",
		Short: "Upload a rendered video to a Google Drive folder via rclone",
		Long: `Upload a file to the Drive folder identified by folder-id using a
pre-configured rclone remote. The destination name is timestamped, and a
small JSON status file is written for downstream automation.

Set RCLONE_CONFIG_B64 to a base64-encoded rclone.conf for CI/CD runs.`,
		Example: `  capgen upload output.mp4 1AbCdEfGhIjK
  capgen upload output.mp4 1AbCdEfGhIjK --remote drive --result status.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), env, args[0], args[1], remote, resultPath)
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "rclone remote name (default: RCLONE_REMOTE or gdrive)")
	cmd.Flags().StringVar(&resultPath, "result", upload.DefaultResultFile, "Path for the upload status file")

	return cmd
}

// runUpload executes the upload stage. Unlike enhancement, a failed upload
// is fatal: the process exits non-zero and no status file is written.
func runUpload(ctx context.Context, env *Env, filePath, folderID, remote, resultPath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	cfg := config.FromEnv(env.Getenv)
	if remote != "" {
		cfg.RcloneRemote = remote
	}

	uploader := env.NewUploader(cfg, env.Logger)

	res, err := uploader.Upload(ctx, filePath, folderID)
	if err != nil {
		return err
	}

	if err := upload.WriteResult(resultPath, res); err != nil {
		return err
	}

	env.Logger.Info().
		Str("file", res.FileName).
		Str("folder", res.FolderID).
		Msg("upload successful")
	return nil
}
