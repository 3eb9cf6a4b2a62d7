package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/progress"
	"github.com/sgaunet/s3browse/pkg/session"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

var putCmd = &cobra.Command{
	Use:   "put [local_path]... [remote_prefix]",
	Short: "Upload files and directories recursively",
	Long: `Upload files and directories recursively.
A file is stored as remote_prefix/name and a directory as remote_prefix/dirname/...
Use "" or / as remote_prefix for the bucket root.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, dest := args[:len(args)-1], args[len(args)-1]
		if dest == "/" {
			dest = ""
		}

		bar := progress.NewBar(cmd.ErrOrStderr())
		sess, err := openBucket(cmd.Context(), "", session.WithProgress(bar.Update))
		if err != nil {
			return err
		}
		job, err := sess.Upload(cmd.Context(), paths, dest)
		bar.Wait()
		if job == nil {
			return err
		}

		for _, se := range job.ScanErrors {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", se.Path, se.Err)
		}
		for _, f := range job.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed %s -> %s: %v\n", f.Item.Source, f.Item.Key, f.Err)
		}
		var batchErr *transfer.BatchError
		if errors.As(err, &batchErr) {
			logger.Warn("Upload incomplete", slog.Int("failed", len(batchErr.Failures)))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d files uploaded\n", job.Completed, job.Total)
		return err
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
