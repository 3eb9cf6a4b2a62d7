package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/folderops"
)

var mvCmd = &cobra.Command{
	Use:   "mv [remote_key]... [dest_prefix]",
	Short: "Move files into a folder",
	Long: `Move files into a folder, keeping their names. Folders cannot be moved,
use rename instead. Use "" or / as dest_prefix for the bucket root.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, dest := args[:len(args)-1], args[len(args)-1]
		if dest == "/" {
			dest = ""
		}
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		return runGrouped(cmd.Context(), cmd.OutOrStdout(), sess, keys,
			func(ctx context.Context) (*folderops.Result, error) {
				return sess.MoveSelected(ctx, dest)
			})
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
