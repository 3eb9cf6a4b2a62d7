package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/folderops"
)

var renameCmd = &cobra.Command{
	Use:   "rename [remote_key] [new_name]",
	Short: "Rename a file or a folder in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, name := args[0], args[1]
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		if key, err = resolveAt(cmd.Context(), sess, key); err != nil {
			return err
		}

		newKey, err := sess.Rename(cmd.Context(), key, name)
		var partial *folderops.PartialRenameError
		if errors.As(err, &partial) {
			for _, f := range partial.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed\t%s: %v\n", f.Key, f.Err)
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", key, newKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
