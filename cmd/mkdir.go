package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [folder]",
	Short: "Create a folder",
	Long:  "Create a folder. a/b/c creates c inside a/b/.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := strings.TrimSuffix(args[0], keypath.Delimiter)
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		if _, err := sess.Navigate(cmd.Context(), keypath.ParentPrefix(path)); err != nil {
			return err
		}
		key, err := sess.CreateFolder(cmd.Context(), keypath.BaseName(path))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
