package cmd

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm [remote_key]...",
	Short: "Delete files and folders",
	Long: `Delete files and folders. A folder, given with or without its trailing
slash, is deleted with everything under it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		return runGrouped(cmd.Context(), cmd.OutOrStdout(), sess, args, sess.DeleteSelected)
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
