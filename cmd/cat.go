package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat [remote_key]",
	Short: "Print a small text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		text, err := sess.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
