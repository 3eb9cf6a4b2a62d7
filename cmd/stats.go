package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count the objects and the total size of the bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		result, err := sess.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), stats.Format(result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
