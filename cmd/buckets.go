package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the buckets reachable with the configured credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := openSession(cmd.Context(), "")
		if err != nil {
			return err
		}
		buckets, err := sess.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range buckets {
			created := "-"
			if !b.CreationDate.IsZero() {
				created = humanize.Time(b.CreationDate)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, created)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
}
