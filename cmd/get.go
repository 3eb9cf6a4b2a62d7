package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

var getCmd = &cobra.Command{
	Use:   "get [remote_key] [local_path]",
	Short: "Download one file",
	Long: `Download one file. Without local_path the file is written to the
current directory under its base name. A local directory receives the file
under its base name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		local := keypath.BaseName(key)
		if len(args) == 2 {
			local = args[1]
		}
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			local = filepath.Join(local, keypath.BaseName(key))
		}

		sess, err := openBucket(cmd.Context(), "")
		if err != nil {
			return err
		}
		if err := sess.Download(cmd.Context(), key, local); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", key, local)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
