package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List the folders and files directly under a prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		sess, err := openBucket(cmd.Context(), prefix)
		if err != nil {
			return err
		}
		listing := sess.Listing()

		loc := time.Now().Location()
		var buffer bytes.Buffer
		for _, folder := range listing.Folders {
			buffer.WriteString("drwxr-xr-x\t")
			buffer.WriteString(fmt.Sprintf("%9s\t", "-"))
			buffer.WriteString(fmt.Sprintf("%12s\t", ""))
			buffer.WriteString(keypath.BaseName(folder.Key) + keypath.Delimiter)
			buffer.WriteString("\n")
		}
		for _, file := range listing.Files {
			buffer.WriteString("-rw-r--r--\t")
			buffer.WriteString(fmt.Sprintf("%9s\t", humanize.IBytes(file.Size)))
			buffer.WriteString(file.LastModified.In(loc).Format("Jan 02 15:04"))
			buffer.WriteString("\t")
			buffer.WriteString(keypath.BaseName(file.Key))
			buffer.WriteString("\n")
		}
		_, err = cmd.OutOrStdout().Write(buffer.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
