package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/session"
)

// runGrouped selects keys folder by folder and runs op on each selection.
// Failures are printed and joined in the returned error.
func runGrouped(ctx context.Context, out io.Writer, sess *session.Session, keys []string,
	op func(context.Context) (*folderops.Result, error),
) error {
	parents, groups := groupByParent(keys)
	var errs []error
	for _, parent := range parents {
		if err := selectKeys(ctx, sess, parent, groups[parent]); err != nil {
			errs = append(errs, err)
			continue
		}
		res, err := op(ctx)
		if res != nil {
			printResult(out, res)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func printResult(out io.Writer, res *folderops.Result) {
	for _, key := range res.Succeeded {
		fmt.Fprintf(out, "%s\t%s\n", res.Op, key)
	}
	for _, key := range res.Skipped {
		fmt.Fprintf(out, "skip\t%s\n", key)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(out, "failed\t%s: %v\n", f.Key, f.Err)
	}
}
