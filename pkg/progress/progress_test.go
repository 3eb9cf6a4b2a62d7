package progress_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgaunet/s3browse/pkg/progress"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

func TestBarCompletesWithFailures(t *testing.T) {
	var out bytes.Buffer
	bar := progress.NewBar(&out)

	bar.Update(transfer.Progress{Total: 3, CurrentLabel: "a"})
	bar.Update(transfer.Progress{Total: 3, Completed: 1, CurrentLabel: "b"})
	bar.Update(transfer.Progress{Total: 3, Completed: 1, Failed: 1, CurrentLabel: "c"})
	bar.Update(transfer.Progress{Total: 3, Completed: 2, Failed: 1})
	bar.Wait()

	assert.True(t, bar.Completed())
	assert.Contains(t, out.String(), "upload")
	assert.Contains(t, out.String(), "3 / 3")
	assert.Contains(t, out.String(), "(1 failed)")
}

func TestBarWithoutItems(t *testing.T) {
	var out bytes.Buffer
	bar := progress.NewBar(&out)
	bar.Update(transfer.Progress{})
	bar.Wait()
	assert.False(t, bar.Completed())
}

func TestBarAbortedWhenUnfinished(t *testing.T) {
	var out bytes.Buffer
	bar := progress.NewBar(&out)
	bar.Update(transfer.Progress{Total: 5, Completed: 2})
	bar.Wait()
	assert.False(t, bar.Completed())
}
