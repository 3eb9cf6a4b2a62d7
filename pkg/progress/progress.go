// Package progress renders upload progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/sgaunet/s3browse/pkg/transfer"
)

// CmdBar is a counter bar fed with transfer.Progress snapshots.
type CmdBar struct {
	p      *mpb.Progress
	once   sync.Once
	cntBar atomic.Pointer[mpb.Bar]
	label  atomic.Value
	failed atomic.Int64
}

// defaultWidth is the bar width when w is not a terminal.
const defaultWidth = 80

// NewBar creates a bar writing to w.
func NewBar(w io.Writer) *CmdBar {
	b := &CmdBar{
		p: mpb.New(
			mpb.WithRefreshRate(200*time.Millisecond),
			mpb.WithOutput(w),
			mpb.WithWidth(defaultWidth),
		),
	}
	b.label.Store("")
	return b
}

// Update moves the bar to p. The bar is created on the first snapshot with
// a non zero total.
func (b *CmdBar) Update(p transfer.Progress) {
	b.label.Store(p.CurrentLabel)
	b.failed.Store(int64(p.Failed))
	if p.Total == 0 {
		return
	}
	b.once.Do(func() {
		b.cntBar.Store(b.p.New(int64(p.Total),
			mpb.BarStyle().Rbound("|"),
			mpb.PrependDecorators(
				decor.Name("upload", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
				decor.Any(b.describe),
			)))
	})
	b.cntBar.Load().SetCurrent(int64(p.Completed + p.Failed))
}

func (b *CmdBar) describe(decor.Statistics) string {
	label, _ := b.label.Load().(string)
	if failed := b.failed.Load(); failed > 0 {
		return fmt.Sprintf(" %s (%d failed)", label, failed)
	}
	return " " + label
}

// Completed reports whether every item of the batch was accounted for.
func (b *CmdBar) Completed() bool {
	bar := b.cntBar.Load()
	return bar != nil && bar.Completed()
}

// Wait flushes the bar. An unfinished bar is aborted first.
func (b *CmdBar) Wait() {
	if bar := b.cntBar.Load(); bar != nil && !bar.Completed() {
		bar.Abort(false)
	}
	b.p.Wait()
}
