package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/nursyahid/dapur-ledger/internal/commit"
)

// CommitProgress renders a live progress bar for a batch commit run.
type CommitProgress struct {
	bar *progressbar.ProgressBar
}

// NewCommitProgress creates a bar sized for total records, writing to w.
func NewCommitProgress(w io.Writer, total int) *CommitProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Committing records...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &CommitProgress{bar: bar}
}

// Update implements commit.ProgressFunc.
func (p *CommitProgress) Update(progress commit.Progress) {
	_ = p.bar.Set(progress.Attempted)
}

// Finish completes the bar.
func (p *CommitProgress) Finish() {
	_ = p.bar.Finish()
}
