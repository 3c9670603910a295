package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/spec-check/internal/checker"
	"github.com/mvp-joe/spec-check/internal/report"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements checker.ProgressReporter with a progress
// bar and a console summary.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	logFile string
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to out. logFile is
// mentioned in the summary.
func NewCLIProgressReporter(quiet bool, out io.Writer, logFile string) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:   quiet,
		out:     out,
		logFile: logFile,
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Checking files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileChecked(result checker.FileResult) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(summary *checker.Summary) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintln(c.out)
	if summary.WithErrors == 0 {
		fmt.Fprintf(c.out, "✓ All %d files match their specs (took %.1fs)\n",
			summary.Total, summary.Duration.Seconds())
	} else {
		fmt.Fprintf(c.out, "✗ %d of %d files have errors (took %.1fs)\n",
			summary.WithErrors, summary.Total, summary.Duration.Seconds())
		for _, f := range summary.Files {
			if f.Failed() {
				fmt.Fprintf(c.out, "  - %s: %s\n", f.Pair.Source, f.Outcome)
			}
		}
	}

	report.WriteSummary(c.out, summary.Total, summary.WithErrors)
	fmt.Fprintf(c.out, "Details: %s\n", c.logFile)
}
