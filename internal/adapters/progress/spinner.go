package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while transactions are in flight
// and prints a line for every finished stage.
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer

	currentStage   string
	stageStartTime time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stageStartTime = time.Now()
	}

	if event.Spinner {
		r.spinner.Suffix = " " + formatEvent(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

// Done stops the spinner and closes the last stage
func (r *SpinnerProgressReporter) Done() {
	r.completeCurrentStage()
	r.currentStage = ""
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage prints the finished stage with its duration
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.currentStage == "" {
		return
	}
	duration := time.Since(r.stageStartTime).Round(time.Millisecond)
	r.println(color.New(color.FgGreen), fmt.Sprintf("✓ %s (%s)", r.currentStage, duration))
}

func formatEvent(event usecase.ProgressEvent) string {
	if event.Total > 1 && event.Current > 0 {
		return fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	return event.Message
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
