package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a one-shot bridge command.
type RunnerConfig struct {
	Title           string            // Command title (e.g., "Set Level")
	Command         string            // Full command (e.g., "lutronctl set 12 50")
	Params          map[string]string // Parameters to display in header
	StepNames       []string          // Names for each step
	Troubleshooting []string          // Tips shown on failure (defaults to DefaultTroubleshooting)
	Output          io.Writer         // Output writer (default: os.Stdout)

	// TipsFor, when set, chooses the tips for a specific error. A nil
	// result falls back to Troubleshooting.
	TipsFor func(err error) []string
}

// DefaultTroubleshooting is shown when a one-shot command fails.
var DefaultTroubleshooting = []string{
	"Check the bridge address with: lutronctl scan",
	"Make sure Telnet integration is enabled in the Lutron app",
	"Verify the integration username and password",
	"Set LUTRONCTL_LOG_LEVEL=debug for protocol logs",
}

// Runner orchestrates the header, progress, result flow for a one-shot
// command against the bridge.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	startTime time.Time
	width     int
}

// NewRunner creates a new runner for a one-shot command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if len(config.Troubleshooting) == 0 {
		config.Troubleshooting = DefaultTroubleshooting
	}

	width := GetTerminalWidth()

	header := NewHeader(config.Title, config.Command, config.Params)
	header.SetWidth(width)

	var progress *Progress
	if len(config.StepNames) > 0 {
		progress = NewProgress("", config.StepNames...).SetWidth(width)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the work performed by a Runner. It reports progress through
// onStep and returns the details to show in the success box.
type Operation func(ctx context.Context, onStep StepCallback) (map[string]string, error)

// Run executes the operation with UI updates and returns its details.
func (r *Runner) Run(ctx context.Context, operation Operation) (map[string]string, error) {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(ctx, r.createStepCallback())
	duration := time.Since(r.startTime)

	if err != nil {
		r.printFailure(err)
	} else {
		r.printSuccess(details, duration)
	}

	return details, err
}

// createStepCallback creates the step callback function
func (r *Runner) createStepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.Update(stepNumber, status, message)

		line := r.progress.renderStep(stepNumber)
		switch {
		case status.done():
			_, _ = fmt.Fprintln(r.output, line)
		case status == StepRunning:
			// Overwritten when the step finishes
			_, _ = fmt.Fprint(r.output, line+"\r")
		}
	}
}

func (r *Runner) printSuccess(details map[string]string, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	result := NewSuccessResult(r.config.Title+" complete", details)
	result.AddDetail("Duration", duration.Round(time.Millisecond).String())
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

func (r *Runner) printFailure(err error) {
	_, _ = fmt.Fprintln(r.output)

	tips := r.config.Troubleshooting
	if r.config.TipsFor != nil {
		if t := r.config.TipsFor(err); t != nil {
			tips = t
		}
	}
	result := NewFailureResult(r.config.Title+" failed", err, tips)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

// --- Simple helper functions for commands that don't need a Runner ---

// PrintCommandHeader prints a styled command header
func PrintCommandHeader(title, command string, params map[string]string) {
	fmt.Println(NewHeader(title, command, params).Render())
	fmt.Println()
}

// PrintSuccess prints a styled success result
func PrintSuccess(title string, details map[string]string) {
	fmt.Println()
	fmt.Println(RenderSuccess(title, details))
}

// PrintFailure prints a styled failure result
func PrintFailure(title string, err error, troubleshooting []string) {
	fmt.Println()
	fmt.Println(RenderFailure(title, err, troubleshooting))
}

// PrintWarning prints a styled warning result
func PrintWarning(title string, details map[string]string) {
	fmt.Println()
	fmt.Println(RenderWarning(title, details))
}

// PrintPleaseWait prints a styled "please wait" message.
// durationHint sets expectations, e.g. "up to 5 seconds".
func PrintPleaseWait(message string, durationHint string) {
	line := SentStyle.Bold(true).PaddingLeft(2).Render("⏳ " + message)
	if durationHint != "" {
		line += " " + StepNoteStyle.Render("("+durationHint+")")
	}
	line += SentStyle.Bold(true).Render("...")

	fmt.Println()
	fmt.Println(line)
	fmt.Println()
}
