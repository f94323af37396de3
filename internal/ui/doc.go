// Package ui provides terminal output components for the lutronctl CLI.
//
// This package uses Lipgloss (and the Bubbles progress bar) to render
// polished terminal output. These components follow a "run once and exit"
// pattern; the interactive dashboard lives in the monitor package.
//
// # Architecture
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - Printer: Single-line event output for level changes and statuses
//
// One-shot commands are orchestrated by the Runner, which manages the
// header → progress → result flow.
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Set Level",
//	    Command:   "lutronctl set 12 50",
//	    Params:    map[string]string{"Bridge": "192.168.1.50:23"},
//	    StepNames: []string{"Connecting", "Authenticating", "Sending"},
//	})
//
//	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... connect ...
//	    onStep(1, "", ui.StepComplete, "")
//	    return map[string]string{"Output": "Kitchen"}, nil
//	})
//
// # Logging Integration
//
// Logging is controlled via the LUTRONCTL_LOG_LEVEL environment variable.
// When unset, zap logging is silent so the curated output stays clean.
package ui
