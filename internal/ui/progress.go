package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step of a bridge command.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// done reports whether the status ends the step.
func (s StepStatus) done() bool {
	return s == StepComplete || s == StepFailed || s == StepSkipped
}

// StepCallback reports progress from inside an Operation. An empty name
// keeps the step's current name.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)

// Step is one line of the step list.
type Step struct {
	Name    string
	Status  StepStatus
	Message string // e.g. "192.168.1.50:23"

	started time.Time
	Elapsed time.Duration // set once the step is done
}

// Progress tracks the steps of a bridge command (connect, authenticate,
// send, wait) and renders them with an optional bar.
type Progress struct {
	Label   string
	Steps   []Step
	ShowBar bool

	current int
	bar     progress.Model
	now     func() time.Time
}

// NewProgress creates a step list with one pending step per name.
func NewProgress(label string, names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	p := &Progress{
		Label: label,
		Steps: steps,
		now:   time.Now,
	}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth sizes the bar for a terminal of the given width.
func (p *Progress) SetWidth(width int) *Progress {
	barWidth := min(max(width-20, 20), 50)
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// Update sets the status and message of a 1-based step. Out of range steps
// are ignored.
func (p *Progress) Update(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	step := &p.Steps[stepNumber-1]
	step.Status = status
	step.Message = message

	switch {
	case status == StepRunning:
		p.current = stepNumber
		step.started = p.now()
	case status.done() && !step.started.IsZero():
		step.Elapsed = p.now().Sub(step.started)
	}
}

// Current returns the 1-based number of the last step started.
func (p *Progress) Current() int {
	return p.current
}

// Fraction returns the share of steps that completed or were skipped.
func (p *Progress) Fraction() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	n := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			n++
		}
	}
	return float64(n) / float64(len(p.Steps))
}

// Render returns the label, bar and step list.
func (p *Progress) Render() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}
	if p.ShowBar {
		fmt.Fprintf(&b, "  %s  %3.0f%%  [%d/%d]\n\n",
			p.bar.ViewAs(p.Fraction()), p.Fraction()*100, p.current, len(p.Steps))
	}
	lines := make([]string, len(p.Steps))
	for i := range p.Steps {
		lines[i] = p.renderStep(i + 1)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (p *Progress) String() string {
	return p.Render()
}

// renderStep renders "[n/total] Name   ✓  (message) 120ms" with markers
// aligned on the longest step name.
func (p *Progress) renderStep(stepNumber int) string {
	step := p.Steps[stepNumber-1]

	style, marker := StepPendingStyle, StepMarkerPending
	switch step.Status {
	case StepRunning:
		style, marker = StepRunningStyle, StepMarkerRunning
	case StepComplete:
		style, marker = StepCompleteStyle, StepMarkerComplete
	case StepFailed:
		style, marker = ErrorTitleStyle, FailureMarker
	case StepSkipped:
		marker = StepMarkerSkipped
	}

	width := 0
	for _, s := range p.Steps {
		width = max(width, lipgloss.Width(s.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", stepNumber, len(p.Steps))
	b.WriteString(style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", width-lipgloss.Width(step.Name)+3))
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	if step.Elapsed > 0 {
		b.WriteString(" ")
		b.WriteString(StepNoteStyle.Render(step.Elapsed.Round(time.Millisecond).String()))
	}
	return b.String()
}
