package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType is the outcome shown by a Result box.
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

type resultKind struct {
	label  string
	marker string
	title  lipgloss.Style
	box    func(width int) lipgloss.Style
}

var resultKinds = map[ResultType]resultKind{
	ResultSuccess: {"SUCCESS", SuccessMarker, SuccessTitleStyle, SuccessBoxStyle},
	ResultFailure: {"FAILED", FailureMarker, ErrorTitleStyle, ErrorBoxStyle},
	ResultWarning: {"WARNING", "⚠", StepRunningStyle.Bold(true), WarningBoxStyle},
}

// Result is the box printed when a bridge command finishes.
type Result struct {
	Type    ResultType
	Title   string            // e.g. "Set Level complete"
	Details map[string]string // rendered sorted by key
	Err     error             // failure only
	Tips    []string          // failure only
	Width   int
}

func newResult(typ ResultType, title string) *Result {
	return &Result{Type: typ, Title: title, Width: GetTerminalWidth()}
}

// NewSuccessResult creates a success box.
func NewSuccessResult(title string, details map[string]string) *Result {
	r := newResult(ResultSuccess, title)
	r.Details = details
	return r
}

// NewFailureResult creates a failure box with troubleshooting tips.
func NewFailureResult(title string, err error, tips []string) *Result {
	r := newResult(ResultFailure, title)
	r.Err = err
	r.Tips = tips
	return r
}

// NewWarningResult creates a warning box.
func NewWarningResult(title string, details map[string]string) *Result {
	r := newResult(ResultWarning, title)
	r.Details = details
	return r
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail adds or replaces one detail line.
func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
	return r
}

// Render returns the styled box.
func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)
	kind := resultKinds[r.Type]

	lines := []string{
		"",
		kind.title.Render(fmt.Sprintf("   %s  %s  ─  %s", kind.marker, kind.label, r.Title)),
		"",
	}
	if len(r.Details) > 0 {
		lines = append(lines, renderPairs(r.Details, ResultKeyStyle, ResultValueStyle, "   "), "")
	}
	if r.Err != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Err.Error()), "")
	}
	if len(r.Tips) > 0 {
		tips := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
		for _, tip := range r.Tips {
			tips = append(tips, TroubleshootingItemStyle.Render("  • "+tip))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(tips, "\n")), "")
	}

	return kind.box(width).Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}

// RenderSuccess renders a success box.
func RenderSuccess(title string, details map[string]string) string {
	return NewSuccessResult(title, details).Render()
}

// RenderFailure renders a failure box.
func RenderFailure(title string, err error, tips []string) string {
	return NewFailureResult(title, err, tips).Render()
}

// RenderWarning renders a warning box.
func RenderWarning(title string, details map[string]string) string {
	return NewWarningResult(title, details).Render()
}
