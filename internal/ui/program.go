package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muurk/lutronctl/internal/protocol"
)

// Printer writes single-line event output: level changes, lifecycle
// statuses, sent commands and errors. It is safe for concurrent use since
// listener callbacks arrive on dispatcher goroutines.
type Printer struct {
	mu         sync.Mutex
	out        io.Writer
	width      int
	timestamps bool
	now        func() time.Time
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
		now:   time.Now,
	}
}

// WithTimestamps prefixes every event line with the local time.
func (p *Printer) WithTimestamps() *Printer {
	p.timestamps = true
	return p
}

// SetOutput redirects later output to w.
func (p *Printer) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = w
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content followed by a newline
func (p *Printer) Printf(format string, args ...any) {
	p.Println(fmt.Sprintf(format, args...))
}

// PrintLevel prints a level change for the named output.
func (p *Printer) PrintLevel(name string, id int, level float64) {
	p.event(fmt.Sprintf("%s %s  %s %s",
		DeviceNameStyle.Render(name),
		DeviceIDStyle.Render(fmt.Sprintf("[%d]", id)),
		RenderLevelBar(level, LevelBarWidth),
		FormatLevel(level)))
}

// PrintStatus prints a lifecycle status change.
func (p *Printer) PrintStatus(status protocol.ConnectionStatus) {
	p.event(StatusStyle(status).Render(status.String()))
}

// PrintSent prints a command line that was written to the bridge.
func (p *Printer) PrintSent(line string) {
	p.event(SentStyle.Render("→ " + line))
}

// PrintError prints an error line.
func (p *Printer) PrintError(err error) {
	p.event(ErrorMessageStyle.Render(FailureMarker + " " + err.Error()))
}

func (p *Printer) event(line string) {
	if p.timestamps {
		line = TimestampStyle.Render(p.now().Format("15:04:05")) + " " + line
	}
	p.Println(line)
}
