package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/lutronctl/internal/logging"
)

// historySize is the maximum number of history entries to retain.
const historySize = 500

// LineEditor reads shell input. On a TTY it uses readline with Emacs
// keybindings and persistent history; otherwise it reads plain lines and
// prints the prompt itself.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
	out         io.Writer
}

// NewLineEditor creates a LineEditor for stdin, detecting whether it is a
// terminal. historyPath may be empty to disable history.
func NewLineEditor(historyPath string) *LineEditor {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && os.Getenv("INSIDE_EMACS") == ""
	if !interactive {
		return NewScannerEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		logging.Warn("readline init failed, using basic input", zap.Error(err))
		return NewScannerEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{interactive: true, rl: rl, out: rl}
}

// NewScannerEditor creates a non-interactive LineEditor reading lines from r
// and writing prompts to w.
func NewScannerEditor(r io.Reader, w io.Writer) *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(r), out: w}
}

// GetLine reads one line. It returns io.EOF on Ctrl-D, Ctrl-C or end of
// piped input.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		le.rl.SetPrompt(prompt)
		line, err := le.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				return "", io.EOF
			}
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			_ = le.rl.SaveToHistory(trimmed)
		}
		return line, nil
	}

	_, _ = fmt.Fprint(le.out, prompt)
	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Writer returns the writer for asynchronous output. In interactive mode
// writes go through readline so the prompt is redrawn below them.
func (le *LineEditor) Writer() io.Writer {
	return le.out
}

// IsInteractive reports whether full line editing is active.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// Close saves history and releases the terminal. Safe to call twice.
func (le *LineEditor) Close() {
	if le.rl != nil {
		_ = le.rl.Close()
		le.rl = nil
	}
}
