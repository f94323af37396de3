package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
	"github.com/muurk/lutronctl/internal/ui"
)

// Prompt is printed before every input line.
const Prompt = "lutron> "

const helpText = `Commands (targets are integration IDs or configured device names):
  set <target> <level>          set an output level (0-100, "%" optional)
  get <target>                  request the current level
  curtain open|close|stop <t>   drive a curtain
  shade raise|stop|drop <t>     drive a shade
  led on|off|stop <t>           drive a keypad LED
  status                        show the connection status
  help                          show this help
  quit                          leave the shell`

// Editor supplies input lines.
type Editor interface {
	GetLine(prompt string) (string, error)
}

// Config holds the optional name lookups used by the shell.
type Config struct {
	Resolve Resolver            // name -> integration ID
	Name    func(id int) string // integration ID -> display name
}

// Shell is an interactive command loop over a connected client.
type Shell struct {
	ctl     Controller
	editor  Editor
	printer *ui.Printer
	config  Config
}

// New creates a Shell. A nil Config.Name prints "Output <id>".
func New(ctl Controller, editor Editor, printer *ui.Printer, config Config) *Shell {
	if config.Name == nil {
		config.Name = func(id int) string { return fmt.Sprintf("Output %d", id) }
	}
	return &Shell{ctl: ctl, editor: editor, printer: printer, config: config}
}

// OnLevelChange prints level broadcasts while the shell runs.
func (s *Shell) OnLevelChange(_ *protocol.Client, integrationID int, level float64) {
	s.printer.PrintLevel(s.config.Name(integrationID), integrationID, level)
}

// Run reads and executes commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := s.editor.GetLine(Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if done := s.Handle(line); done {
			return nil
		}
	}
}

// Handle executes one input line and reports whether the shell should exit.
func (s *Shell) Handle(line string) bool {
	cmd, err := ParseCommand(line, s.config.Resolve)
	if errors.Is(err, ErrEmptyCommand) {
		return false
	}
	if err != nil {
		s.printer.PrintError(err)
		return false
	}

	switch cmd.Kind {
	case KindQuit:
		return true
	case KindHelp:
		s.printer.Println(helpText)
		return false
	case KindStatus:
		if status, ok := s.ctl.Status(); ok {
			s.printer.PrintStatus(status)
		} else {
			s.printer.Println("no status reported yet")
		}
		return false
	}

	if !s.ctl.IsConnected() {
		s.printer.PrintError(protocol.ErrNotConnected)
		return false
	}

	logging.Debug("shell command", zap.String("line", cmd.Wire()))
	cmd.Execute(s.ctl)
	s.printer.PrintSent(cmd.Wire())
	return false
}
