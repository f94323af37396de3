package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/lutronctl/internal/protocol"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Forwarder turns protocol callbacks into dashboard messages. It is both the
// connection listener and a level listener. The credentials must be known
// up front because the dashboard owns the terminal while it runs.
type Forwarder struct {
	sender   Sender
	username string
	password string
}

// NewForwarder creates a Forwarder answering the bridge prompts with the
// given credentials.
func NewForwarder(sender Sender, username, password string) *Forwarder {
	return &Forwarder{sender: sender, username: username, password: password}
}

func (f *Forwarder) OnLevelChange(_ *protocol.Client, integrationID int, level float64) {
	f.sender.Send(LevelMsg{ID: integrationID, Level: level})
}

func (f *Forwarder) OnStateChanged(_ *protocol.Client, status protocol.ConnectionStatus) {
	f.sender.Send(StatusMsg{Status: status})
}

func (f *Forwarder) OnException(_ *protocol.Client, err error) {
	f.sender.Send(ErrorMsg{Err: err})
}

func (f *Forwarder) OnLoginPrompt() string { return f.username }

func (f *Forwarder) OnPasswordPrompt() string { return f.password }
