package monitor

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
)

// Options configures Run.
type Options struct {
	Username string
	Password string
	Devices  []Device
	Namer    func(id int) string
}

// Run connects client to the bridge and shows the dashboard until the user
// quits or ctx is done. The client is disconnected on return.
func Run(ctx context.Context, client *protocol.Client, opts Options) error {
	model := NewModel(client, client.Addr(), opts.Devices, opts.Namer)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	forwarder := NewForwarder(p, opts.Username, opts.Password)
	client.AddLevelListener(forwarder)
	defer client.RemoveLevelListener(forwarder)

	// Connect reports dial failures through the forwarder as well, so the
	// dashboard shows them instead of exiting.
	if err := client.Connect(ctx, forwarder); err != nil {
		logging.Warn("Initial connect failed", zap.String("addr", client.Addr()), zap.Error(err))
	}
	defer client.Disconnect()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
