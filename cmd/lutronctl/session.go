package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/lutronctl/internal/config"
	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
	"github.com/muurk/lutronctl/internal/ui"
)

var (
	registry   *config.Registry
	configPath string
)

// Errors for statuses that end a connection attempt
var (
	errBadLogin         = errors.New("bridge rejected the login")
	errTooManyAttempts  = errors.New("bridge refused further login attempts")
	errConnectionClosed = errors.New("bridge closed the connection")
	errConnectFailed    = errors.New("could not connect to the bridge")
	errNoHost           = errors.New("no bridge host configured; run 'lutronctl scan --save' or pass --host")
)

func loadConfig() error {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	reg, err := config.LoadRegistryFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	registry, configPath = reg, path
	return nil
}

// bridgeTarget returns the bridge host and port, flags first.
func bridgeTarget() (string, int, error) {
	host := flagHost
	port := flagPort
	if b := registry.Bridge; b != nil {
		if host == "" {
			host = b.Host
		}
		if port == 0 {
			port = b.Port
		}
	}
	if port == 0 {
		port = protocol.DefaultPort
	}
	if host == "" {
		return "", 0, errNoHost
	}
	return host, port, nil
}

func username() string {
	if flagUser != "" {
		return flagUser
	}
	if b := registry.Bridge; b != nil && b.Username != "" {
		return b.Username
	}
	return "lutron"
}

func newClient() (*protocol.Client, error) {
	host, port, err := bridgeTarget()
	if err != nil {
		return nil, err
	}
	return protocol.NewClientWithOptions(host, port, registry.ClientOptions()), nil
}

// readPassword answers the bridge's password prompt. The environment
// variable named by --password-env wins; otherwise the terminal is asked.
func readPassword(addr string) string {
	if flagPasswordEnv != "" {
		if value, ok := os.LookupEnv(flagPasswordEnv); ok {
			return value
		}
		logging.Warn("Password variable is not set", zap.String("variable", flagPasswordEnv))
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		logging.Warn("No terminal for the password prompt, sending an empty password")
		return ""
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", username(), addr)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logging.Warn("Failed to read password", zap.Error(err))
		return ""
	}
	return string(password)
}

// statusError maps statuses that end a connection attempt to errors.
func statusError(status protocol.ConnectionStatus) error {
	switch status {
	case protocol.StatusBadLogin:
		return errBadLogin
	case protocol.StatusTooManyAttempts:
		return errTooManyAttempts
	case protocol.StatusEOF, protocol.StatusDisconnected:
		return errConnectionClosed
	case protocol.StatusConnectFailed:
		return errConnectFailed
	}
	return nil
}

// troubleshooting picks tips for the errors a bridge command can end with.
// Unknown errors return nil so the runner's defaults apply.
func troubleshooting(err error) []string {
	var connErr *protocol.ConnectionError
	switch {
	case errors.Is(err, errBadLogin):
		return []string{
			"Check the integration username (--user or bridge.username in the config)",
			"Check the password, or the variable named by --password-env",
			"Caseta Pro bridges use lutron / integration unless changed",
		}
	case errors.Is(err, errTooManyAttempts):
		return []string{
			"The bridge locks out repeated failed logins for a while",
			"Wait a few minutes before trying again with the right credentials",
		}
	case errors.Is(err, errConnectFailed), errors.As(err, &connErr):
		return []string{
			"Check the bridge address with: lutronctl scan",
			"Make sure Telnet integration is enabled in the Lutron app",
			"The integration port is 23 unless --port says otherwise",
		}
	case errors.Is(err, errConnectionClosed):
		return []string{
			"The bridge allows a limited number of integration sessions",
			"Close other integration clients and try again",
		}
	}
	return nil
}

// cliListener prints lifecycle changes and supplies the credentials.
type cliListener struct {
	printer *ui.Printer // nil prints nothing
	addr    string
}

func (l *cliListener) OnStateChanged(_ *protocol.Client, status protocol.ConnectionStatus) {
	if l.printer != nil {
		l.printer.PrintStatus(status)
	}
}

func (l *cliListener) OnException(_ *protocol.Client, err error) {
	logging.Debug("Connection exception", zap.String("addr", l.addr), zap.Error(err))
	if l.printer != nil {
		l.printer.PrintError(err)
	}
}

func (l *cliListener) OnLoginPrompt() string { return username() }

func (l *cliListener) OnPasswordPrompt() string { return readPassword(l.addr) }

// waiter forwards every notification to next and copies statuses to a
// channel so a caller can block until authentication settles.
type waiter struct {
	next     protocol.ConnectionListener
	statuses chan protocol.ConnectionStatus
}

func (w *waiter) OnStateChanged(c *protocol.Client, status protocol.ConnectionStatus) {
	select {
	case w.statuses <- status:
	default:
	}
	w.next.OnStateChanged(c, status)
}

func (w *waiter) OnException(c *protocol.Client, err error) { w.next.OnException(c, err) }
func (w *waiter) OnLoginPrompt() string                     { return w.next.OnLoginPrompt() }
func (w *waiter) OnPasswordPrompt() string                  { return w.next.OnPasswordPrompt() }

// connectAndWait connects client and blocks until the session is
// authenticated, a terminal status is reported or ctx is done. next keeps
// receiving notifications afterwards.
func connectAndWait(ctx context.Context, client *protocol.Client, next protocol.ConnectionListener) error {
	w := &waiter{next: next, statuses: make(chan protocol.ConnectionStatus, 16)}
	if err := client.Connect(ctx, w); err != nil {
		return err
	}

	for {
		select {
		case status := <-w.statuses:
			if status == protocol.StatusConnected {
				return nil
			}
			if err := statusError(status); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
