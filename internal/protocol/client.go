package protocol

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
)

// Options configures a Client.
type Options struct {
	// Dialer opens the transport. Defaults to TCPDialer(DialTimeout, ReadTimeout).
	Dialer Dialer

	// DialTimeout bounds the TCP handshake (default 10s).
	DialTimeout time.Duration

	// ReadTimeout fails the read loop when the bridge is silent this long.
	// Zero, the default, blocks forever.
	ReadTimeout time.Duration

	// CloseOnAuthFailure closes the transport after BadLogin or
	// TooManyAttempts has been reported. When false the connection stays
	// open and a new login prompt starts a new handshake.
	CloseOnAuthFailure bool

	// ListenerQueue is the number of level events buffered for each level
	// listener. When a listener falls this far behind, further events for it
	// are dropped. Defaults to DefaultListenerQueue.
	ListenerQueue int
}

// DefaultOptions returns the options used by NewClient.
func DefaultOptions() Options {
	return Options{
		DialTimeout:   DefaultDialTimeout,
		ListenerQueue: DefaultListenerQueue,
	}
}

// Client is a persistent connection to a Lutron integration bridge.
//
// Connect dials the bridge and starts one read loop goroutine that answers
// the login prompts, reports lifecycle changes and decodes output level
// broadcasts. Command methods write to the current connection.
//
// Thread Safety:
// All exported methods are safe for concurrent use. Lifecycle callbacks run
// on one dispatcher goroutine and each level listener on its own goroutine,
// never on the caller's goroutine or the read loop.
type Client struct {
	host string
	port int
	opts Options

	registry   listenerRegistry
	dispatcher *dispatcher

	mu       sync.Mutex
	session  *session
	listener ConnectionListener
	status   ConnectionStatus
	reported bool
	closed   bool
}

// session is one connection attempt. The read loop owns acc and phase.
type session struct {
	transport Transport
	addr      string
	listener  ConnectionListener

	acc   LineAccumulator
	phase connectionPhase

	authenticated atomic.Bool
	stopped       atomic.Bool
	prompting     atomic.Bool // read loop is inside a credential callback
	done          chan struct{}
}

// stop closes the transport and silences the session's read loop.
func (s *session) stop() {
	if s.stopped.CompareAndSwap(false, true) {
		_ = s.transport.Close()
	}
}

// wait blocks until the read loop has exited. A credential callback that
// reconnects runs on the read loop itself, so it does not wait.
func (s *session) wait(ctx context.Context) error {
	if s.prompting.Load() {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewClient creates a client for host:port with default options.
func NewClient(host string, port int) *Client {
	return NewClientWithOptions(host, port, DefaultOptions())
}

// NewClientWithOptions creates a client with custom options.
func NewClientWithOptions(host string, port int, opts Options) *Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = TCPDialer(opts.DialTimeout, opts.ReadTimeout)
	}
	c := &Client{
		host:       host,
		port:       port,
		opts:       opts,
		dispatcher: newDispatcher(),
		status:     StatusDisconnected,
	}
	c.registry.client = c
	c.registry.queue = opts.ListenerQueue
	return c
}

// Addr returns the bridge address as host:port.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Status returns the most recently reported status. ok is false until the
// first lifecycle notification.
func (c *Client) Status() (status ConnectionStatus, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.reported
}

// IsConnected reports whether the client holds an authenticated connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.authenticated.Load()
}

// AddLevelListener registers a listener for output level broadcasts.
// Registering the same listener twice delivers every event to it twice.
func (c *Client) AddLevelListener(l LevelListener) {
	c.registry.add(l)
}

// RemoveLevelListener removes one registration of l. Removing a listener
// that is not registered does nothing.
func (c *Client) RemoveLevelListener(l LevelListener) {
	c.registry.remove(l)
}

// Connect (re)initializes the connection. Any existing connection is torn
// down first, without notifications, and its read loop has exited before
// the new connection is dialed. listener receives every lifecycle
// notification of the new connection and supplies the credentials.
//
// A dial failure is reported as StatusConnectFailed followed by an exception,
// and is also returned. Authentication happens asynchronously; wait for
// StatusConnected before relying on commands.
func (c *Client) Connect(ctx context.Context, listener ConnectionListener) error {
	if listener == nil {
		listener = &ConnectionCallbacks{}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.listener = listener
	previous := c.session
	c.session = nil
	c.mu.Unlock()

	addr := c.Addr()

	if previous != nil {
		logging.LogConnection(previous.addr, "superseded")
		previous.stop()
		if err := previous.wait(ctx); err != nil {
			return c.connectFailed(listener, addr, err)
		}
	}

	transport, err := c.opts.Dialer(ctx, c.host, c.port)
	if err != nil {
		return c.connectFailed(listener, addr, err)
	}

	s := &session{
		transport: transport,
		addr:      addr,
		listener:  listener,
		phase:     phaseConnecting,
		done:      make(chan struct{}),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = transport.Close()
		return ErrClientClosed
	}
	raced := c.session
	c.session = s
	c.mu.Unlock()

	if raced != nil {
		raced.stop()
	}

	logging.LogConnection(addr, "connected")
	s.phase = phaseAwaitingUsernamePrompt
	go c.readLoop(s)

	return nil
}

func (c *Client) connectFailed(listener ConnectionListener, addr string, err error) error {
	cerr := newConnectionError("dial", addr, err)
	logging.Error("Failed to connect to bridge",
		zap.String("addr", addr),
		zap.Error(err),
	)
	c.reportStatus(listener, StatusConnectFailed)
	c.reportException(listener, cerr)
	return cerr
}

// Disconnect closes the current connection and reports StatusDisconnected.
// It is safe to call at any time, any number of times.
func (c *Client) Disconnect() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil || s.stopped.Load() {
		return
	}
	s.stop()
	logging.LogConnection(s.addr, "disconnected")
	c.reportStatus(s.listener, StatusDisconnected)
}

// Close disconnects without notifications and stops every listener
// goroutine.
// The client cannot be reused afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		s.stop()
	}
	c.registry.close()
	c.dispatcher.close()
	return nil
}

// readLoop consumes the transport one byte at a time until the stream ends,
// fails, or the session is stopped.
func (c *Client) readLoop(s *session) {
	defer close(s.done)

	for {
		b, err := s.transport.ReadByte()
		if err != nil {
			c.finish(s, err)
			return
		}
		if s.stopped.Load() {
			return
		}

		s.acc.Append(b)

		switch s.phase {
		case phaseAuthenticated:
			if b == '\n' {
				c.handleLine(s)
			}
		case phaseTerminated:
			// The bridge gave up on us; wait for it to hang up.
		default:
			if !c.authenticate(s, b) {
				return
			}
		}
	}
}

// authenticate runs one handshake step. It returns false when the read loop
// must stop.
func (c *Client) authenticate(s *session, b byte) bool {
	next, action := authStep(s.phase, b, &s.acc)
	if action != authNone {
		logging.Debug("Handshake step",
			zap.String("addr", s.addr),
			zap.Stringer("from", s.phase),
			zap.Stringer("to", next),
			zap.Stringer("action", action),
		)
	}
	s.phase = next

	switch action {
	case authSendUsername:
		return c.writeCredential(s, s.prompt(s.listener.OnLoginPrompt), false)

	case authSendPassword:
		return c.writeCredential(s, s.prompt(s.listener.OnPasswordPrompt), true)

	case authSucceeded:
		s.authenticated.Store(true)
		logging.Info("Authenticated with bridge", zap.String("addr", s.addr))
		return c.reportLive(s, StatusConnected)

	case authBadLogin, authTooManyAttempts:
		status := StatusBadLogin
		if action == authTooManyAttempts {
			status = StatusTooManyAttempts
		}
		logging.Warn("Bridge rejected login",
			zap.String("addr", s.addr),
			zap.Stringer("status", status),
		)
		if !c.reportLive(s, status) {
			return false
		}

		if c.opts.CloseOnAuthFailure {
			c.detach(s)
			s.stop()
			return false
		}
	}
	return true
}

// prompt asks the listener for a credential.
func (s *session) prompt(ask func() string) string {
	s.prompting.Store(true)
	defer s.prompting.Store(false)
	return ask()
}

func (c *Client) writeCredential(s *session, value string, secret bool) bool {
	if s.stopped.Load() {
		return false
	}
	if err := s.transport.WriteLine(value); err != nil {
		c.fail(s, newConnectionError("write", s.addr, err))
		return false
	}
	logging.LogProtocolLine(s.addr, "sent", value, secret)
	return true
}

// handleLine decodes the last completed line. Lines without a broadcast are
// left in the buffer.
func (c *Client) handleLine(s *session) {
	line := s.acc.LastLine()
	logging.LogProtocolLine(s.addr, "received", line, false)

	event, ok := ParseBroadcast(line)
	if !ok {
		if strings.Contains(line, BroadcastPrefix) {
			logging.LogRawBytes("Malformed broadcast dropped", []byte(line))
		}
		return
	}
	s.acc.Reset()
	if s.stopped.Load() {
		return
	}
	c.registry.publish(event)
}

// finish handles the end of the read loop.
func (c *Client) finish(s *session, err error) {
	if s.stopped.Load() {
		logging.Debug("Read loop stopped", zap.String("addr", s.addr))
		return
	}

	if errors.Is(err, io.EOF) {
		c.detach(s)
		s.stop()
		logging.LogConnection(s.addr, "eof")
		c.reportStatus(s.listener, StatusEOF)
		c.reportStatus(s.listener, StatusDisconnected)
		return
	}

	c.fail(s, newConnectionError("read", s.addr, err))
}

// fail tears down the session after an I/O error and reports it.
func (c *Client) fail(s *session, err error) {
	if s.stopped.Load() {
		return
	}
	c.detach(s)
	s.stop()
	logging.Error("Connection lost",
		zap.String("addr", s.addr),
		zap.Error(err),
	)
	c.reportStatus(s.listener, StatusDisconnected)
	c.reportException(s.listener, err)
}

// detach clears the client's session if it is still s.
func (c *Client) detach(s *session) {
	c.mu.Lock()
	if c.session == s {
		c.session = nil
	}
	c.mu.Unlock()
}

// reportLive reports a status of s unless s was stopped or superseded. It
// returns false in that case.
func (c *Client) reportLive(s *session, status ConnectionStatus) bool {
	c.mu.Lock()
	if c.session != s || s.stopped.Load() {
		c.mu.Unlock()
		logging.Debug("Dropping status of stale session",
			zap.String("addr", s.addr),
			zap.Stringer("status", status),
		)
		return false
	}
	c.status = status
	c.reported = true
	c.mu.Unlock()

	c.dispatcher.submit(func() {
		s.listener.OnStateChanged(c, status)
	})
	return true
}

func (c *Client) reportStatus(listener ConnectionListener, status ConnectionStatus) {
	c.mu.Lock()
	c.status = status
	c.reported = true
	c.mu.Unlock()

	if listener == nil {
		return
	}
	c.dispatcher.submit(func() {
		listener.OnStateChanged(c, status)
	})
}

func (c *Client) reportException(listener ConnectionListener, err error) {
	if listener == nil {
		return
	}
	c.dispatcher.submit(func() {
		listener.OnException(c, err)
	})
}

// sendMessage writes one command line to the current connection.
func (c *Client) sendMessage(line string) {
	c.mu.Lock()
	s := c.session
	listener := c.listener
	c.mu.Unlock()

	if s == nil {
		logging.Warn("Dropping command, not connected", zap.String("command", line))
		c.reportException(listener, ErrNotConnected)
		return
	}

	if err := s.transport.WriteLine(line); err != nil {
		logging.Error("Failed to send command",
			zap.String("addr", s.addr),
			zap.String("command", line),
			zap.Error(err),
		)
		c.fail(s, newConnectionError("write", s.addr, err))
		return
	}
	logging.LogProtocolLine(s.addr, "sent", line, false)
}
