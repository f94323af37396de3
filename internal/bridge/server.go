package bridge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
)

// DefaultPort is the default HTTP port of the relay.
const DefaultPort = 8023

const shutdownTimeout = 10 * time.Second

// Config holds the relay configuration
type Config struct {
	Host string
	Port int

	// AllowAnyOrigin accepts WebSocket upgrades from any browser origin.
	// When false only same-origin requests (or non-browser clients) are accepted.
	AllowAnyOrigin bool

	// TLS, when set, serves HTTPS and WSS instead of plain HTTP.
	TLS *tls.Config
}

// Server relays a protocol.Client to WebSocket clients and exposes metrics.
type Server struct {
	config   *Config
	client   *protocol.Client
	metrics  *Metrics
	upgrader websocket.Upgrader

	wg       sync.WaitGroup
	mu       sync.Mutex
	http     *http.Server
	sessions map[string]*wsSession
	status   protocol.ConnectionStatus
	closed   bool
}

// New creates a Server around client and subscribes it to level changes.
// The caller keeps ownership of client.
func New(config *Config, client *protocol.Client) *Server {
	s := &Server{
		config:   config,
		client:   client,
		metrics:  NewMetrics(),
		sessions: make(map[string]*wsSession),
		status:   protocol.StatusDisconnected,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if config.AllowAnyOrigin {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	client.AddLevelListener(s)
	return s
}

// Handler returns the relay's HTTP routes: /ws and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Listener wraps next so that lifecycle changes are also relayed to
// WebSocket clients. Pass the result to Client.Connect. next may be nil.
func (s *Server) Listener(next protocol.ConnectionListener) protocol.ConnectionListener {
	return &relayListener{server: s, next: next}
}

// OnLevelChange implements protocol.LevelListener.
func (s *Server) OnLevelChange(_ *protocol.Client, integrationID int, level float64) {
	s.metrics.observeLevel()
	s.broadcast(levelEvent(integrationID, level))
}

func (s *Server) setStatus(status protocol.ConnectionStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	s.metrics.observeStatus(status)
	s.broadcast(statusEvent(status))
}

func (s *Server) currentStatus() protocol.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start listens on the configured address and blocks until a shutdown
// signal or a serve error.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	logging.Info("Relay listening for connections",
		zap.String("addr", listener.Addr().String()),
		zap.String("bridge", s.client.Addr()),
		zap.Bool("tls", s.config.TLS != nil),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping relay...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Serve accepts HTTP connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.http = srv
	s.mu.Unlock()

	if s.config.TLS != nil {
		logging.Info("Serving relay over TLS",
			zap.String("addr", l.Addr().String()),
			zap.Any("tls", TLSInfo(s.config.TLS)),
		)
		l = tls.NewListener(l, s.config.TLS)
	}

	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, closes every WebSocket session and
// unsubscribes from the client.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down relay...")

	s.mu.Lock()
	s.closed = true
	srv := s.http
	sessions := make([]*wsSession, 0, len(s.sessions))
	for _, ws := range s.sessions {
		sessions = append(sessions, ws)
	}
	s.mu.Unlock()

	s.client.RemoveLevelListener(s)

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("Error stopping HTTP server", zap.Error(err))
			shutdownErr = err
		}
	}

	// Hijacked WebSocket connections are not tracked by http.Server.
	for _, ws := range sessions {
		logging.Info("Closing active session", zap.String("session", ws.id))
		s.unregister(ws)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return shutdownErr
}

// GetActiveSessions returns the number of open WebSocket sessions
func (s *Server) GetActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// relayListener forwards lifecycle notifications to the relay and to the
// caller's listener.
type relayListener struct {
	server *Server
	next   protocol.ConnectionListener
}

func (l *relayListener) OnStateChanged(c *protocol.Client, status protocol.ConnectionStatus) {
	l.server.setStatus(status)
	if l.next != nil {
		l.next.OnStateChanged(c, status)
	}
}

func (l *relayListener) OnException(c *protocol.Client, err error) {
	l.server.broadcast(errorEvent(err))
	if l.next != nil {
		l.next.OnException(c, err)
	}
}

func (l *relayListener) OnLoginPrompt() string {
	if l.next == nil {
		return ""
	}
	return l.next.OnLoginPrompt()
}

func (l *relayListener) OnPasswordPrompt() string {
	if l.next == nil {
		return ""
	}
	return l.next.OnPasswordPrompt()
}
