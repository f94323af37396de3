package bridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Events queued per session before it is considered too slow and dropped
	sendBuffer = 64
)

// wsSession is one connected WebSocket client.
type wsSession struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// enqueue queues data without blocking. It returns false when the session is
// closed or its queue is full.
func (ws *wsSession) enqueue(data []byte) bool {
	select {
	case <-ws.done:
		return false
	default:
	}
	select {
	case ws.send <- data:
		return true
	default:
		return false
	}
}

func (ws *wsSession) close() {
	ws.closeOnce.Do(func() {
		close(ws.done)
		_ = ws.conn.Close()
	})
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "relay is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	ws := &wsSession{
		id:         uuid.New().String(),
		remoteAddr: r.RemoteAddr,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ws.close()
		return
	}
	s.sessions[ws.id] = ws
	s.wg.Add(2)
	s.mu.Unlock()

	s.metrics.sessionOpened()
	logging.LogConnection(ws.remoteAddr, "websocket_opened")

	s.send(ws, Event{Type: EventHello, Session: ws.id, Status: s.currentStatus().String()})

	go s.writePump(ws)
	go s.readPump(ws)
}

// unregister removes ws and closes it. Safe to call more than once.
func (s *Server) unregister(ws *wsSession) {
	s.mu.Lock()
	_, ok := s.sessions[ws.id]
	delete(s.sessions, ws.id)
	s.mu.Unlock()

	ws.close()
	if ok {
		s.metrics.sessionClosed()
		logging.LogConnection(ws.remoteAddr, "websocket_closed")
	}
}

// send queues one event for ws, dropping the session if it cannot keep up.
func (s *Server) send(ws *wsSession, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Error("Failed to marshal event", zap.Error(err))
		return
	}
	if !ws.enqueue(data) {
		logging.Warn("Dropping slow WebSocket session", zap.String("session", ws.id))
		s.unregister(ws)
	}
}

// broadcast queues ev for every open session.
func (s *Server) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Error("Failed to marshal event", zap.Error(err))
		return
	}

	s.mu.Lock()
	sessions := make([]*wsSession, 0, len(s.sessions))
	for _, ws := range s.sessions {
		sessions = append(sessions, ws)
	}
	s.mu.Unlock()

	for _, ws := range sessions {
		if !ws.enqueue(data) {
			logging.Warn("Dropping slow WebSocket session", zap.String("session", ws.id))
			s.unregister(ws)
		}
	}
}

// readPump reads commands from ws until the connection fails.
func (s *Server) readPump(ws *wsSession) {
	defer s.wg.Done()
	defer s.unregister(ws)

	ws.conn.SetReadLimit(maxMessageSize)
	_ = ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("WebSocket closed unexpectedly",
					zap.String("session", ws.id),
					zap.Error(err),
				)
			}
			return
		}

		if messageType != websocket.TextMessage {
			s.send(ws, Event{Type: EventError, Error: "expected a text message"})
			continue
		}
		s.handleCommand(ws, data)
	}
}

func (s *Server) handleCommand(ws *wsSession, data []byte) {
	cmd, err := decodeCommand(data)
	if err != nil {
		logging.Debug("Rejected command",
			zap.String("session", ws.id),
			zap.Error(err),
		)
		s.send(ws, errorEvent(err))
		return
	}

	if !s.client.IsConnected() {
		s.send(ws, Event{Type: EventError, Command: cmd.Command, ID: cmd.ID, Error: protocol.ErrNotConnected.Error()})
		return
	}

	logging.Info("Relaying command",
		zap.String("session", ws.id),
		zap.String("command", cmd.Command),
		zap.Int("id", cmd.ID),
	)
	s.metrics.observeCommand(cmd.Command)
	execute(s.client, cmd)
	s.send(ws, Event{Type: EventAck, Command: cmd.Command, ID: cmd.ID})
}

// writePump writes queued events and keepalive pings to ws.
func (s *Server) writePump(ws *wsSession) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.wg.Done()
	}()

	for {
		select {
		case data := <-ws.send:
			_ = ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.unregister(ws)
				return
			}
		case <-ticker.C:
			_ = ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.unregister(ws)
				return
			}
		case <-ws.done:
			return
		}
	}
}
