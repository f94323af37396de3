package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
)

// DefaultPort is the integration (telnet) port of Lutron bridges.
const DefaultPort = 23

// DefaultDialTimeout bounds how long Connect waits for the TCP handshake.
const DefaultDialTimeout = 10 * time.Second

// Transport is the byte stream to the bridge.
//
// ReadByte blocks until a byte arrives and returns io.EOF once the stream has
// ended. WriteLine writes line followed by LineTerminator and flushes it.
// Close must be idempotent and unblocks a pending ReadByte.
type Transport interface {
	ReadByte() (byte, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// Dialer opens a Transport to host:port.
type Dialer func(ctx context.Context, host string, port int) (Transport, error)

// TCPDialer returns a Dialer that connects over TCP. A positive readTimeout
// makes every ReadByte fail with a timeout error when no byte arrives in time;
// zero blocks forever.
func TCPDialer(dialTimeout, readTimeout time.Duration) Dialer {
	return func(ctx context.Context, host string, port int) (Transport, error) {
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPort, port)
		}
		addr := net.JoinHostPort(host, strconv.Itoa(port))

		d := net.Dialer{Timeout: dialTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return NewConnTransport(conn, readTimeout), nil
	}
}

// connTransport adapts a net.Conn to Transport with buffered input and output.
type connTransport struct {
	conn        net.Conn
	reader      *bufio.Reader
	readTimeout time.Duration

	writeMu sync.Mutex
	writer  *bufio.Writer

	closeOnce sync.Once
}

// NewConnTransport wraps an established connection.
func NewConnTransport(conn net.Conn, readTimeout time.Duration) Transport {
	return &connTransport{
		conn:        conn,
		reader:      bufio.NewReader(conn),
		writer:      bufio.NewWriter(conn),
		readTimeout: readTimeout,
	}
}

func (t *connTransport) ReadByte() (byte, error) {
	if t.readTimeout > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
			return 0, err
		}
	}
	return t.reader.ReadByte()
}

func (t *connTransport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.WriteString(line + LineTerminator); err != nil {
		return err
	}
	return t.writer.Flush()
}

// Close flushes pending output and closes the socket. Flush errors are
// logged; close errors on an already closed socket are ignored.
func (t *connTransport) Close() error {
	t.closeOnce.Do(func() {
		t.writeMu.Lock()
		if err := t.writer.Flush(); err != nil && !errors.Is(err, net.ErrClosed) {
			logging.Warn("Failed to flush output on close",
				zap.String("remote_addr", t.RemoteAddr()),
				zap.Error(err),
			)
		}
		t.writeMu.Unlock()
		_ = t.conn.Close()
	})
	return nil
}

func (t *connTransport) RemoteAddr() string {
	if addr := t.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
