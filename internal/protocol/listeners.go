package protocol

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
)

// ConnectionListener receives lifecycle notifications and supplies the
// credentials. OnLoginPrompt and OnPasswordPrompt are called on the read loop
// at the moment the bridge shows the matching prompt, so they may block (for
// example on a terminal prompt). The other methods run on the dispatcher.
type ConnectionListener interface {
	OnStateChanged(c *Client, status ConnectionStatus)
	OnException(c *Client, err error)
	OnLoginPrompt() string
	OnPasswordPrompt() string
}

// LevelListener is notified of every decoded output level broadcast.
// Listeners are compared with == on removal, so implementations must be
// comparable; pointer receivers are the usual choice.
type LevelListener interface {
	OnLevelChange(c *Client, integrationID int, level float64)
}

type levelListenerFunc struct {
	fn func(c *Client, integrationID int, level float64)
}

func (l *levelListenerFunc) OnLevelChange(c *Client, integrationID int, level float64) {
	l.fn(c, integrationID, level)
}

// LevelListenerFunc adapts a function to LevelListener. Each call returns a
// distinct listener; keep it to remove it later.
func LevelListenerFunc(fn func(c *Client, integrationID int, level float64)) LevelListener {
	return &levelListenerFunc{fn: fn}
}

// ConnectionCallbacks is a ConnectionListener built from optional functions.
// Nil callbacks are skipped; nil credential callbacks answer "".
type ConnectionCallbacks struct {
	StateChanged func(c *Client, status ConnectionStatus)
	Exception    func(c *Client, err error)
	Login        func() string
	Password     func() string
}

func (cb *ConnectionCallbacks) OnStateChanged(c *Client, status ConnectionStatus) {
	if cb.StateChanged != nil {
		cb.StateChanged(c, status)
	}
}

func (cb *ConnectionCallbacks) OnException(c *Client, err error) {
	if cb.Exception != nil {
		cb.Exception(c, err)
	}
}

func (cb *ConnectionCallbacks) OnLoginPrompt() string {
	if cb.Login == nil {
		return ""
	}
	return cb.Login()
}

func (cb *ConnectionCallbacks) OnPasswordPrompt() string {
	if cb.Password == nil {
		return ""
	}
	return cb.Password()
}

// DefaultListenerQueue is the number of level events buffered for each
// listener registration. Further events for that listener are dropped until
// it catches up.
const DefaultListenerQueue = 256

// registration delivers level events to one listener on its own goroutine,
// so a slow listener only delays itself.
type registration struct {
	listener LevelListener
	events   chan LevelChangeEvent
	quit     chan struct{}
	dropped  atomic.Uint64
}

func (reg *registration) run(c *Client, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case ev := <-reg.events:
			select {
			case <-reg.quit:
				return
			default:
			}
			invoke(func() { reg.listener.OnLevelChange(c, ev.IntegrationID, ev.Level) })
		case <-reg.quit:
			return
		}
	}
}

// offer queues ev without blocking and reports whether it was queued.
func (reg *registration) offer(ev LevelChangeEvent) bool {
	select {
	case reg.events <- ev:
		return true
	default:
		n := reg.dropped.Add(1)
		if n == 1 || n%100 == 0 {
			logging.Warn("Listener queue full, dropping level event",
				zap.String("listener", fmt.Sprintf("%T", reg.listener)),
				zap.Int("integration_id", ev.IntegrationID),
				zap.Uint64("dropped", n),
			)
		}
		return false
	}
}

// listenerRegistry is a mutex-guarded list of level listener registrations.
// Duplicate registrations are kept; removal stops the first equal entry.
// The zero value is ready to use.
type listenerRegistry struct {
	client *Client
	queue  int

	mu     sync.RWMutex
	regs   []*registration
	closed bool
	wg     sync.WaitGroup
}

func (r *listenerRegistry) add(l LevelListener) {
	if l == nil {
		return
	}
	queue := r.queue
	if queue <= 0 {
		queue = DefaultListenerQueue
	}
	reg := &registration{
		listener: l,
		events:   make(chan LevelChangeEvent, queue),
		quit:     make(chan struct{}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.regs = append(r.regs, reg)
	r.wg.Add(1)
	go reg.run(r.client, &r.wg)
}

func (r *listenerRegistry) remove(l LevelListener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.regs {
		if reg.listener == l {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			close(reg.quit)
			return
		}
	}
}

// publish hands ev to every registration without blocking.
func (r *listenerRegistry) publish(ev LevelChangeEvent) {
	r.mu.RLock()
	regs := make([]*registration, len(r.regs))
	copy(regs, r.regs)
	r.mu.RUnlock()

	for _, reg := range regs {
		reg.offer(ev)
	}
}

// close stops every delivery goroutine. Later registrations are ignored.
func (r *listenerRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, reg := range r.regs {
		close(reg.quit)
	}
	r.regs = nil
}

// wait blocks until every delivery goroutine has exited.
func (r *listenerRegistry) wait() {
	r.wg.Wait()
}

// snapshot returns the registered listeners in registration order.
func (r *listenerRegistry) snapshot() []LevelListener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LevelListener, len(r.regs))
	for i, reg := range r.regs {
		out[i] = reg.listener
	}
	return out
}

func (r *listenerRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.regs)
}
