package protocol

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
)

const lifecycleQueue = 64

// dispatcher runs lifecycle and exception callbacks off the read loop, one
// at a time and in submission order, so EOF is always seen before
// Disconnected. Level events are delivered by their registrations instead.
type dispatcher struct {
	queue chan func()
	done  chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		queue: make(chan func(), lifecycleQueue),
		done:  make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case fn := <-d.queue:
			invoke(fn)
		case <-d.done:
			return
		}
	}
}

// invoke runs a callback and keeps a panicking listener from taking its
// goroutine down with it.
func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Listener panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// submit queues fn behind earlier notifications. It returns false once the
// dispatcher is closed.
func (d *dispatcher) submit(fn func()) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.queue <- fn:
		return true
	case <-d.done:
		return false
	}
}

// close stops the dispatcher. Queued callbacks that have not started are
// dropped.
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
}

// wait blocks until the dispatcher goroutine has exited.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
