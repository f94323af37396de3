package protocol

import (
	"sync"
	"testing"
	"time"
)

type countingListener struct{ n int }

func (l *countingListener) OnLevelChange(*Client, int, float64) { l.n++ }

// valueListener has a non-comparable dynamic type.
type valueListener struct{ fn func() }

func (l valueListener) OnLevelChange(*Client, int, float64) { l.fn() }

func TestListenerRegistry_DuplicateRegistrations(t *testing.T) {
	var r listenerRegistry
	defer r.close()
	l := &countingListener{}

	r.add(l)
	r.add(l)
	r.remove(l)

	if got := r.len(); got != 1 {
		t.Errorf("len() = %d after add twice + remove once, want 1", got)
	}

	r.remove(l)
	if got := r.len(); got != 0 {
		t.Errorf("len() = %d, want 0", got)
	}
}

func TestListenerRegistry_RemoveUnknownIsNoop(t *testing.T) {
	var r listenerRegistry
	defer r.close()
	r.add(&countingListener{})

	r.remove(&countingListener{})
	r.remove(nil)
	r.remove(valueListener{fn: func() {}})

	if got := r.len(); got != 1 {
		t.Errorf("len() = %d, want 1", got)
	}
}

func TestListenerRegistry_RemovesMatchingRegistrationOnly(t *testing.T) {
	var r listenerRegistry
	defer r.close()
	a, b, c := &countingListener{}, &countingListener{}, &countingListener{}
	r.add(a)
	r.add(b)
	r.add(c)

	r.remove(b)

	got := r.snapshot()
	if len(got) != 2 || got[0] != LevelListener(a) || got[1] != LevelListener(c) {
		t.Errorf("snapshot() = %v, want [a c]", got)
	}
}

func TestListenerRegistry_SnapshotIsIndependent(t *testing.T) {
	var r listenerRegistry
	defer r.close()
	a := &countingListener{}
	r.add(a)

	snap := r.snapshot()
	r.remove(a)

	if len(snap) != 1 {
		t.Errorf("snapshot changed after remove: %v", snap)
	}
}

func TestListenerRegistry_ConcurrentUse(t *testing.T) {
	var r listenerRegistry
	defer r.close()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l := &countingListener{}
				r.add(l)
				_ = r.snapshot()
				r.remove(l)
			}
		}()
	}
	wg.Wait()

	if got := r.len(); got != 0 {
		t.Errorf("len() = %d after balanced add/remove, want 0", got)
	}
}

// blockingListener parks in its callback until release is closed.
type blockingListener struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingListener() *blockingListener {
	return &blockingListener{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (l *blockingListener) OnLevelChange(*Client, int, float64) {
	select {
	case l.entered <- struct{}{}:
	default:
	}
	<-l.release
}

func TestListenerRegistry_FullQueueDropsForThatListenerOnly(t *testing.T) {
	r := listenerRegistry{queue: 2}
	defer r.close()

	slow := newBlockingListener()
	defer close(slow.release)
	fast, got := newLevelRecorder()
	r.add(slow)
	r.add(fast)

	const events = 10
	for i := 1; i <= events; i++ {
		published := make(chan struct{})
		go func() {
			r.publish(LevelChangeEvent{IntegrationID: i, Level: 50})
			close(published)
		}()
		select {
		case <-published:
		case <-time.After(waitTimeout):
			t.Fatalf("publish of event %d blocked on a full listener", i)
		}

		select {
		case rec := <-got:
			if rec.id != i {
				t.Fatalf("fast listener got id %d, want %d", rec.id, i)
			}
		case <-time.After(waitTimeout):
			t.Fatalf("fast listener starved at event %d", i)
		}
		if i == 1 {
			select {
			case <-slow.entered:
			case <-time.After(waitTimeout):
				t.Fatal("slow listener never received the first event")
			}
		}
	}

	r.mu.RLock()
	slowReg, fastReg := r.regs[0], r.regs[1]
	r.mu.RUnlock()
	// One event is held by the callback and two sit in the queue.
	if got, want := slowReg.dropped.Load(), uint64(events-3); got != want {
		t.Errorf("slow listener dropped %d events, want %d", got, want)
	}
	if got := fastReg.dropped.Load(); got != 0 {
		t.Errorf("fast listener dropped %d events, want 0", got)
	}
}

func TestListenerRegistry_RemoveStopsDelivery(t *testing.T) {
	var r listenerRegistry
	defer r.close()

	l, got := newLevelRecorder()
	r.add(l)
	r.publish(LevelChangeEvent{IntegrationID: 1, Level: 10})
	select {
	case <-got:
	case <-time.After(waitTimeout):
		t.Fatal("listener not notified before removal")
	}

	r.remove(l)
	r.publish(LevelChangeEvent{IntegrationID: 2, Level: 20})
	select {
	case rec := <-got:
		t.Fatalf("removed listener notified: %+v", rec)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListenerRegistry_CloseStopsGoroutines(t *testing.T) {
	var r listenerRegistry
	slow := newBlockingListener()
	r.add(slow)
	r.add(&countingListener{})
	r.publish(LevelChangeEvent{IntegrationID: 1, Level: 10})
	select {
	case <-slow.entered:
	case <-time.After(waitTimeout):
		t.Fatal("slow listener never called")
	}

	r.close()
	r.close()
	close(slow.release)

	done := make(chan struct{})
	go func() {
		r.wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("delivery goroutines did not exit after close")
	}

	r.add(&countingListener{})
	if got := r.len(); got != 0 {
		t.Errorf("len() = %d after close, want 0", got)
	}
}

func TestLevelListenerFunc_Distinct(t *testing.T) {
	fn := func(*Client, int, float64) {}
	a := LevelListenerFunc(fn)
	b := LevelListenerFunc(fn)
	if a == b {
		t.Error("LevelListenerFunc returned equal listeners for separate calls")
	}
}

func TestConnectionCallbacks_NilSafe(t *testing.T) {
	cb := &ConnectionCallbacks{}
	cb.OnStateChanged(nil, StatusConnected)
	cb.OnException(nil, nil)
	if cb.OnLoginPrompt() != "" || cb.OnPasswordPrompt() != "" {
		t.Error("nil credential callbacks should answer empty strings")
	}
}

func TestConnectionStatus_String(t *testing.T) {
	tests := map[ConnectionStatus]string{
		StatusConnected:       "STATUS_CONNECTED",
		StatusDisconnected:    "STATUS_DISCONNECTED",
		StatusConnectFailed:   "STATUS_CONNECT_FAILED",
		StatusBadLogin:        "STATUS_BAD_LOGIN",
		StatusTooManyAttempts: "STATUS_TOO_MANY_ATTEMPTS",
		StatusEOF:             "STATUS_EOF",
		ConnectionStatus(42):  "UNKNOWN_STATUS",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(status), got, want)
		}
	}
}
