package protocol

import (
	"testing"
	"time"
)

func TestDispatcher_PreservesOrder(t *testing.T) {
	d := newDispatcher()
	defer d.close()

	got := make(chan int, 10)
	for i := 0; i < 10; i++ {
		i := i
		if !d.submit(func() { got <- i }) {
			t.Fatal("submit() = false on open dispatcher")
		}
	}

	for want := 0; want < 10; want++ {
		select {
		case i := <-got:
			if i != want {
				t.Fatalf("callback %d ran at position %d", i, want)
			}
		case <-time.After(waitTimeout):
			t.Fatal("timed out waiting for callback")
		}
	}
}

func TestDispatcher_PanicDoesNotKillGoroutine(t *testing.T) {
	d := newDispatcher()
	defer d.close()

	d.submit(func() { panic("listener bug") })

	ran := make(chan struct{})
	d.submit(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(waitTimeout):
		t.Fatal("dispatcher did not survive a panicking callback")
	}
}

func TestDispatcher_SubmitAfterClose(t *testing.T) {
	d := newDispatcher()
	d.close()
	d.close()

	if d.submit(func() {}) {
		t.Error("submit() = true after close")
	}

	done := make(chan struct{})
	go func() {
		d.wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("dispatcher did not exit after close")
	}
}
