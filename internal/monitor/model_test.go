package monitor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/lutronctl/internal/protocol"
)

type fakeController struct {
	mu        sync.Mutex
	connected bool
	calls     []string
}

func (f *fakeController) SetLevel(id int, level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("SetLevel(%d,%.0f)", id, level))
}

func (f *fakeController) RequestLevel(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("RequestLevel(%d)", id))
}

func (f *fakeController) IsConnected() bool { return f.connected }

func newTestModel(ctl *fakeController) Model {
	return NewModel(ctl, "192.168.1.50:23", []Device{
		{ID: 31, Name: "Living Room Shade", Type: "shade"},
		{ID: 12, Name: "Kitchen", Type: "dimmer"},
	}, nil)
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelSortsDevices(t *testing.T) {
	m := newTestModel(&fakeController{})
	if m.Devices[0].ID != 12 || m.Devices[1].ID != 31 {
		t.Errorf("devices not sorted: %d, %d", m.Devices[0].ID, m.Devices[1].ID)
	}
}

func TestLevelMsg(t *testing.T) {
	m := newTestModel(&fakeController{})
	m = update(t, m, LevelMsg{ID: 12, Level: 45.5})

	d := m.Devices[0]
	if !d.Known || d.Level != 45.5 {
		t.Errorf("Kitchen = %+v, want known level 45.5", d)
	}

	// Unknown outputs get a row in id order
	m = update(t, m, LevelMsg{ID: 20, Level: 100})
	if len(m.Devices) != 3 || m.Devices[1].ID != 20 || m.Devices[1].Name != "Output 20" {
		t.Fatalf("devices after new broadcast = %+v", m.Devices)
	}
}

func TestInsertKeepsSelection(t *testing.T) {
	m := newTestModel(&fakeController{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Devices[m.Cursor].ID != 31 {
		t.Fatalf("cursor on %d, want 31", m.Devices[m.Cursor].ID)
	}

	m = update(t, m, LevelMsg{ID: 5, Level: 10})
	if m.Devices[m.Cursor].ID != 31 {
		t.Errorf("cursor moved to %d after insert, want 31", m.Devices[m.Cursor].ID)
	}
}

func TestStatusConnectedRefreshes(t *testing.T) {
	ctl := &fakeController{connected: true}
	m := newTestModel(ctl)
	m.Err = errors.New("stale")

	m = update(t, m, StatusMsg{Status: protocol.StatusConnected})
	if !m.HasStatus || m.Status != protocol.StatusConnected {
		t.Errorf("status = %v (%v)", m.Status, m.HasStatus)
	}
	if m.Err != nil {
		t.Errorf("Err = %v, want cleared on connect", m.Err)
	}
	if got := strings.Join(ctl.calls, " "); got != "RequestLevel(12) RequestLevel(31)" {
		t.Errorf("calls = %q", got)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name      string
		level     float64
		known     bool
		keys      []tea.Msg
		wantCalls string
	}{
		{"raise", 45, true, []tea.Msg{keyRunes("+")}, "SetLevel(12,55)"},
		{"raise clamps", 95, true, []tea.Msg{keyRunes("+")}, "SetLevel(12,100)"},
		{"lower clamps", 5, true, []tea.Msg{keyRunes("-")}, "SetLevel(12,0)"},
		{"lower unknown", 0, false, []tea.Msg{keyRunes("-")}, "SetLevel(12,0)"},
		{"full", 20, true, []tea.Msg{keyRunes("f")}, "SetLevel(12,100)"},
		{"off", 20, true, []tea.Msg{keyRunes("0")}, "SetLevel(12,0)"},
		{"second row", 0, false, []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, keyRunes("f")}, "SetLevel(31,100)"},
		{"refresh", 0, false, []tea.Msg{keyRunes("r")}, "RequestLevel(12) RequestLevel(31)"},
		{"up at top", 0, false, []tea.Msg{tea.KeyMsg{Type: tea.KeyUp}, keyRunes("f")}, "SetLevel(12,100)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := &fakeController{connected: true}
			m := newTestModel(ctl)
			m.Devices[0].Level = tt.level
			m.Devices[0].Known = tt.known

			m = update(t, m, tt.keys...)
			if got := strings.Join(ctl.calls, " "); got != tt.wantCalls {
				t.Errorf("calls = %q, want %q", got, tt.wantCalls)
			}
		})
	}
}

func TestKeysWhileDisconnected(t *testing.T) {
	ctl := &fakeController{}
	m := newTestModel(ctl)
	m = update(t, m, keyRunes("f"))

	if len(ctl.calls) != 0 {
		t.Errorf("calls = %v, want none", ctl.calls)
	}
	if !errors.Is(m.Err, protocol.ErrNotConnected) {
		t.Errorf("Err = %v, want ErrNotConnected", m.Err)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(&fakeController{})
	updated, cmd := m.Update(keyRunes("q"))
	if !updated.(Model).Quitting {
		t.Error("Quitting should be set")
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if updated.(Model).View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(&fakeController{})
	view := m.View()
	for _, want := range []string{AppName, "192.168.1.50:23", "Connecting...", "Kitchen", "[12]", "?"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = update(t, m,
		StatusMsg{Status: protocol.StatusBadLogin},
		LevelMsg{ID: 12, Level: 75},
		ErrorMsg{Err: errors.New("connection reset")},
	)
	view = m.View()
	for _, want := range []string{"STATUS_BAD_LOGIN", "75%", "connection reset"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestForwarder(t *testing.T) {
	sender := &recordingSender{}
	f := NewForwarder(sender, "lutron", "integration")

	f.OnStateChanged(nil, protocol.StatusConnected)
	f.OnLevelChange(nil, 12, 50)
	f.OnException(nil, protocol.ErrNotConnected)

	if len(sender.msgs) != 3 {
		t.Fatalf("sent %d messages, want 3", len(sender.msgs))
	}
	if msg, ok := sender.msgs[0].(StatusMsg); !ok || msg.Status != protocol.StatusConnected {
		t.Errorf("msgs[0] = %#v", sender.msgs[0])
	}
	if msg, ok := sender.msgs[1].(LevelMsg); !ok || msg.ID != 12 || msg.Level != 50 {
		t.Errorf("msgs[1] = %#v", sender.msgs[1])
	}
	if msg, ok := sender.msgs[2].(ErrorMsg); !ok || !errors.Is(msg.Err, protocol.ErrNotConnected) {
		t.Errorf("msgs[2] = %#v", sender.msgs[2])
	}
	if f.OnLoginPrompt() != "lutron" || f.OnPasswordPrompt() != "integration" {
		t.Error("credentials not answered")
	}
}
