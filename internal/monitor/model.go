package monitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/lutronctl/internal/protocol"
)

// levelStep is the change applied by the raise and lower keys.
const levelStep = 10.0

// Messages delivered from protocol callbacks through Program.Send.
type (
	// LevelMsg reports an output level broadcast.
	LevelMsg struct {
		ID    int
		Level float64
	}
	// StatusMsg reports a lifecycle status.
	StatusMsg struct {
		Status protocol.ConnectionStatus
	}
	// ErrorMsg reports an exception from the connection.
	ErrorMsg struct {
		Err error
	}
)

// Controller is the subset of *protocol.Client the dashboard drives.
type Controller interface {
	SetLevel(integrationID int, level float64)
	RequestLevel(integrationID int)
	IsConnected() bool
}

// Device is one dashboard row.
type Device struct {
	ID    int
	Name  string
	Type  string
	Level float64
	Known bool // a level has been received
}

// Model is the dashboard state.
type Model struct {
	Devices   []*Device
	Cursor    int
	Status    protocol.ConnectionStatus
	HasStatus bool
	Err       error
	Quitting  bool

	Width  int
	Height int

	ctl     Controller
	addr    string
	namer   func(id int) string
	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a dashboard for addr. devices seeds the rows; outputs
// that broadcast without a row get one named by namer.
func NewModel(ctl Controller, addr string, devices []Device, namer func(id int) string) Model {
	if namer == nil {
		namer = func(id int) string { return fmt.Sprintf("Output %d", id) }
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	rows := make([]*Device, 0, len(devices))
	for i := range devices {
		d := devices[i]
		rows = append(rows, &d)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	return Model{
		Devices: rows,
		ctl:     ctl,
		addr:    addr,
		namer:   namer,
		spinner: s,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(levelBarWidth),
			progress.WithoutPercentage(),
		),
		help: help.New(),
		keys: defaultKeyMap(),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case LevelMsg:
		d := m.device(msg.ID)
		d.Level = msg.Level
		d.Known = true

	case StatusMsg:
		m.Status = msg.Status
		m.HasStatus = true
		if msg.Status == protocol.StatusConnected {
			m.Err = nil
			m.refresh()
		}

	case ErrorMsg:
		m.Err = msg.Err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Devices)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Brighter):
		m.adjust(func(level float64) float64 { return level + levelStep })
	case key.Matches(msg, m.keys.Dimmer):
		m.adjust(func(level float64) float64 { return level - levelStep })
	case key.Matches(msg, m.keys.Full):
		m.adjust(func(float64) float64 { return protocol.MaxLevel })
	case key.Matches(msg, m.keys.Off):
		m.adjust(func(float64) float64 { return protocol.MinLevel })
	case key.Matches(msg, m.keys.Refresh):
		if m.requireConnection() {
			m.refresh()
		}
	}
	return m, nil
}

// adjust sends a new level for the selected row. The row itself changes
// only when the bridge broadcasts the result.
func (m *Model) adjust(next func(level float64) float64) {
	if len(m.Devices) == 0 || !m.requireConnection() {
		return
	}
	d := m.Devices[m.Cursor]
	level := next(d.Level)
	if level < protocol.MinLevel {
		level = protocol.MinLevel
	}
	if level > protocol.MaxLevel {
		level = protocol.MaxLevel
	}
	m.ctl.SetLevel(d.ID, level)
}

func (m *Model) requireConnection() bool {
	if m.ctl.IsConnected() {
		return true
	}
	m.Err = protocol.ErrNotConnected
	return false
}

// refresh asks the bridge for the level of every row.
func (m *Model) refresh() {
	for _, d := range m.Devices {
		m.ctl.RequestLevel(d.ID)
	}
}

// device returns the row for id, inserting one in order when missing.
func (m *Model) device(id int) *Device {
	i := sort.Search(len(m.Devices), func(i int) bool { return m.Devices[i].ID >= id })
	if i < len(m.Devices) && m.Devices[i].ID == id {
		return m.Devices[i]
	}

	d := &Device{ID: id, Name: m.namer(id)}
	m.Devices = append(m.Devices, nil)
	copy(m.Devices[i+1:], m.Devices[i:])
	m.Devices[i] = d
	if i <= m.Cursor && len(m.Devices) > 1 {
		m.Cursor++
	}
	return d
}

// View renders the dashboard
func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(AppName))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s • %s", m.addr, AppVersion())))
	b.WriteString("\n\n")
	b.WriteString("  " + m.statusLine())
	b.WriteString("\n\n")

	if len(m.Devices) == 0 {
		b.WriteString(MutedStyle.PaddingLeft(4).Render("No outputs yet. Levels appear here as the bridge reports them."))
	} else {
		rows := make([]string, len(m.Devices))
		for i, d := range m.Devices {
			rows[i] = m.renderRow(d, i == m.Cursor)
		}
		b.WriteString(strings.Join(rows, "\n"))
	}
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorLineStyle.Render("✗ " + m.Err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	if !m.HasStatus {
		return m.spinner.View() + " " + MutedStyle.Render("Connecting...")
	}
	switch m.Status {
	case protocol.StatusConnected:
		return ConnectedStyle.Render("● " + m.Status.String())
	case protocol.StatusBadLogin, protocol.StatusTooManyAttempts, protocol.StatusConnectFailed:
		return FailedStyle.Render("✗ " + m.Status.String())
	default:
		return m.spinner.View() + " " + DisconnectedStyle.Render(m.Status.String())
	}
}

func (m Model) renderRow(d *Device, selected bool) string {
	name := d.Name
	if r := []rune(name); lipgloss.Width(name) > nameColumnWidth && len(r) >= nameColumnWidth {
		name = string(r[:nameColumnWidth-1]) + "…"
	}
	name = fmt.Sprintf("%-*s %5s", nameColumnWidth, name, fmt.Sprintf("[%d]", d.ID))

	level := MutedStyle.Render("   ?")
	bar := m.bar.ViewAs(0)
	if d.Known {
		level = fmt.Sprintf("%3.0f%%", d.Level)
		bar = m.bar.ViewAs(d.Level / 100)
	}

	line := fmt.Sprintf("%s  %s  %s", name, bar, level)
	if selected {
		return SelectedRowStyle.Render("→ " + line)
	}
	return RowStyle.Render(line)
}
