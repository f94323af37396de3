package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/lutronctl/internal/protocol"
)

// Registry represents the entire user configuration file.
// It stores the bridge address, names for integration IDs and preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Bridge      *Bridge            `yaml:"bridge,omitempty"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by integration ID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Bridge is the integration endpoint to connect to.
type Bridge struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	// Password is NEVER stored in config file for security reasons
}

// Device is user-defined metadata for one integration ID.
type Device struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"` // One of DeviceTypeDefinitions
	Area string `yaml:"area,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	CloseOnAuthFailure bool `yaml:"close_on_auth_failure"`
	ListenerQueue      int  `yaml:"listener_queue,omitempty"`       // Level events buffered per listener
	ReadTimeoutSeconds int  `yaml:"read_timeout_seconds,omitempty"` // 0 = block forever
	DiscoverTimeout    int  `yaml:"discover_timeout"`               // mDNS discovery timeout in seconds
}

// DeviceTypeDefinitions maps device type identifiers to human-readable names.
var DeviceTypeDefinitions = map[string]string{
	"dimmer":  "Dimmer",
	"switch":  "Switch",
	"shade":   "Shade",
	"curtain": "Curtain",
	"led":     "Keypad LED",
}

// DeviceTypeIcons maps device type identifiers to display icons.
var DeviceTypeIcons = map[string]string{
	"dimmer":  "💡",
	"switch":  "🔌",
	"shade":   "🪟",
	"curtain": "🎭",
	"led":     "🔴",
}

const defaultUsername = "lutron"

func defaultPreferences() *Preferences {
	return &Preferences{
		CloseOnAuthFailure: false,
		ListenerQueue:      protocol.DefaultListenerQueue,
		DiscoverTimeout:    5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Bridge: &Bridge{
			Port:     protocol.DefaultPort,
			Username: defaultUsername,
		},
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// GetDevice returns the metadata for an integration ID, or nil.
func (r *Registry) GetDevice(id int) *Device {
	return r.Devices[strconv.Itoa(id)]
}

// DeviceName returns the configured name for an integration ID, falling
// back to "Output <id>".
func (r *Registry) DeviceName(id int) string {
	if d := r.GetDevice(id); d != nil && d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("Output %d", id)
}

// FindDevice returns the integration ID whose configured name matches
// name, ignoring case.
func (r *Registry) FindDevice(name string) (int, bool) {
	for _, id := range r.DeviceIDs() {
		if d := r.GetDevice(id); d != nil && strings.EqualFold(d.Name, name) {
			return id, true
		}
	}
	return 0, false
}

// SetDevice sets or replaces the metadata for an integration ID.
func (r *Registry) SetDevice(id int, name, typ, area string) error {
	if typ != "" {
		if _, ok := DeviceTypeDefinitions[typ]; !ok {
			return fmt.Errorf("unknown device type %q", typ)
		}
	}
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	r.Devices[strconv.Itoa(id)] = &Device{Name: name, Type: typ, Area: area}
	return nil
}

// RemoveDevice deletes the metadata for an integration ID.
func (r *Registry) RemoveDevice(id int) {
	delete(r.Devices, strconv.Itoa(id))
}

// DeviceIDs returns the configured integration IDs in ascending order.
// Keys that are not integers are skipped.
func (r *Registry) DeviceIDs() []int {
	ids := make([]int, 0, len(r.Devices))
	for key := range r.Devices {
		if id, err := strconv.Atoi(key); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// ClientOptions maps the preferences onto protocol client options.
func (r *Registry) ClientOptions() protocol.Options {
	opts := protocol.DefaultOptions()
	if p := r.Preferences; p != nil {
		opts.CloseOnAuthFailure = p.CloseOnAuthFailure
		if p.ListenerQueue > 0 {
			opts.ListenerQueue = p.ListenerQueue
		}
		if p.ReadTimeoutSeconds > 0 {
			opts.ReadTimeout = time.Duration(p.ReadTimeoutSeconds) * time.Second
		}
	}
	return opts
}

// DiscoverTimeout returns the mDNS discovery timeout.
func (r *Registry) DiscoverTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.DiscoverTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}
