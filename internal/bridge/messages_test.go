package bridge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/muurk/lutronctl/internal/protocol"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr string
	}{
		{
			name:  "set level",
			input: `{"command":"set_level","id":12,"level":50}`,
			want:  Command{Command: "set_level", ID: 12, Level: 50},
		},
		{
			name:  "id-only command",
			input: `{"command":"open_curtain","id":40}`,
			want:  Command{Command: "open_curtain", ID: 40},
		},
		{
			name:    "malformed json",
			input:   `{"command":`,
			wantErr: "invalid command message",
		},
		{
			name:    "missing command",
			input:   `{"id":12}`,
			wantErr: "missing command",
		},
		{
			name:    "unknown command",
			input:   `{"command":"dance","id":12}`,
			wantErr: "unknown command",
		},
		{
			name:  "integration id zero",
			input: `{"command":"led_on","id":0}`,
			want:  Command{Command: "led_on", ID: 0},
		},
		{
			name:    "missing id",
			input:   `{"command":"led_on"}`,
			wantErr: "missing integration id",
		},
		{
			name:    "negative id",
			input:   `{"command":"led_off","id":-3}`,
			wantErr: "invalid integration id",
		},
		{
			name:    "level above range",
			input:   `{"command":"set_level","id":12,"level":100.5}`,
			wantErr: "out of range",
		},
		{
			name:    "negative level",
			input:   `{"command":"set_level","id":12,"level":-1}`,
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCommand([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("decodeCommand() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeCommand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeCommand() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandTableCoversClientCommands(t *testing.T) {
	for _, name := range []string{
		"request_level", "open_curtain", "close_curtain", "stop_curtain",
		"raise_shade", "stop_shade", "drop_shade", "led_on", "led_off", "led_stop",
	} {
		if _, ok := commandTable[name]; !ok {
			t.Errorf("commandTable missing %q", name)
		}
	}
}

func TestEventJSON(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"level", levelEvent(12, 45.5), `{"type":"level","id":12,"level":45.5}`},
		{"zero level is kept", levelEvent(12, 0), `{"type":"level","id":12,"level":0}`},
		{"status", statusEvent(protocol.StatusEOF), `{"type":"status","status":"STATUS_EOF"}`},
		{"error", errorEvent(protocol.ErrNotConnected), `{"type":"error","error":"` + protocol.ErrNotConnected.Error() + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}
