package shell

import (
	"errors"
	"strings"
	"testing"
)

func resolveNames(name string) (int, bool) {
	ids := map[string]int{"kitchen": 12, "porch": 31}
	id, ok := ids[strings.ToLower(name)]
	return id, ok
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     Command
		wantWire string
		wantErr  string
	}{
		{name: "set by id", line: "set 12 75", want: Command{Kind: KindSetLevel, ID: 12, Level: 75}, wantWire: "#OUTPUT,12,1,75.00"},
		{name: "set with percent", line: "set 12 45.5%", want: Command{Kind: KindSetLevel, ID: 12, Level: 45.5}, wantWire: "#OUTPUT,12,1,45.50"},
		{name: "set by name", line: "SET Kitchen 0", want: Command{Kind: KindSetLevel, ID: 12, Level: 0}, wantWire: "#OUTPUT,12,1,0.00"},
		{name: "get", line: "get porch", want: Command{Kind: KindRequestLevel, ID: 31}, wantWire: "?output,31,1"},
		{name: "curtain open", line: "curtain open 5", want: Command{Kind: KindOpenCurtain, ID: 5}, wantWire: "#OUTPUT,5,3"},
		{name: "curtain close", line: "curtain close 5", want: Command{Kind: KindCloseCurtain, ID: 5}, wantWire: "#OUTPUT,5,2"},
		{name: "curtain stop", line: "curtain stop 5", want: Command{Kind: KindStopCurtain, ID: 5}, wantWire: "#OUTPUT,5,4"},
		{name: "shade raise", line: "shade raise 7", want: Command{Kind: KindRaiseShade, ID: 7}, wantWire: "#OUTPUT,7,2"},
		{name: "shade drop", line: "shade DROP 7", want: Command{Kind: KindDropShade, ID: 7}, wantWire: "#OUTPUT,7,3"},
		{name: "led on", line: "led on 9", want: Command{Kind: KindLEDOn, ID: 9}, wantWire: "#OUTPUT,9,1,100"},
		{name: "led off", line: "led off 9", want: Command{Kind: KindLEDOff, ID: 9}, wantWire: "#OUTPUT,9,1,0"},
		{name: "status", line: "status", want: Command{Kind: KindStatus}},
		{name: "help alias", line: "?", want: Command{Kind: KindHelp}},
		{name: "exit", line: "  exit  ", want: Command{Kind: KindQuit}},

		{name: "blank", line: "   ", wantErr: ErrEmptyCommand.Error()},
		{name: "level too high", line: "set 12 101", wantErr: "out of range"},
		{name: "level negative", line: "set 12 -1", wantErr: "out of range"},
		{name: "level not a number", line: "set 12 bright", wantErr: "invalid level"},
		{name: "set missing level", line: "set 12", wantErr: "usage: set"},
		{name: "zero id", line: "get 0", wantErr: "invalid integration id"},
		{name: "unknown name", line: "get garage", wantErr: "unknown device"},
		{name: "unknown verb", line: "dance 12", wantErr: "unknown command"},
		{name: "unknown action", line: "shade open 7", wantErr: "unknown shade action"},
		{name: "action missing target", line: "led on", wantErr: "usage: led"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line, resolveNames)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseCommand(%q) error = %v, want containing %q", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
			if wire := got.Wire(); wire != tt.wantWire {
				t.Errorf("Wire() = %q, want %q", wire, tt.wantWire)
			}
			if got.IsLocal() != (tt.wantWire == "") {
				t.Errorf("IsLocal() = %v for %+v", got.IsLocal(), got)
			}
		})
	}
}

func TestParseCommandWithoutResolver(t *testing.T) {
	if _, err := ParseCommand("get kitchen", nil); err == nil {
		t.Error("names should not resolve without a resolver")
	}
	if _, err := ParseCommand("get 12", nil); err != nil {
		t.Errorf("numeric targets should not need a resolver: %v", err)
	}
}

func TestParseCommandEmpty(t *testing.T) {
	_, err := ParseCommand("", nil)
	if !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("ParseCommand(\"\") error = %v, want ErrEmptyCommand", err)
	}
}
