package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/lutronctl/internal/protocol"
)

// Event types sent to WebSocket clients.
const (
	EventHello  = "hello"
	EventLevel  = "level"
	EventStatus = "status"
	EventError  = "error"
	EventAck    = "ack"
)

// Event is a message pushed to WebSocket clients.
type Event struct {
	Type    string   `json:"type"`
	Session string   `json:"session,omitempty"`
	ID      int      `json:"id,omitempty"`
	Level   *float64 `json:"level,omitempty"`
	Status  string   `json:"status,omitempty"`
	Command string   `json:"command,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func levelEvent(id int, level float64) Event {
	return Event{Type: EventLevel, ID: id, Level: &level}
}

func statusEvent(status protocol.ConnectionStatus) Event {
	return Event{Type: EventStatus, Status: status.String()}
}

func errorEvent(err error) Event {
	return Event{Type: EventError, Error: err.Error()}
}

// Command is a message received from a WebSocket client.
type Command struct {
	Command string  `json:"command"`
	ID      int     `json:"id"`
	Level   float64 `json:"level,omitempty"`
}

// decodeCommand parses and validates one inbound text message.
func decodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("invalid command message: %w", err)
	}
	// 0 is a valid integration ID, so presence is checked separately.
	var fields struct {
		ID *int `json:"id"`
	}
	_ = json.Unmarshal(data, &fields)
	if cmd.Command == "" {
		return Command{}, fmt.Errorf("missing command")
	}
	if _, ok := commandTable[cmd.Command]; !ok && cmd.Command != "set_level" {
		return Command{}, fmt.Errorf("unknown command %q", cmd.Command)
	}
	if fields.ID == nil {
		return Command{}, fmt.Errorf("missing integration id")
	}
	if cmd.ID < 0 {
		return Command{}, fmt.Errorf("invalid integration id %d", cmd.ID)
	}
	if cmd.Command == "set_level" {
		if _, ok := protocol.EncodeSetLevel(cmd.ID, cmd.Level); !ok {
			return Command{}, fmt.Errorf("level %.2f out of range", cmd.Level)
		}
	}
	return cmd, nil
}

// commandTable maps inbound command names to client operations that take
// only an integration ID.
var commandTable = map[string]func(c *protocol.Client, id int){
	"request_level": (*protocol.Client).RequestLevel,
	"open_curtain":  (*protocol.Client).OpenCurtain,
	"close_curtain": (*protocol.Client).CloseCurtain,
	"stop_curtain":  (*protocol.Client).StopCurtain,
	"raise_shade":   (*protocol.Client).RaiseShade,
	"stop_shade":    (*protocol.Client).StopShade,
	"drop_shade":    (*protocol.Client).DropShade,
	"led_on":        (*protocol.Client).LEDOn,
	"led_off":       (*protocol.Client).LEDOff,
	"led_stop":      (*protocol.Client).LEDStop,
}

// execute runs a validated command on the client.
func execute(c *protocol.Client, cmd Command) {
	if cmd.Command == "set_level" {
		c.SetLevel(cmd.ID, cmd.Level)
		return
	}
	commandTable[cmd.Command](c, cmd.ID)
}
