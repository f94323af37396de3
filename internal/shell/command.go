package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/lutronctl/internal/protocol"
)

// Kind identifies what a parsed command does.
type Kind int

const (
	KindSetLevel Kind = iota
	KindRequestLevel
	KindOpenCurtain
	KindCloseCurtain
	KindStopCurtain
	KindRaiseShade
	KindStopShade
	KindDropShade
	KindLEDOn
	KindLEDOff
	KindLEDStop
	KindStatus
	KindHelp
	KindQuit
)

// ErrEmptyCommand is returned for blank input.
var ErrEmptyCommand = errors.New("empty command")

// Resolver maps a device name to its integration ID.
type Resolver func(name string) (int, bool)

// Command is one parsed shell line.
type Command struct {
	Kind  Kind
	ID    int
	Level float64
}

// subcommands maps "<verb> <action>" pairs to kinds.
var subcommands = map[string]map[string]Kind{
	"curtain": {"open": KindOpenCurtain, "close": KindCloseCurtain, "stop": KindStopCurtain},
	"shade":   {"raise": KindRaiseShade, "stop": KindStopShade, "drop": KindDropShade},
	"led":     {"on": KindLEDOn, "off": KindLEDOff, "stop": KindLEDStop},
}

// ParseCommand parses one line of shell input. Targets may be integration
// IDs or, when resolve is non-nil, configured device names.
//
//	set <target> <level>
//	get <target>
//	curtain open|close|stop <target>
//	shade raise|stop|drop <target>
//	led on|off|stop <target>
//	status | help | quit
func ParseCommand(line string, resolve Resolver) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "help", "?":
		return Command{Kind: KindHelp}, nil
	case "quit", "exit":
		return Command{Kind: KindQuit}, nil
	case "status":
		return Command{Kind: KindStatus}, nil

	case "set":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: set <target> <level>")
		}
		id, err := parseTarget(args[0], resolve)
		if err != nil {
			return Command{}, err
		}
		level, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid level %q", args[1])
		}
		if _, ok := protocol.EncodeSetLevel(id, level); !ok {
			return Command{}, fmt.Errorf("level %s out of range 0-100", args[1])
		}
		return Command{Kind: KindSetLevel, ID: id, Level: level}, nil

	case "get":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: get <target>")
		}
		id, err := parseTarget(args[0], resolve)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindRequestLevel, ID: id}, nil
	}

	actions, ok := subcommands[verb]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	if len(args) != 2 {
		return Command{}, fmt.Errorf("usage: %s %s <target>", verb, actionList(verb))
	}
	kind, ok := actions[strings.ToLower(args[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown %s action %q, want %s", verb, args[0], actionList(verb))
	}
	id, err := parseTarget(args[1], resolve)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, ID: id}, nil
}

func actionList(verb string) string {
	switch verb {
	case "curtain":
		return "open|close|stop"
	case "shade":
		return "raise|stop|drop"
	default:
		return "on|off|stop"
	}
}

func parseTarget(s string, resolve Resolver) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid integration id %d", id)
		}
		return id, nil
	}
	if resolve != nil {
		if id, ok := resolve(s); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown device %q", s)
}

// Wire returns the protocol line the command sends, or "" for local commands.
func (c Command) Wire() string {
	switch c.Kind {
	case KindSetLevel:
		line, _ := protocol.EncodeSetLevel(c.ID, c.Level)
		return line
	case KindRequestLevel:
		return protocol.EncodeRequestLevel(c.ID)
	case KindOpenCurtain:
		return protocol.EncodeOpenCurtain(c.ID)
	case KindCloseCurtain:
		return protocol.EncodeCloseCurtain(c.ID)
	case KindStopCurtain:
		return protocol.EncodeStopCurtain(c.ID)
	case KindRaiseShade:
		return protocol.EncodeRaiseShade(c.ID)
	case KindStopShade:
		return protocol.EncodeStopShade(c.ID)
	case KindDropShade:
		return protocol.EncodeDropShade(c.ID)
	case KindLEDOn:
		return protocol.EncodeLEDOn(c.ID)
	case KindLEDOff:
		return protocol.EncodeLEDOff(c.ID)
	case KindLEDStop:
		return protocol.EncodeLEDStop(c.ID)
	}
	return ""
}

// Controller is the subset of *protocol.Client the shell drives.
type Controller interface {
	SetLevel(integrationID int, level float64)
	RequestLevel(integrationID int)
	OpenCurtain(integrationID int)
	CloseCurtain(integrationID int)
	StopCurtain(integrationID int)
	RaiseShade(integrationID int)
	StopShade(integrationID int)
	DropShade(integrationID int)
	LEDOn(integrationID int)
	LEDOff(integrationID int)
	LEDStop(integrationID int)
	IsConnected() bool
	Status() (protocol.ConnectionStatus, bool)
}

// Execute sends the command through c. Local commands are ignored.
func (c Command) Execute(ctl Controller) {
	switch c.Kind {
	case KindSetLevel:
		ctl.SetLevel(c.ID, c.Level)
	case KindRequestLevel:
		ctl.RequestLevel(c.ID)
	case KindOpenCurtain:
		ctl.OpenCurtain(c.ID)
	case KindCloseCurtain:
		ctl.CloseCurtain(c.ID)
	case KindStopCurtain:
		ctl.StopCurtain(c.ID)
	case KindRaiseShade:
		ctl.RaiseShade(c.ID)
	case KindStopShade:
		ctl.StopShade(c.ID)
	case KindDropShade:
		ctl.DropShade(c.ID)
	case KindLEDOn:
		ctl.LEDOn(c.ID)
	case KindLEDOff:
		ctl.LEDOff(c.ID)
	case KindLEDStop:
		ctl.LEDStop(c.ID)
	}
}

// IsLocal reports whether the command is handled by the shell itself.
func (c Command) IsLocal() bool {
	return c.Kind == KindStatus || c.Kind == KindHelp || c.Kind == KindQuit
}
