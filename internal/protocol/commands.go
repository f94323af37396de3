package protocol

import (
	"math"
	"strconv"
)

// LineTerminator ends every line written to the bridge.
const LineTerminator = "\r\n"

// Output action numbers used in "#OUTPUT,<id>,<action>" commands.
const (
	ActionSetLevel      = 1
	ActionStartRaising  = 2
	ActionStartLowering = 3
	ActionStop          = 4
)

// Level bounds accepted by EncodeSetLevel.
const (
	MinLevel = 0.0
	MaxLevel = 100.0
)

// EncodeSetLevel formats "#OUTPUT,<id>,1,<level>". It returns false when the
// level is outside 0-100 (or NaN), in which case nothing should be sent.
func EncodeSetLevel(integrationID int, level float64) (string, bool) {
	if math.IsNaN(level) || level < MinLevel || level > MaxLevel {
		return "", false
	}
	return outputCommand(integrationID, ActionSetLevel) + "," + strconv.FormatFloat(level, 'f', 2, 64), true
}

// EncodeRequestLevel formats the "?output,<id>,1" level query. The answer
// arrives later as a broadcast.
func EncodeRequestLevel(integrationID int) string {
	return "?output," + strconv.Itoa(integrationID) + ",1"
}

// EncodeOpenCurtain formats "#OUTPUT,<id>,3".
func EncodeOpenCurtain(integrationID int) string {
	return outputCommand(integrationID, ActionStartLowering)
}

// EncodeStopCurtain formats "#OUTPUT,<id>,4".
func EncodeStopCurtain(integrationID int) string {
	return outputCommand(integrationID, ActionStop)
}

// EncodeCloseCurtain formats "#OUTPUT,<id>,2".
func EncodeCloseCurtain(integrationID int) string {
	return outputCommand(integrationID, ActionStartRaising)
}

// EncodeRaiseShade formats "#OUTPUT,<id>,2".
func EncodeRaiseShade(integrationID int) string {
	return outputCommand(integrationID, ActionStartRaising)
}

// EncodeStopShade formats "#OUTPUT,<id>,4".
func EncodeStopShade(integrationID int) string {
	return outputCommand(integrationID, ActionStop)
}

// EncodeDropShade formats "#OUTPUT,<id>,3".
func EncodeDropShade(integrationID int) string {
	return outputCommand(integrationID, ActionStartLowering)
}

// EncodeLEDOn formats "#OUTPUT,<id>,1,100".
func EncodeLEDOn(integrationID int) string {
	return outputCommand(integrationID, ActionSetLevel) + ",100"
}

// EncodeLEDOff formats "#OUTPUT,<id>,1,0".
func EncodeLEDOff(integrationID int) string {
	return outputCommand(integrationID, ActionSetLevel) + ",0"
}

// EncodeLEDStop is identical to EncodeLEDOff.
func EncodeLEDStop(integrationID int) string {
	return EncodeLEDOff(integrationID)
}

func outputCommand(integrationID, action int) string {
	return "#OUTPUT," + strconv.Itoa(integrationID) + "," + strconv.Itoa(action)
}

// Command methods on Client. All of them are fire-and-forget: failures are
// delivered to the exception channel, never returned.

// SetLevel sets an output to level percent. Out-of-range levels are ignored.
func (c *Client) SetLevel(integrationID int, level float64) {
	if line, ok := EncodeSetLevel(integrationID, level); ok {
		c.sendMessage(line)
	}
}

// RequestLevel asks the bridge to broadcast the current level of an output.
// Register a LevelListener to receive the answer.
func (c *Client) RequestLevel(integrationID int) {
	c.sendMessage(EncodeRequestLevel(integrationID))
}

func (c *Client) OpenCurtain(integrationID int)  { c.sendMessage(EncodeOpenCurtain(integrationID)) }
func (c *Client) StopCurtain(integrationID int)  { c.sendMessage(EncodeStopCurtain(integrationID)) }
func (c *Client) CloseCurtain(integrationID int) { c.sendMessage(EncodeCloseCurtain(integrationID)) }
func (c *Client) RaiseShade(integrationID int)   { c.sendMessage(EncodeRaiseShade(integrationID)) }
func (c *Client) StopShade(integrationID int)    { c.sendMessage(EncodeStopShade(integrationID)) }
func (c *Client) DropShade(integrationID int)    { c.sendMessage(EncodeDropShade(integrationID)) }
func (c *Client) LEDOn(integrationID int)        { c.sendMessage(EncodeLEDOn(integrationID)) }
func (c *Client) LEDOff(integrationID int)       { c.sendMessage(EncodeLEDOff(integrationID)) }
func (c *Client) LEDStop(integrationID int)      { c.sendMessage(EncodeLEDStop(integrationID)) }
