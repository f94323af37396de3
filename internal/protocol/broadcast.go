package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BroadcastPrefix is the anchor token of an output level broadcast.
const BroadcastPrefix = "~OUTPUT,"

// broadcastPattern matches "~OUTPUT,<id>,1,<level>" where level always has
// two decimal places. It is matched anywhere in a line because the bridge
// prefixes lines with its "GNET> " prompt.
var broadcastPattern = regexp.MustCompile(`~OUTPUT,\d+,1,\d+\.\d\d`)

// LevelChangeEvent is a decoded output level broadcast.
type LevelChangeEvent struct {
	IntegrationID int
	Level         float64 // Percent, 0-100
}

// String returns a human-readable form of the event.
func (e LevelChangeEvent) String() string {
	return fmt.Sprintf("LevelChange{id=%d, level=%.2f}", e.IntegrationID, e.Level)
}

// ParseBroadcast looks for an output level broadcast in line.
// Lines without a broadcast, and broadcasts whose numbers do not fit, return
// false; neither is an error.
func ParseBroadcast(line string) (LevelChangeEvent, bool) {
	loc := broadcastPattern.FindStringIndex(line)
	if loc == nil {
		return LevelChangeEvent{}, false
	}

	fields := strings.Split(line[loc[0]+len(BroadcastPrefix):loc[1]], ",")
	if len(fields) < 3 {
		return LevelChangeEvent{}, false
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return LevelChangeEvent{}, false
	}
	level, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return LevelChangeEvent{}, false
	}

	return LevelChangeEvent{IntegrationID: id, Level: level}, true
}
