package protocol

import (
	"bytes"
)

// LineAccumulator collects the incoming byte stream. Prompts arrive without a
// line terminator and broadcasts with one, so callers check suffixes after
// every byte and pull the last line when a '\n' arrives.
//
// The buffer grows without bound; the read loop resets it whenever a
// broadcast is decoded.
type LineAccumulator struct {
	buf bytes.Buffer
}

// Append adds one byte to the buffer.
func (a *LineAccumulator) Append(b byte) {
	a.buf.WriteByte(b)
}

// HasSuffix reports whether the accumulated text ends with s.
func (a *LineAccumulator) HasSuffix(s string) bool {
	return bytes.HasSuffix(a.buf.Bytes(), []byte(s))
}

// LastLine returns the most recent line. Trailing newlines are ignored, so
// after "a\nb\n" the last line is "b". A carriage return before the newline
// is kept; the broadcast grammar does not depend on it. Only the last line is
// copied.
func (a *LineAccumulator) LastLine() string {
	buf := a.buf.Bytes()
	end := len(buf)
	for end > 0 && buf[end-1] == '\n' {
		end--
	}
	start := bytes.LastIndexByte(buf[:end], '\n') + 1
	return string(buf[start:end])
}

// Len returns the number of buffered bytes.
func (a *LineAccumulator) Len() int {
	return a.buf.Len()
}

// Reset empties the buffer.
func (a *LineAccumulator) Reset() {
	a.buf.Reset()
}

// String returns the whole buffer.
func (a *LineAccumulator) String() string {
	return a.buf.String()
}
