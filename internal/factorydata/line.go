package factorydata

import "strings"

// Limits inherited from the board tool's fixed 128-byte buffers.
const (
	// MaxValueLength is the largest value Get returns. Longer first lines
	// are truncated.
	MaxValueLength = 127

	// MaxCommandLength is the largest "arc-board set <key> <value>" command
	// Set will issue. It is measured against DefaultTool, so a tool configured
	// by path accepts the same values.
	MaxCommandLength = 127
)

// firstLine returns the logical first line of out: everything before the
// first CR, LF or NUL, capped at MaxValueLength bytes.
func firstLine(out string) string {
	if i := strings.IndexAny(out, "\r\n\x00"); i >= 0 {
		out = out[:i]
	}
	if len(out) > MaxValueLength {
		out = out[:MaxValueLength]
	}
	return out
}

// setCommandLength returns the length of "arc-board set <key> <value>".
func setCommandLength(key string, value []byte) int {
	return len(DefaultTool) + len(" ") + len(cmdSet) + len(" ") + len(key) + len(" ") + len(value)
}
