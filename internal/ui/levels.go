package ui

import (
	"fmt"
	"math"
	"strings"
)

// FormatLevel formats a level in percent, dropping the fraction when whole.
func FormatLevel(level float64) string {
	if level == math.Trunc(level) {
		return fmt.Sprintf("%.0f%%", level)
	}
	return fmt.Sprintf("%.2f%%", level)
}

// RenderLevelBar renders level (0-100) as a bar of width cells.
// Levels outside the range are clamped.
func RenderLevelBar(level float64, width int) string {
	if width <= 0 {
		width = LevelBarWidth
	}
	filled := int(math.Round(clampLevel(level) / 100 * float64(width)))
	return LevelFullStyle.Render(strings.Repeat("█", filled)) +
		LevelEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func clampLevel(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > 100:
		return 100
	default:
		return level
	}
}
