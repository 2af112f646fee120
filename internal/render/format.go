package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Progress bar markers.
const (
	FilledMarker   = "#"
	UnfilledMarker = "."
)

// DefaultProgressWidth is the number of markers in a progress bar.
const DefaultProgressWidth = 40

// FormatDuration formats milliseconds as minutes:seconds.
// Hours are folded into the minutes.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ProgressBar builds a fixed-width bar of filled and unfilled markers.
// The filled portion is clamped to the bar width.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(FilledMarker, filled) + strings.Repeat(UnfilledMarker, width-filled)
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Percent formats a progress value as a whole percentage, truncating.
func Percent(progress float64) string {
	return fmt.Sprintf("%d%%", int(progress))
}
