package core

import "time"

// Fallback values used when the server omits a field.
const (
	UnknownTrack  = "Unknown Track"
	UnknownAlbum  = "Unknown Album"
	UnknownArtist = "Unknown Artist"
	UnknownDevice = "Unknown Device"
	UnknownStatus = "unknown"
)

// Track represents one media item playing on a device.
type Track struct {
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Album     string  `json:"album"`
	Duration  int64   `json:"duration_ms"`
	Progress  float64 `json:"progress"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// DurationValue returns the track length as a time.Duration.
func (t Track) DurationValue() time.Duration {
	return time.Duration(t.Duration) * time.Millisecond
}

// Key identifies a track for change detection.
func (t Track) Key() string {
	return t.Artist + "\x00" + t.Album + "\x00" + t.Title
}

// ProgressPercent returns playback progress as a percentage.
// Offsets past the end are not clamped.
func ProgressPercent(offsetMs, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(offsetMs) / float64(durationMs) * 100
}
