package core

import "strings"

// Playback states reported by the server.
const (
	StatePlaying   = "playing"
	StatePaused    = "paused"
	StateBuffering = "buffering"
	StateStopped   = "stopped"
)

// Device represents a playback client and the tracks it is playing.
type Device struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Tracks []Track `json:"tracks"`
}

// IsPlaying returns true if the device reports the playing state.
func (d *Device) IsPlaying() bool {
	return d != nil && strings.EqualFold(d.Status, StatePlaying)
}

// Current returns the first track, or nil if the device has none.
func (d *Device) Current() *Track {
	if d == nil || len(d.Tracks) == 0 {
		return nil
	}
	return &d.Tracks[0]
}
