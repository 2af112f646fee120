package tail

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tessro/plexwatch/internal/core"
	"go.uber.org/zap"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventDeviceAppeared
	EventDeviceGone
)

// completionThreshold is the progress, in percent, at which a track that
// changed is treated as finished rather than skipped.
const completionThreshold = 95.0

// Event represents a playback change on one device.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Device    string
	Previous  *core.Device
	Current   *core.Device
}

// Watcher polls a session source and emits events for changes.
// Only the previous snapshot is kept.
type Watcher struct {
	source   core.Source
	interval time.Duration
	events   chan Event
	done     chan struct{}
	logger   *zap.Logger
	now      func() time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a new session watcher.
func NewWatcher(source core.Source, interval time.Duration, opts ...WatcherOption) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	w := &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for changes. The events channel is closed on return.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.Snapshot
	poll := func() {
		curr, err := w.source.Snapshot(ctx)
		if err != nil {
			w.logger.Warn("Failed to fetch sessions", zap.Error(err))
			return
		}
		for _, e := range Diff(prev, curr, w.now()) {
			select {
			case w.events <- e:
			default:
				w.logger.Debug("Dropped event", zap.String("device", e.Device))
			}
		}
		prev = curr
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// Diff compares two snapshots and returns the detected events.
// A nil prev is the first poll: every playing track is reported.
func Diff(prev, curr *core.Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event

	if prev == nil {
		for _, d := range curr.Devices {
			if d.Current() != nil {
				events = append(events, Event{
					Type:      EventTrackChange,
					Timestamp: now,
					Device:    d.Name,
					Current:   d,
				})
			}
		}
		return events
	}

	for _, d := range curr.Devices {
		old := prev.Device(d.Name)
		if old == nil {
			events = append(events, Event{
				Type:      EventDeviceAppeared,
				Timestamp: now,
				Device:    d.Name,
				Current:   d,
			})
			if d.Current() != nil {
				events = append(events, Event{
					Type:      EventTrackChange,
					Timestamp: now,
					Device:    d.Name,
					Current:   d,
				})
			}
			continue
		}
		events = append(events, diffDevice(old, d, now)...)
	}

	gone := lo.Filter(prev.Devices, func(d *core.Device, _ int) bool {
		return curr.Device(d.Name) == nil
	})
	for _, d := range gone {
		events = append(events, Event{
			Type:      EventDeviceGone,
			Timestamp: now,
			Device:    d.Name,
			Previous:  d,
		})
	}

	return events
}

// diffDevice compares two states of the same device.
func diffDevice(prev, curr *core.Device, now time.Time) []Event {
	var events []Event

	if trackChanged(prev, curr) {
		eventType := EventTrackChange
		if prevTrack := prev.Current(); prevTrack != nil {
			if prevTrack.Progress >= completionThreshold {
				eventType = EventTrackComplete
			} else {
				eventType = EventTrackSkip
			}
		}
		events = append(events, Event{
			Type:      eventType,
			Timestamp: now,
			Device:    curr.Name,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev.IsPlaying() && !curr.IsPlaying() {
		events = append(events, Event{
			Type:      EventPause,
			Timestamp: now,
			Device:    curr.Name,
			Previous:  prev,
			Current:   curr,
		})
	} else if !prev.IsPlaying() && curr.IsPlaying() {
		events = append(events, Event{
			Type:      EventResume,
			Timestamp: now,
			Device:    curr.Name,
			Previous:  prev,
			Current:   curr,
		})
	}

	return events
}

// trackChanged returns true if the current track differs.
func trackChanged(prev, curr *core.Device) bool {
	p, c := prev.Current(), curr.Current()
	if p == nil && c == nil {
		return false
	}
	if p == nil || c == nil {
		return true
	}
	return p.Key() != c.Key()
}
