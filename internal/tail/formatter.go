package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/plexwatch/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, "["+e.Device+"]", eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      EventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Device:    e.Device,
	}

	d := e.Current
	if d == nil {
		d = e.Previous
	}
	if d != nil {
		data.Status = d.Status
		if t := d.Current(); t != nil {
			data.Title = t.Title
			data.Artist = t.Artist
			data.Album = t.Album
			data.Progress = int(t.Progress)
		}
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Device    string
	Status    string
	Title     string
	Artist    string
	Album     string
	Progress  int
}

func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := currentTrack(e.Current); t != nil {
			return fmt.Sprintf("Now playing: %s - %s", t.Artist, t.Title)
		}
		return "Track changed"

	case EventTrackComplete:
		if t := currentTrack(e.Previous); t != nil {
			return fmt.Sprintf("Finished: %s - %s", t.Artist, t.Title)
		}
		return "Track completed"

	case EventTrackSkip:
		if t := currentTrack(e.Previous); t != nil {
			return fmt.Sprintf("Skipped: %s - %s", t.Artist, t.Title)
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventDeviceAppeared:
		return "Device appeared"

	case EventDeviceGone:
		return "Device gone"

	default:
		return "Unknown event"
	}
}

func currentTrack(d *core.Device) *core.Track {
	if d == nil {
		return nil
	}
	return d.Current()
}

func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventDeviceAppeared:
		return "📱"
	case EventDeviceGone:
		return "👋"
	default:
		return "❓"
	}
}

// EventTypeName returns the machine-readable name of the event type.
func EventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventDeviceAppeared:
		return "device_appeared"
	case EventDeviceGone:
		return "device_gone"
	default:
		return "unknown"
	}
}
