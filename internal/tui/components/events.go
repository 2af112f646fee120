package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/plexwatch/internal/tail"
	"github.com/tessro/plexwatch/internal/tui/styles"
)

// MaxEvents is the number of events kept in the log.
const MaxEvents = 50

// Events displays recent playback changes
type Events struct {
	formatter *tail.Formatter
	now       func() time.Time
}

// NewEvents creates a new Events component
func NewEvents() *Events {
	return &Events{
		formatter: tail.NewFormatter(tail.WithEmoji(false)),
		now:       time.Now,
	}
}

// Render renders the event log panel, newest first
func (e *Events) Render(events []tail.Event, width, height int, focused bool) string {
	title := styles.PanelTitle("Activity", focused)

	var content string
	if len(events) == 0 {
		content = styles.Muted.Render("No activity yet")
	} else {
		content = e.renderEvents(events, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (e *Events) renderEvents(events []tail.Event, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, ev := range events {
		if i >= maxLines {
			break
		}

		timeAgo := formatTimeAgo(ev.Timestamp, e.now())
		text := truncate(e.formatter.Format(ev), width-len(timeAgo)-3)

		padding := width - 2 - lipgloss.Width(text) - len(timeAgo)
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(eventIcon(ev.Type)),
			text,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(timeAgo))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Prepend adds new events to the front of the log and trims it to MaxEvents.
func Prepend(log []tail.Event, events []tail.Event) []tail.Event {
	if len(events) == 0 {
		return log
	}
	out := make([]tail.Event, 0, len(log)+len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
	}
	out = append(out, log...)
	if len(out) > MaxEvents {
		out = out[:MaxEvents]
	}
	return out
}

func eventIcon(t tail.EventType) string {
	switch t {
	case tail.EventTrackComplete:
		return "✓"
	case tail.EventTrackSkip:
		return "⏭"
	case tail.EventPause:
		return "⏸"
	case tail.EventResume, tail.EventTrackChange:
		return "▶"
	case tail.EventDeviceAppeared:
		return "+"
	case tail.EventDeviceGone:
		return "-"
	default:
		return "·"
	}
}

func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("Jan 2")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
