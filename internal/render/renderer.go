package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/tessro/plexwatch/internal/core"
)

// Renderer prints snapshots to a terminal.
type Renderer struct {
	out           io.Writer
	term          *termenv.Output
	lg            *lipgloss.Renderer
	styles        Styles
	clear         bool
	thumbnails    bool
	footer        bool
	progressWidth int
	interval      time.Duration
	now           func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		if enabled {
			r.lg.SetColorProfile(termenv.ANSI)
		} else {
			r.lg.SetColorProfile(termenv.Ascii)
		}
	}
}

// WithClear enables clearing the screen before each render.
func WithClear(enabled bool) Option {
	return func(r *Renderer) {
		r.clear = enabled
	}
}

// WithThumbnails enables the thumbnail line.
func WithThumbnails(enabled bool) Option {
	return func(r *Renderer) {
		r.thumbnails = enabled
	}
}

// WithFooter enables the "updated" footer with the refresh interval.
func WithFooter(enabled bool, interval time.Duration) Option {
	return func(r *Renderer) {
		r.footer = enabled
		r.interval = interval
	}
}

// WithProgressWidth sets the number of markers in the progress bar.
func WithProgressWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.progressWidth = width
		}
	}
}

// WithClock overrides the time source used by the footer.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// New creates a renderer writing to out.
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:           out,
		term:          termenv.NewOutput(out),
		lg:            lipgloss.NewRenderer(out),
		clear:         true,
		thumbnails:    true,
		progressWidth: DefaultProgressWidth,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.styles = NewStyles(r.lg)
	return r
}

// Styles returns the renderer's style set.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Render clears the screen and prints every device in the snapshot.
func (r *Renderer) Render(snapshot *core.Snapshot) error {
	if r.clear {
		r.term.ClearScreen()
	}

	var b strings.Builder
	b.WriteString(r.Format(snapshot))
	if r.footer && snapshot != nil {
		b.WriteString(r.Footer(snapshot.FetchedAt))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Format returns the text for a snapshot without clearing the screen.
func (r *Renderer) Format(snapshot *core.Snapshot) string {
	if snapshot == nil {
		return ""
	}

	var b strings.Builder
	for _, device := range snapshot.Devices {
		r.writeDevice(&b, device)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) writeDevice(b *strings.Builder, device *core.Device) {
	status := fmt.Sprintf("Status: %s", Capitalize(device.Status))
	b.WriteString(r.styles.Header.Render(fmt.Sprintf("Device: %s (%s)", device.Name, status)))
	b.WriteString("\n")

	for _, track := range device.Tracks {
		r.writeTrack(b, track)
	}
}

func (r *Renderer) writeTrack(b *strings.Builder, track core.Track) {
	line := func(style lipgloss.Style, label, value string) {
		fmt.Fprintf(b, "  %s %s\n", style.Render(label+":"), value)
	}

	line(r.styles.Track, "Track", track.Title)
	line(r.styles.Artist, "Artist", track.Artist)
	line(r.styles.Album, "Album", track.Album)
	line(r.styles.Duration, "Duration", FormatDuration(track.Duration))

	if r.thumbnails && track.Thumbnail != "" {
		line(r.styles.Thumbnail, "Thumbnail", track.Thumbnail)
	}

	bar := fmt.Sprintf("[%s] %s",
		ProgressBar(track.Progress, r.progressWidth),
		r.styles.Percent.Render(Percent(track.Progress)))
	line(r.styles.Progress, "Progress", bar)
}

// Footer returns the "updated" line for a fetch time.
func (r *Renderer) Footer(fetchedAt time.Time) string {
	text := "Updated " + humanize.RelTime(fetchedAt, r.now(), "ago", "from now")
	if r.interval > 0 {
		text += fmt.Sprintf(" · refreshing every %s", r.interval)
	}
	return r.styles.Footer.Render(text)
}

// Diagnostic prints a one-line error message.
func (r *Renderer) Diagnostic(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Error.Render(msg))
}
