package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/plexwatch/internal/core"
	"github.com/tessro/plexwatch/internal/render"
	"github.com/tessro/plexwatch/internal/tui/styles"
)

// NowPlaying displays the tracks of the selected device
type NowPlaying struct {
	showThumbnails bool
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying(showThumbnails bool) *NowPlaying {
	return &NowPlaying{showThumbnails: showThumbnails}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(device *core.Device, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	switch {
	case device == nil:
		content = styles.Muted.Render("No device selected")
	case len(device.Tracks) == 0:
		content = styles.Muted.Render("No track playing on " + device.Name)
	default:
		blocks := make([]string, 0, len(device.Tracks))
		for _, track := range device.Tracks {
			blocks = append(blocks, n.renderTrack(device, track, width-4))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, blocks...)
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

func (n *NowPlaying) renderTrack(device *core.Device, track core.Track, width int) string {
	icon := styles.StatusIcon(device.Status)
	titleStyle := styles.Title.Width(max(width-4, 1))
	title := titleStyle.Render(track.Title)

	artist := styles.Subtitle.Render(track.Artist)
	album := styles.Dim.Render(track.Album)

	progressWidth := width - 20 // times and percentage on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	elapsed := int64(track.Progress / 100 * float64(track.Duration))
	progress := fmt.Sprintf("%s %s %s %s",
		render.FormatDuration(elapsed),
		styles.ProgressBar(track.Progress, progressWidth),
		render.FormatDuration(track.Duration),
		styles.Dim.Render(render.Percent(track.Progress)))

	lines := []string{
		icon + " " + title,
		"  " + artist,
		"  " + album,
		"",
		progress,
	}
	if n.showThumbnails && track.Thumbnail != "" {
		lines = append(lines, styles.Dim.Render("  "+track.Thumbnail))
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
