package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tessro/plexwatch/internal/core"
)

// WriteTable prints a snapshot as one row per track.
// Devices without tracks get a single row with empty track columns.
func WriteTable(out io.Writer, snapshot *core.Snapshot, color bool) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Device", "Status", "Track", "Artist", "Album", "Duration", "Progress"})

	if snapshot != nil {
		for _, d := range snapshot.Devices {
			status := Capitalize(d.Status)
			if color {
				status = statusColor(d.Status)(status)
			}
			if len(d.Tracks) == 0 {
				t.AppendRow(table.Row{d.Name, status, "", "", "", "", ""})
				continue
			}
			for _, tr := range d.Tracks {
				t.AppendRow(table.Row{
					d.Name,
					status,
					tr.Title,
					tr.Artist,
					tr.Album,
					FormatDuration(tr.Duration),
					Percent(tr.Progress),
				})
			}
		}
	}

	t.Render()
}

func statusColor(status string) func(a ...interface{}) string {
	switch Capitalize(status) {
	case "Playing":
		return text.FgGreen.Sprint
	case "Paused":
		return text.FgYellow.Sprint
	case "Buffering":
		return text.FgCyan.Sprint
	default:
		return text.FgHiBlack.Sprint
	}
}
