package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/plexwatch/internal/core"
	"github.com/tessro/plexwatch/internal/render"
	"github.com/tessro/plexwatch/internal/tui/styles"
)

// Devices displays the devices of the current snapshot
type Devices struct {
	selected int
}

// NewDevices creates a new Devices component
func NewDevices() *Devices {
	return &Devices{selected: 0}
}

// SelectNext selects the next device
func (d *Devices) SelectNext() {
	d.selected++
}

// SelectPrev selects the previous device
func (d *Devices) SelectPrev() {
	if d.selected > 0 {
		d.selected--
	}
}

// Selected returns the selected device index clamped to n devices
func (d *Devices) Selected(n int) int {
	if d.selected >= n {
		d.selected = n - 1
	}
	if d.selected < 0 {
		d.selected = 0
	}
	return d.selected
}

// Render renders the devices panel
func (d *Devices) Render(devices []*core.Device, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Devices (%d)", len(devices)), focused)

	var content string
	if len(devices) == 0 {
		content = styles.Muted.Render("No device info to display")
	} else {
		content = d.renderDevices(devices, height-4, focused)
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

func (d *Devices) renderDevices(devices []*core.Device, maxLines int, focused bool) string {
	selected := d.Selected(len(devices))
	lines := make([]string, 0, len(devices))

	for i, device := range devices {
		selector := "  "
		if i == selected {
			selector = "▸ "
		}

		name := device.Name
		if i == selected && focused {
			name = styles.Highlight.Render(name)
		}

		status := styles.Dim.Render(render.Capitalize(device.Status))
		line := fmt.Sprintf("%s%s %s %s", selector, styles.StatusIcon(device.Status), name, status)
		lines = append(lines, line)

		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
