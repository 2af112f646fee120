package render

import "github.com/charmbracelet/lipgloss"

// ANSI palette matching the classic 16-color terminal look.
var (
	Blue    = lipgloss.Color("4")
	Yellow  = lipgloss.Color("3")
	Magenta = lipgloss.Color("5")
	Green   = lipgloss.Color("2")
	Cyan    = lipgloss.Color("6")
	White   = lipgloss.Color("7")
	Red     = lipgloss.Color("9")
	Gray    = lipgloss.Color("8")
)

// Styles holds the lipgloss styles used for console output.
type Styles struct {
	Header    lipgloss.Style
	Track     lipgloss.Style
	Artist    lipgloss.Style
	Album     lipgloss.Style
	Duration  lipgloss.Style
	Thumbnail lipgloss.Style
	Progress  lipgloss.Style
	Percent   lipgloss.Style
	Error     lipgloss.Style
	Footer    lipgloss.Style
}

// NewStyles builds the style set for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	bold := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(c)
	}
	return Styles{
		Header:    bold(Blue),
		Track:     bold(Yellow),
		Artist:    bold(Magenta),
		Album:     bold(Green),
		Duration:  bold(Cyan),
		Thumbnail: bold(White),
		Progress:  bold(White),
		Percent:   bold(Yellow),
		Error:     r.NewStyle().Foreground(Red),
		Footer:    r.NewStyle().Foreground(Gray),
	}
}
