package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tessro/plexwatch/internal/core"
	"github.com/tessro/plexwatch/internal/tail"
	"github.com/tessro/plexwatch/internal/tui/components"
	"github.com/tessro/plexwatch/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelDevices Panel = iota
	PanelNowPlaying
	PanelActivity
	panelCount
)

// App holds the TUI application state
type App struct {
	source         core.Source
	refreshRate    time.Duration
	timeout        time.Duration
	showThumbnails bool
}

// NewApp creates a new TUI application
func NewApp(source core.Source, refreshRate, timeout time.Duration, showThumbnails bool) *App {
	if refreshRate <= 0 {
		refreshRate = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &App{
		source:         source,
		refreshRate:    refreshRate,
		timeout:        timeout,
		showThumbnails: showThumbnails,
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State
	snapshot *core.Snapshot
	events   []tail.Event
	updated  time.Time

	// Components
	devicesView *components.Devices
	nowPlaying  *components.NowPlaying
	eventsView  *components.Events

	// Overlays
	showHelp bool

	// Device filter
	filtering   bool
	filterInput textinput.Model

	// Error handling
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter devices..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		app:          app,
		focusedPanel: PanelDevices,
		devicesView:  components.NewDevices(),
		nowPlaying:   components.NewNowPlaying(app.showThumbnails),
		eventsView:   components.NewEvents(),
		filterInput:  ti,
	}
}

// Messages
type tickMsg time.Time
type snapshotMsg *core.Snapshot
type errMsg error

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.app.timeout)
		defer cancel()

		snapshot, err := m.app.source.Snapshot(ctx)
		if err != nil {
			return errMsg(err)
		}
		return snapshotMsg(snapshot)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchSnapshot(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchSnapshot())

	case snapshotMsg:
		if time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		snapshot := (*core.Snapshot)(msg)
		m.events = components.Prepend(m.events, tail.Diff(m.snapshot, snapshot, time.Now()))
		m.snapshot = snapshot
		m.updated = time.Now()
		return m, nil

	case errMsg:
		m.lastError = msg
		m.errorExpiry = time.Now().Add(5 * time.Second)
		return m, nil
	}

	if m.filtering {
		var inputCmd tea.Cmd
		m.filterInput, inputCmd = m.filterInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.SetValue("")
			m.filterInput.Blur()
			return m, nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
		var inputCmd tea.Cmd
		m.filterInput, inputCmd = m.filterInput.Update(msg)
		return m, inputCmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "esc":
		m.filterInput.SetValue("")
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case "r":
		return m, m.fetchSnapshot()

	case "j", "down":
		m.devicesView.SelectNext()
		return m, nil

	case "k", "up":
		m.devicesView.SelectPrev()
		return m, nil
	}

	return m, nil
}

// Visible returns the devices matching the current filter.
func (m Model) Visible() *core.Snapshot {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if query == "" {
		return m.snapshot.Filter(func(*core.Device) bool { return true })
	}
	return m.snapshot.Filter(func(d *core.Device) bool {
		return strings.Contains(strings.ToLower(d.Name), query)
	})
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Devices (top), Activity (bottom)
	// Right: Now Playing
	leftWidth := m.width * 40 / 100
	rightWidth := m.width - leftWidth - 2
	bodyHeight := m.height - 3
	topHeight := bodyHeight * 50 / 100
	bottomHeight := bodyHeight - topHeight - 2

	visible := m.Visible()
	var selected *core.Device
	if visible.Len() > 0 {
		selected = visible.Devices[m.devicesView.Selected(visible.Len())]
	}

	devicesView := m.devicesView.Render(visible.Devices, leftWidth-2, topHeight-2, m.focusedPanel == PanelDevices)
	eventsView := m.eventsView.Render(m.events, leftWidth-2, bottomHeight, m.focusedPanel == PanelActivity)
	nowPlaying := m.nowPlaying.Render(selected, rightWidth-2, bodyHeight-2, m.focusedPanel == PanelNowPlaying)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, devicesView, eventsView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, nowPlaying)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.lastError != nil:
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	case m.filtering:
		status = m.filterInput.View()
	default:
		parts := []string{"q:quit  ?:help  /:filter  j/k:select  r:refresh  tab:switch panel"}
		if v := m.filterInput.Value(); v != "" {
			parts = append(parts, fmt.Sprintf("filter: %q", v))
		}
		if !m.updated.IsZero() {
			parts = append(parts, "updated "+humanize.Time(m.updated))
		}
		status = styles.Dim.Render(strings.Join(parts, "  ·  "))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "plexwatch UI - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh now

  Devices
  ───────
  j/↓          Select next
  k/↑          Select previous
  /            Filter by name
  Esc          Clear filter

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the TUI application
func Run(app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
