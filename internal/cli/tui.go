package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/plexwatch/internal/config"
	"github.com/tessro/plexwatch/internal/tui"
	"github.com/tessro/plexwatch/internal/wizard"
)

var tuiRefresh time.Duration

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Devices - every device with an active session
  • Now Playing - tracks and progress on the selected device
  • Activity - track changes, pauses, and devices coming and going

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Filter devices
  j/k          Select device
  r            Refresh now
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiRefresh, "refresh", 0, "refresh interval (default: watch.interval from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !wizard.IsTerminal() {
		return fmt.Errorf("the dashboard needs an interactive terminal; try 'plexwatch watch'")
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	refresh := tuiRefresh
	if refresh == 0 {
		refresh = cfg.PollInterval()
	}

	return tui.Run(tui.NewApp(client, refresh, cfg.RequestTimeout(), config.Enabled(cfg.Display.Thumbnails)))
}
