package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/plexwatch/internal/app"
)

var (
	watchInterval time.Duration
	watchNoClear  bool
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously display what is playing",
	Long: `Poll the server's active sessions and redraw the terminal on every refresh.

Each device is shown with its playback status followed by the title, artist,
album, duration, and progress of every track it is playing. Press Ctrl+C to
stop.`,
	RunE: runWatch,
}

func init() {
	addWatchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "refresh interval (default: watch.interval from config)")
	cmd.Flags().BoolVar(&watchNoClear, "no-clear", false, "do not clear the screen between refreshes")
	cmd.Flags().BoolVar(&watchOnce, "once", false, "refresh once and exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval > 0 {
		cfg.Watch.Interval = int(watchInterval / time.Millisecond)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return app.Run(ctx, app.Params{
		Config:  cfg,
		Out:     os.Stdout,
		Color:   colorEnabled(cfg),
		Clear:   clearEnabled(cfg, watchNoClear || watchOnce),
		Once:    watchOnce,
		Verbose: Verbose(),
	})
}
