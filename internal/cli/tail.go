package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/plexwatch/internal/tail"
)

var (
	tailDevice    string
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch the server's sessions and print changes as they happen.

Events tracked:
  - Track changes (new track started)
  - Track completions (track finished)
  - Track skips (track changed before completion)
  - Pause/Resume
  - Devices appearing and disappearing`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailDevice, "device", "d", "", "only show events for this device")
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default: watch.interval from config)")

	rootCmd.AddCommand(tailCmd)
}

// tailEvent is the JSON form of a tail event.
type tailEvent struct {
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
	Device string    `json:"device"`
	Status string    `json:"status,omitempty"`
	Title  string    `json:"title,omitempty"`
	Artist string    `json:"artist,omitempty"`
	Album  string    `json:"album,omitempty"`
}

func runTail(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	interval := tailInterval
	if interval == 0 {
		interval = cfg.PollInterval()
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := tail.NewWatcher(client, interval, tail.WithLogger(logger.Named("tail")))

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return waitTail(errCh)
			}
			if tailDevice != "" && !strings.EqualFold(event.Device, tailDevice) {
				continue
			}
			if JSONOutput() {
				if err := printTailJSON(event); err != nil {
					return err
				}
				continue
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func waitTail(errCh <-chan error) error {
	err := <-errCh
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printTailJSON(e tail.Event) error {
	out := tailEvent{
		Type:   tail.EventTypeName(e.Type),
		Time:   e.Timestamp,
		Device: e.Device,
	}
	d := e.Current
	if d == nil {
		d = e.Previous
	}
	if d != nil {
		out.Status = d.Status
		if t := d.Current(); t != nil {
			out.Title = t.Title
			out.Artist = t.Artist
			out.Album = t.Album
		}
	}
	return printJSONLine(out)
}
