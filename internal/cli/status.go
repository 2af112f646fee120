package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessro/plexwatch/internal/config"
	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
	"github.com/tessro/plexwatch/internal/render"
	"github.com/tessro/plexwatch/internal/watch"
)

var (
	statusTable   bool
	statusDevices []string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is playing right now",
	Long: `Fetch the server's active sessions once and print them.

Output is plain text by default; use --table for a table or --json for JSON.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusTable, "table", "t", false, "Show sessions as a table")
	statusCmd.Flags().StringSliceVarP(&statusDevices, "device", "d", nil, "Only show these devices (repeatable)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusTable {
		SetOutputMode(OutputTable)
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	snapshot, err := client.Snapshot(ctx)
	if err != nil {
		return err
	}

	result := selectDevices(snapshot, statusDevices)
	if result.HasErrors() {
		fmt.Fprintln(os.Stderr, result.ErrorSummary())
	}
	snapshot = result.Data

	switch GetOutputMode() {
	case OutputJSON:
		return printJSON(os.Stdout, snapshot)
	case OutputTable:
		if snapshot.IsEmpty() {
			fmt.Println(watch.MsgNoDevices)
			return nil
		}
		render.WriteTable(os.Stdout, snapshot, colorEnabled(cfg))
		return nil
	default:
		r := render.New(os.Stdout,
			render.WithColor(colorEnabled(cfg)),
			render.WithClear(false),
			render.WithThumbnails(config.Enabled(cfg.Display.Thumbnails)),
			render.WithProgressWidth(cfg.Display.ProgressWidth),
		)
		if snapshot.IsEmpty() {
			r.Diagnostic(watch.MsgNoDevices)
			return nil
		}
		return r.Render(snapshot)
	}
}

// selectDevices keeps only the named devices. Names that match nothing are
// reported as errors alongside the filtered snapshot.
func selectDevices(snapshot *core.Snapshot, names []string) *perrors.PartialResult[*core.Snapshot] {
	result := &perrors.PartialResult[*core.Snapshot]{Data: snapshot}
	if len(names) == 0 {
		return result
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		wanted[key] = true
		if !hasDevice(snapshot, key) {
			result.AddError(fmt.Errorf("device %q: %w", name, perrors.ErrNoDevices))
		}
	}

	result.Data = snapshot.Filter(func(d *core.Device) bool {
		return wanted[strings.ToLower(d.Name)]
	})
	return result
}

func hasDevice(snapshot *core.Snapshot, lowerName string) bool {
	for _, d := range snapshot.Devices {
		if strings.ToLower(d.Name) == lowerName {
			return true
		}
	}
	return false
}
