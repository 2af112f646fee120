package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/tessro/plexwatch/internal/config"
	"github.com/tessro/plexwatch/internal/logging"
	"github.com/tessro/plexwatch/internal/plex"
	"go.uber.org/zap"
)

// OutputMode represents the output format.
type OutputMode int

const (
	OutputNormal OutputMode = iota
	OutputTable
	OutputJSON
)

var outputMode = OutputNormal

// SetOutputMode sets the global output mode.
func SetOutputMode(mode OutputMode) {
	outputMode = mode
}

// GetOutputMode returns the current output mode.
func GetOutputMode() OutputMode {
	if JSONOutput() {
		return OutputJSON
	}
	return outputMode
}

// IsStdoutTerminal returns true if stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorEnabled decides whether console output is colored.
// NO_COLOR and a non-terminal stdout both turn colors off.
func colorEnabled(c *config.Config) bool {
	if !config.Enabled(c.Display.Color) {
		return false
	}
	if termenv.EnvNoColor() {
		return false
	}
	return IsStdoutTerminal()
}

// clearEnabled decides whether the screen is cleared between refreshes.
func clearEnabled(c *config.Config, noClear bool) bool {
	return !noClear && config.Enabled(c.Watch.ClearScreen) && IsStdoutTerminal()
}

// printJSON writes v as indented JSON.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newLogger builds the file logger for commands that run outside the watch app.
func newLogger() *zap.Logger {
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Path:    cfg.LogPath(),
		Verbose: Verbose(),
	})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newClient creates a sessions client from the loaded config.
func newClient(logger *zap.Logger) (*plex.Client, error) {
	sessionsURL, err := cfg.SessionsURL()
	if err != nil {
		return nil, err
	}
	return plex.NewClient(sessionsURL, cfg.Server.Token,
		plex.WithTimeout(cfg.RequestTimeout()),
		plex.WithLogger(logger),
	)
}

// printJSONLine writes v as a single JSON line to stdout.
func printJSONLine(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}
