package wizard

import (
	"os"

	"github.com/tessro/plexwatch/internal/config"
	"golang.org/x/term"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSetup runs the setup form if interactive mode is available.
// Returns nil if not interactive.
func (i *Interactive) PromptSetup(base *config.Config) (*config.Config, error) {
	if !i.CanInteract() {
		return nil, nil
	}
	return RunSetup(base)
}
