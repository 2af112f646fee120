package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/tessro/plexwatch/internal/config"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	URL      string
	Token    string
	Interval string // seconds
	Color    bool
}

// ValuesFrom seeds form answers from an existing config.
func ValuesFrom(cfg *config.Config) SetupValues {
	return SetupValues{
		URL:      cfg.Server.URL,
		Token:    cfg.Server.Token,
		Interval: strconv.Itoa(cfg.Watch.Interval / 1000),
		Color:    config.Enabled(cfg.Display.Color),
	}
}

// Apply writes the answers onto cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	if err := ValidateURL(v.URL); err != nil {
		return err
	}
	if err := ValidateInterval(v.Interval); err != nil {
		return err
	}
	secs, _ := strconv.Atoi(strings.TrimSpace(v.Interval))

	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(v.URL), "/")
	cfg.Server.Token = strings.TrimSpace(v.Token)
	cfg.Watch.Interval = secs * 1000
	color := v.Color
	cfg.Display.Color = &color
	return nil
}

// ValidateURL checks a server URL entered in the form.
func ValidateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("server URL is required")
	}
	sc := config.ServerConfig{URL: s}
	return sc.Validate()
}

// ValidateInterval checks a refresh interval in whole seconds.
func ValidateInterval(s string) error {
	secs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("interval must be a whole number of seconds")
	}
	if secs < 1 {
		return errors.New("interval must be at least 1 second")
	}
	return nil
}

// NewSetupForm builds the huh form bound to values.
func NewSetupForm(values *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plex server URL").
				Description("Base URL of your Plex Media Server").
				Placeholder("http://127.0.0.1:32400").
				Validate(ValidateURL).
				Value(&values.URL),
			huh.NewInput().
				Title("Plex token").
				Description("Sent as X-Plex-Token; leave empty for an unauthenticated server").
				EchoMode(huh.EchoModePassword).
				Value(&values.Token),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval (seconds)").
				Validate(ValidateInterval).
				Value(&values.Interval),
			huh.NewConfirm().
				Title("Use colors?").
				Value(&values.Color),
		),
	)
}

// RunSetup prompts for connection settings and returns an updated copy of base.
func RunSetup(base *config.Config) (*config.Config, error) {
	cfg := *base
	values := ValuesFrom(&cfg)

	if err := NewSetupForm(&values).Run(); err != nil {
		return nil, fmt.Errorf("setup cancelled: %w", err)
	}
	if err := values.Apply(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
