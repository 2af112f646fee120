package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
	"github.com/tessro/plexwatch/internal/plex"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/mock_display.go -package=mocks . Display
//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/tessro/plexwatch/internal/plex Fetcher

// Console diagnostics printed when a tick produces nothing to show.
const (
	MsgFetchFailed = "Failed to retrieve data."
	MsgNoDevices   = "No device info to display."
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 10 * time.Second

// Display is the output side of a tick.
type Display interface {
	Render(snapshot *core.Snapshot) error
	Diagnostic(msg string)
}

// ParseFunc turns a raw sessions document into a snapshot.
type ParseFunc func(data []byte) (*core.Snapshot, error)

// Poller runs fetch, parse, and render on a fixed interval.
type Poller struct {
	fetcher  plex.Fetcher
	display  Display
	parse    ParseFunc
	interval time.Duration
	timeout  time.Duration
	once     bool
	logger   *zap.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithTimeout bounds each fetch. Zero leaves only the client's own timeout.
func WithTimeout(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.timeout = d
	}
}

// WithOnce makes Run return after the first tick.
func WithOnce(once bool) PollerOption {
	return func(p *Poller) {
		p.once = once
	}
}

// WithParser replaces the sessions parser.
func WithParser(parse ParseFunc) PollerOption {
	return func(p *Poller) {
		if parse != nil {
			p.parse = parse
		}
	}
}

// WithLogger sets the poller's logger.
func WithLogger(logger *zap.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPoller creates a poller. A zero interval falls back to DefaultInterval.
func NewPoller(fetcher plex.Fetcher, display Display, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		fetcher:  fetcher,
		display:  display,
		parse:    plex.ParseSessions,
		interval: interval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the time between ticks.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run ticks immediately and then once per interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Poller started", zap.Duration("interval", p.interval))

	_ = p.Tick(ctx)
	if p.once {
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			_ = p.Tick(ctx)
		}
	}
}

// Tick performs one fetch, parse, render cycle.
// Failures are reported on the display and returned; they never panic.
func (p *Poller) Tick(ctx context.Context) error {
	fetchCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	data, err := p.fetcher.FetchSessions(fetchCtx)
	if err == nil && len(data) == 0 {
		err = errors.New("empty response")
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("Failed to fetch sessions", zap.Error(err))
		p.display.Diagnostic(fmt.Sprintf("Error fetching data: %v", err))
		p.display.Diagnostic(MsgFetchFailed)
		return err
	}

	snapshot, err := p.parse(data)
	if err != nil {
		p.logger.Error("Failed to parse sessions", zap.Error(err))
		p.display.Diagnostic(fmt.Sprintf("Error parsing data: %v", err))
		p.display.Diagnostic(MsgNoDevices)
		return err
	}

	if snapshot.IsEmpty() {
		p.logger.Debug("No active sessions")
		p.display.Diagnostic(MsgNoDevices)
		return perrors.ErrNoDevices
	}

	p.logger.Debug("Rendering sessions",
		zap.Int("devices", snapshot.Len()),
		zap.Int("tracks", snapshot.TrackCount()))

	if err := p.display.Render(snapshot); err != nil {
		p.logger.Error("Failed to render sessions", zap.Error(err))
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
