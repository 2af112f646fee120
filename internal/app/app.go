// Package app assembles the watch pipeline as an fx application.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/tessro/plexwatch/internal/config"
	"github.com/tessro/plexwatch/internal/logging"
	"github.com/tessro/plexwatch/internal/plex"
	"github.com/tessro/plexwatch/internal/render"
	"github.com/tessro/plexwatch/internal/watch"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params carries the resolved runtime settings into the graph.
type Params struct {
	Config  *config.Config
	Out     io.Writer
	Color   bool
	Clear   bool
	Once    bool
	Verbose bool
}

// Options returns the fx options for the watch application.
func Options(p Params) fx.Option {
	return fx.Options(
		fx.Supply(p, p.Config),
		fx.Provide(
			newLogger,
			fx.Annotate(newClient, fx.As(new(plex.Fetcher))),
			fx.Annotate(newRenderer, fx.As(new(watch.Display))),
			newPoller,
		),
		fx.Invoke(registerHooks),
	)
}

// Run starts the watch application and blocks until ctx is done or the
// poller finishes a --once run.
func Run(ctx context.Context, p Params) error {
	app := fx.New(
		Options(p),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	// The start context may already be cancelled.
	return app.Stop(context.Background())
}

// newLogger falls back to a no-op logger when the log file is unusable.
func newLogger(p Params, cfg *config.Config) *zap.Logger {
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Path:    cfg.LogPath(),
		Verbose: p.Verbose,
	})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newClient(cfg *config.Config, logger *zap.Logger) (*plex.Client, error) {
	if cfg.Server.Token == "" {
		logger.Warn("No server token configured")
	}
	sessionsURL, err := cfg.SessionsURL()
	if err != nil {
		return nil, err
	}
	return plex.NewClient(sessionsURL, cfg.Server.Token,
		plex.WithTimeout(cfg.RequestTimeout()),
		plex.WithLogger(logger),
	)
}

func newRenderer(p Params, cfg *config.Config) *render.Renderer {
	return render.New(p.Out,
		render.WithColor(p.Color),
		render.WithClear(p.Clear),
		render.WithThumbnails(config.Enabled(cfg.Display.Thumbnails)),
		render.WithFooter(config.Enabled(cfg.Display.Footer), cfg.PollInterval()),
		render.WithProgressWidth(cfg.Display.ProgressWidth),
	)
}

func newPoller(fetcher plex.Fetcher, display watch.Display, p Params, cfg *config.Config, logger *zap.Logger) *watch.Poller {
	return watch.NewPoller(fetcher, display, cfg.PollInterval(),
		watch.WithTimeout(cfg.RequestTimeout()),
		watch.WithOnce(p.Once),
		watch.WithLogger(logger.Named("poller")),
	)
}

// registerHooks runs the poller for the lifetime of the application.
func registerHooks(lc fx.Lifecycle, poller *watch.Poller, shutdowner fx.Shutdowner, logger *zap.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("plexwatch started", zap.Duration("interval", poller.Interval()))
			go func() {
				defer close(done)
				err := poller.Run(runCtx)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Poller exited", zap.Error(err))
				}
				if runCtx.Err() == nil {
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return logger.Sync()
		},
	})
}
