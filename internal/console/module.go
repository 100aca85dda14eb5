// Package console assembles adminterm with fx: configuration, logging, the
// local store, the backend and channel clients, and the terminal UI.
package console

import (
	"context"
	"fmt"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/config"
	"github.com/matheus3301/adminterm/internal/draft"
	"github.com/matheus3301/adminterm/internal/inbox"
	"github.com/matheus3301/adminterm/internal/lock"
	"github.com/matheus3301/adminterm/internal/logging"
	"github.com/matheus3301/adminterm/internal/outbox"
	"github.com/matheus3301/adminterm/internal/profile"
	"github.com/matheus3301/adminterm/internal/store"
	"github.com/matheus3301/adminterm/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved profile passed to the fx modules.
type Params struct {
	Profile string
	// Console tees logs to stderr. Never set for the TUI.
	Console bool
}

// Core provides everything except the terminal UI. adminctl runs on it
// directly.
func Core(p Params) fx.Option {
	return fx.Options(
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStore,
			provideBackend,
			provideAuth,
			provideDraft,
			provideDialer,
			provideSender,
		),
	)
}

// Module returns the full console: Core plus the profile lock and the TUI.
func Module(p Params) fx.Option {
	return fx.Module("console",
		Core(p),
		fx.Provide(
			provideLock,
			provideRecorder,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Logger sends fx's own events to the zap logger so they never reach the
// terminal.
func Logger() fx.Option {
	return fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	})
}

func provideConfig(p Params) (*config.Config, error) {
	return LoadConfig(p.Profile)
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile, logging.Options{
		Level:   cfg.Log.Level,
		Console: p.Console,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired", zap.String("path", l.Path()))
	return l, nil
}

func provideStore(lc fx.Lifecycle, p Params, logger *zap.Logger) (*store.DB, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	path := profile.LocalDBPath(p.Profile)
	db, result, err := store.OpenAndMigrate(path)
	if err != nil {
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", path))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func provideBackend(cfg *config.Config, logger *zap.Logger) (*backend.Client, error) {
	return backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout.Duration, logger)
}

func provideAuth(c *backend.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *auth.Manager {
	return auth.NewManager(c, store.Scoped(db, store.Session), b, logger)
}

func provideDraft(db *store.DB) *draft.Buffer {
	return draft.New(store.Scoped(db, store.Local))
}

func provideDialer(cfg *config.Config, logger *zap.Logger) channel.Dialer {
	return &channel.WSDialer{
		URL:    cfg.Channel.URL,
		Event:  cfg.Channel.Event,
		Logger: logger,
	}
}

func provideSender(db *store.DB, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(db, b, logger)
}

func provideRecorder(db *store.DB, b *bus.Bus, logger *zap.Logger) *inbox.Recorder {
	return inbox.NewRecorder(db, b, logger)
}

// provideApp takes the lock so it is held before the UI touches the store.
func provideApp(p Params, _ *lock.Lock, c *backend.Client, m *auth.Manager, d channel.Dialer, buf *draft.Buffer, sender *outbox.Sender, db *store.DB, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(tui.Options{
		Profile:    p.Profile,
		BackendURL: c.BaseURL(),
		Auth:       m,
		Backend:    c,
		Dialer:     d,
		Draft:      buf,
		Outbox:     sender,
		History:    db,
		Bus:        b,
		Logger:     logger,
	})
}

func registerLifecycle(lc fx.Lifecycle, sd fx.Shutdowner, app *tui.App, rec *inbox.Recorder, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			rec.Start(context.Background())
			go func() {
				code := 0
				if err := app.Run(); err != nil {
					logger.Error("console exited", zap.Error(err))
					code = 1
				}
				if err := sd.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Warn("shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			app.Stop()
			select {
			case <-app.Done():
			case <-ctx.Done():
				return fmt.Errorf("console did not stop: %w", ctx.Err())
			}
			rec.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("console stopped")
			return nil
		},
	})
}
