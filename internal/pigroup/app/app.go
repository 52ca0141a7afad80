package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	httpapi "github.com/aussiebroadwan/pigroup/internal/pigroup/http"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/membership"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/store/drivers/sqlite"
	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

var ErrRemoteOnly = fmt.Errorf("app: operation needs the remote backend: %w", errors.ErrUnsupported)

// Application wires the configured backend to the CLI and the HTTP surface.
// Remote operations each open and close their own Pi-hole session.
type Application struct {
	cfg    Config
	logger *slog.Logger
	creds  Credentials
	now    func() time.Time

	db store.Store // local backend only
}

func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		now: time.Now,
		logger: slogx.New(slogx.Config{
			Service: "pigroup",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	switch cfg.Backend {
	case BackendLocal:
		if err := app.initDatabase(); err != nil {
			return nil, err
		}
	case BackendRemote:
		creds, err := LoadCredentials(cfg)
		if err != nil {
			return nil, err
		}
		app.creds = creds
	}

	return app, nil
}

func (app *Application) Logger() *slog.Logger { return app.logger }

// Close releases the gravity database, if open.
func (app *Application) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to open gravity database: %w", err)
	}
	app.db = db

	if !app.cfg.Migrate {
		return nil
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "db", app.cfg.DatabaseFile)
	return nil
}

// Toggle runs one membership workflow. With RestartDNS set, a change made
// through the remote backend is followed by a resolver restart in the same
// session.
func (app *Application) Toggle(ctx context.Context, op membership.Operation, clientComment, groupName string) (membership.Result, error) {
	var res membership.Result

	err := app.withBackend(ctx, func(ctx context.Context, b membership.Backend, pihole *piholesdk.Client) error {
		var err error
		res, err = membership.NewToggler(b).Toggle(ctx, op, clientComment, groupName)
		if err != nil {
			return err
		}

		if pihole != nil && app.cfg.RestartDNS && res.Outcome == domain.Changed {
			if _, err := pihole.RestartDNS(ctx); err != nil {
				return fmt.Errorf("restart dns: %w", err)
			}
			slogx.FromContext(ctx).Info("dns resolver restarted")
		}
		return nil
	})
	return res, err
}

func (app *Application) Groups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := app.withBackend(ctx, func(ctx context.Context, b membership.Backend, _ *piholesdk.Client) error {
		var err error
		groups, err = b.ListGroups(ctx)
		return err
	})
	return groups, err
}

func (app *Application) Clients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := app.withBackend(ctx, func(ctx context.Context, b membership.Backend, _ *piholesdk.Client) error {
		var err error
		clients, err = b.ListClients(ctx)
		return err
	})
	return clients, err
}

func (app *Application) RestartDNS(ctx context.Context) error {
	if app.db != nil {
		return ErrRemoteOnly
	}
	return app.withRemote(ctx, func(ctx context.Context, pihole *piholesdk.Client) error {
		if _, err := pihole.RestartDNS(ctx); err != nil {
			return fmt.Errorf("restart dns: %w", err)
		}
		return nil
	})
}

// Ready reports whether the backend can serve requests without contacting
// Pi-hole.
func (app *Application) Ready(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	return app.db.Ping(ctx)
}

// Handler returns the HTTP surface with every route registered.
func (app *Application) Handler() http.Handler {
	router := httpapi.NewRouter(app, app.logger, BuildVersion, app.cfg.APIToken)
	router.ApplyRoutes()
	return router
}

// Serve runs the HTTP surface until ctx is done, then shuts down gracefully.
func (app *Application) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	app.logger.Info("pigroup server starting", "port", app.cfg.Port, "backend", app.cfg.Backend)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutting down pigroup server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("pigroup server stopped")
	return nil
}

type backendFunc func(ctx context.Context, b membership.Backend, pihole *piholesdk.Client) error

// withBackend hands fn the configured backend. pihole is nil for the local
// backend.
func (app *Application) withBackend(ctx context.Context, fn backendFunc) error {
	if app.db != nil {
		return fn(ctx, membership.NewLocalBackend(app.db), nil)
	}
	return app.withRemote(ctx, func(ctx context.Context, pihole *piholesdk.Client) error {
		return fn(ctx, membership.NewRemoteBackend(pihole), pihole)
	})
}

// withRemote logs in, runs fn and logs out. Logout runs even when fn fails or
// ctx is cancelled; its error is joined to fn's.
func (app *Application) withRemote(ctx context.Context, fn func(context.Context, *piholesdk.Client) error) (err error) {
	pihole := piholesdk.NewClient(app.cfg.BaseURL)
	pihole.HTTPClient.Timeout = app.cfg.RequestTimeout

	if err := app.login(ctx, pihole); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.cfg.RequestTimeout)
		defer cancel()
		if lerr := pihole.EndSession(logoutCtx); lerr != nil {
			err = errors.Join(err, fmt.Errorf("end session: %w", lerr))
		}
	}()

	return fn(ctx, pihole)
}

func (app *Application) login(ctx context.Context, pihole *piholesdk.Client) error {
	code, ok, err := app.creds.TOTPCode(app.now())
	if err != nil {
		return err
	}
	if ok {
		_, err = pihole.AuthenticateTOTP(ctx, app.creds.Password, code)
	} else {
		_, err = pihole.Authenticate(ctx, app.creds.Password)
	}
	return err
}
