package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/openvenue/eventd/internal/http"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/internal/store/drivers/sqlite"
	"github.com/openvenue/eventd/pkg/jwtx"
	"github.com/openvenue/eventd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the event service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	sessionService  *service.SessionService
	directory       *service.DirectoryService
	authService     *service.AuthService
	categoryService *service.CategoryService
	eventService    *service.EventService
	ratingService   *service.RatingService
	seederService   *service.SeederService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "eventd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewCodec([]byte(cfg.JWTSecret), cfg.Issuer, cfg.Audience, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	if err := app.seed(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("event service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down event service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("event service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{Store: app.db}
	app.directory = &service.DirectoryService{Store: app.db}

	app.authService = &service.AuthService{
		Codec:      app.codec,
		Sessions:   app.sessionService,
		Directory:  app.directory,
		Store:      app.db,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.categoryService = &service.CategoryService{Store: app.db}
	app.eventService = &service.EventService{Store: app.db}
	app.ratingService = &service.RatingService{Store: app.db}

	app.seederService = &service.SeederService{
		Store:         app.db,
		Directory:     app.directory,
		AdminPassword: app.cfg.SeedAdminPassword,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.codec, app.db, app.logger)

	router.AuthService = app.authService
	router.CategoryService = app.categoryService
	router.EventService = app.eventService
	router.RatingService = app.ratingService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// seed ensures the role set and the administrator account exist.
func (app *Application) seed() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.seederService.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed initial data: %w", err)
	}
	return nil
}
