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

	"github.com/loftwall/atrium/internal/mail"
	"github.com/loftwall/atrium/internal/service"
	"github.com/loftwall/atrium/internal/store"
	"github.com/loftwall/atrium/internal/store/drivers/sqlite"
	"github.com/loftwall/atrium/internal/web"
	"github.com/loftwall/atrium/pkg/cryptox"
	"github.com/loftwall/atrium/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the web application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	// Services
	provisionService    *service.ProvisionService
	sessionService      *service.SessionService
	dashboardService    *service.DashboardService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *web.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "atrium",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("atrium starting", "port", app.cfg.Port, "version", BuildVersion, "dev_mode", app.cfg.DevMode())

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down atrium...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("atrium stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
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

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.provisionService = &service.ProvisionService{Store: app.db}

	app.sessionService = &service.SessionService{
		Store:       app.db,
		Mail:        &mail.LogSender{Logger: app.logger},
		Provisioner: app.provisionService,
		Secret:      []byte(app.cfg.Secret),
		Issuer:      app.cfg.AppName,
		BaseURL:     app.cfg.BaseURL,
		SessionTTL:  app.cfg.SessionTTL,
		VerifyTTL:   app.cfg.VerifyTTL,
		DevMode:     app.cfg.DevMode(),
	}

	app.dashboardService = &service.DashboardService{
		Store:       app.db,
		Provisioner: app.provisionService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	cookie := web.CookieConfig{
		Name:   web.DefaultCookieName,
		Domain: app.cfg.CookieDomain,
		Secure: !app.cfg.DevMode(),
		TTL:    app.cfg.SessionTTL,
	}

	router := web.NewRouter(
		app.cfg.AppName,
		BuildVersion,
		app.db,
		cookie,
		app.logger,
	)

	// Wire services to router
	router.Sessions = app.sessionService
	router.Dashboard = app.dashboardService
	router.AnalyticsKey = app.cfg.AnalyticsKey
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
