package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pivovar/internal/config"
	"pivovar/internal/handlers"
	"pivovar/internal/i18n"
	"pivovar/internal/logger"
	"pivovar/internal/metrics"
	"pivovar/internal/repository"
	"pivovar/internal/repository/db"
	"pivovar/internal/server"
	"pivovar/internal/service"
	"pivovar/internal/store"
	"pivovar/internal/washclient"
	"pivovar/internal/web"

	_ "pivovar/docs"
)

const shutdownTimeout = 10 * time.Second

// @title                       pivovar
// @version                     1.0
// @description                 Home-brewery dashboard: wash machine temperature logs and phase order.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// config first so the logger gets its level
	cfg, cfgErr := config.Load()
	level, consoleSize := logger.InfoLevel, 0
	if cfgErr == nil {
		level, consoleSize = cfg.Log.Level, cfg.Console.Size
	}
	log := logger.Configure(level, consoleSize)
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	client, err := washclient.New(cfg.WashMachine.URL, nil)
	if err != nil {
		log.Fatalw("invalid wash machine url", "err", err)
	}

	catalog, err := i18n.Default(cfg.I18n.DefaultLocale)
	if err != nil {
		log.Fatalw("failed to load translations", "err", err)
	}
	pages, err := web.NewRenderer(catalog)
	if err != nil {
		log.Fatalw("failed to parse templates", "err", err)
	}

	met := metrics.New(metrics.DatadogConfig{
		Addr:      cfg.Datadog.Addr,
		Namespace: cfg.Datadog.Namespace,
		Tags:      cfg.Datadog.Tags,
	}, log)
	defer func() { _ = met.Close() }()

	// wire dependencies
	st := store.New()
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Store:   st,
		Client:  client,
		Metrics: met,
		Log:     log,
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		PollTimeout: cfg.Poll.Timeout,
	})
	apiHandler := handlers.NewHandler(services, handlers.Deps{
		Store:       st,
		Catalog:     catalog,
		Pages:       pages,
		Console:     logger.GetConsole(),
		Metrics:     met.Handler(),
		Log:         log,
		AuthEnabled: cfg.Auth.Enabled,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// discovery runs once; the poller picks the device up on the next tick.
	// Failures are logged and recorded as events by the service.
	go func() { _ = services.Discover(ctx) }()
	go services.Poller.Run(ctx, cfg.Poll.Interval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "pivovar.db")
		path = "pivovar.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop discovery and the poller
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	_ = log.Sync()
}
