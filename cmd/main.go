package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"blog/internal/config"
	"blog/internal/handlers"
	"blog/internal/logger"
	"blog/internal/repository"
	"blog/internal/repository/db"
	"blog/internal/server"
	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// bootstrap logger until the configured level is known
	log := logger.Get(logger.InfoLevel)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	log = logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.GinMode)

	// open DB and apply migrations
	conn, err := db.InitDB(context.Background(), cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalw("failed to init database", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()
	log.Infow("database ready", "dialect", conn.Dialect)

	// wire dependencies
	repos := repository.NewRepository(conn.DB, conn.Dialect)
	services := service.NewService(repos, serviceOptions(cfg))
	h := handlers.NewHandler(services, log, handlers.Options{
		SecretKey:    cfg.SecretKey,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
		SessionTTL:   cfg.Session.TTL,
	})

	// start HTTP server
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	errCh := runHTTPServer(srv, cfg.Port, h, log)

	// graceful shutdown
	waitForShutdown(srv, cfg, errCh, log)
}

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		SecretKey:  cfg.SecretKey,
		SessionTTL: cfg.Session.TTL,
		Hasher: service.PasswordHasher{
			Method:     cfg.Auth.HashMethod,
			Iterations: cfg.Auth.HashIterations,
			SaltLength: cfg.Auth.SaltLength,
		},
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine. A listen
// failure is reported on the returned channel.
func runHTTPServer(srv *server.Server, port string, h *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "port", port)
		if err := srv.Run(port, h.InitRoutes()); err != nil {
			errCh <- err
		}
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure,
// then drains in-flight requests.
func waitForShutdown(srv *server.Server, cfg *config.Config, errCh <-chan error, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	case err := <-errCh:
		log.Errorw("error starting server", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
