package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"booklibrary/internal/book"
	"booklibrary/internal/config"
	"booklibrary/internal/database"
	"booklibrary/internal/httpx"
	"booklibrary/internal/logger"
	"booklibrary/internal/platform/openlibrary"

	"github.com/rs/zerolog"
)

const serviceName = "booklibrary-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("cannot load config")
	}

	log := logger.New(cfg.Log, serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	dbPool, err := database.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dbPool, log); err != nil {
			return err
		}
	}

	catalog := openlibrary.NewClient(openlibrary.Options{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		RPS:       cfg.Catalog.RPS,
		Timeout:   cfg.Catalog.Timeout,
	})
	bookRepository := book.NewPostgresRepo(dbPool, cfg.Database.QueryTimeout)
	bookService := book.NewService(bookRepository, catalog, log)
	bookHandler := book.NewHTTPHandler(bookService, log)

	router := newRouter(bookHandler, dbPool.Ping)
	httpServer := newHTTPServer(cfg.Server, withMiddleware(ctx, router, cfg.Server, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// withMiddleware wraps h in the server middleware. The first listed runs first.
func withMiddleware(ctx context.Context, h http.Handler, cfg config.ServerConfig, log zerolog.Logger) http.Handler {
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, httpx.RateLimitOptions{
		RPS:               cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		TrustForwardedFor: cfg.TrustForwardedFor,
	})

	return httpx.Chain(h,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}

func newHTTPServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
