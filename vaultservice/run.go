// Package vaultservice wires configuration, storage and the HTTP API into a
// runnable service.
package vaultservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/api"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/blob"
	"github.com/memvault/memory-vault/internal/config"
	"github.com/memvault/memory-vault/internal/platform/logger"
	"github.com/memvault/memory-vault/internal/services"
	"github.com/memvault/memory-vault/internal/store"
	"github.com/memvault/memory-vault/internal/store/postgres"
	"github.com/memvault/memory-vault/internal/store/sqlite"
)

// Run starts the memory vault HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("memory-vault")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Memory vault starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Store adapter unavailable")
		return err
	}

	files, err := blob.NewDiskStore(cfg.DataDir)
	if err != nil {
		log.Error().Err(err).Msg("File store unavailable")
		return err
	}

	router := api.NewRouter(api.Deps{
		Store:      st,
		Files:      files,
		Authorizer: auth.NewStoreAuthorizer(st),
		Providers:  services.NewProviderFactory(cfg),
		Log:        log,
	})

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// NewStore builds the configured storage backend.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("Using SQLite storage")
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
