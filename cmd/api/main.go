package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookseller/internal/config"
	"bookseller/internal/platform/database"
	"bookseller/internal/store/memory"
	"bookseller/internal/store/postgres"
	"bookseller/internal/user"
)

const (
	migrateAttempts = 3
	migrateDelay    = 5 * time.Second
)

func main() {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, closeBackend := mustOpenBackend(ctx, cfg, logger)
	defer closeBackend()

	srv := newServer(cfg, logger, b)
	go srv.limiter.Cleanup(ctx.Done())

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "addr", cfg.Addr, "store", cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func mustOpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend, func()) {
	if cfg.StoreDriver == config.DriverMemory {
		c := memory.NewCatalog()
		return backend{
			authors: c.Authors,
			books:   c.Books,
			reviews: c.Reviews,
			users:   user.NewMemoryRepo(),
			ready:   func(context.Context) error { return nil },
		}, func() {}
	}

	pool, err := database.Open(ctx, cfg.DatabaseDSN, 2*time.Second)
	if err != nil {
		log.Fatalf("cannot open database (%s): %v", cfg.RedactedDSN(), err)
	}
	logger.Info("database connection OK", "dsn", cfg.RedactedDSN())

	if cfg.AutoMigrate {
		err := database.MigrateWithRetry(ctx, logger, migrateAttempts, migrateDelay, func(ctx context.Context) error {
			return database.Migrate(ctx, pool, cfg.MigrationsDir)
		})
		if err != nil {
			logger.Error("database migration failed, continuing", "error", err)
		}
	}

	c := postgres.NewCatalog(pool, cfg.DBTimeout)
	return backend{
		authors: c.Authors,
		books:   c.Books,
		reviews: c.Reviews,
		users:   user.NewPostgresRepo(pool, cfg.DBTimeout),
		ready:   pool.Ping,
	}, pool.Close
}
