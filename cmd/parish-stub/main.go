// Command parish-stub runs a local stand-in for the parish Remote API so the
// CLI can be exercised without the production server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/csg33k/parish-services/internal/adapters/sqlite"
	"github.com/csg33k/parish-services/internal/config"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/handlers"
	"github.com/csg33k/parish-services/internal/logging"
)

func main() {
	envErr := config.LoadDotEnv()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log, os.Getenv("PARISH_VERBOSE") != "")
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("error loading .env file", zap.Error(envErr))
	}

	repo, err := sqlite.New(cfg.Stub.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := handlers.SeedUser(ctx, repo, cfg.Stub.SeedPassword, domain.LoggedInUser{
		Email: cfg.Stub.SeedEmail,
		Name:  cfg.Stub.SeedName,
	})
	if err != nil {
		logger.Fatal("failed to seed user", zap.Error(err))
	}
	if created {
		logger.Info("seeded login account", zap.String("email", cfg.Stub.SeedEmail))
	}

	srv := &http.Server{
		Addr:              cfg.Stub.Addr,
		Handler:           handlers.New(repo, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("parish stand-in API running",
		zap.String("addr", cfg.Stub.Addr),
		zap.String("db", cfg.Stub.DBPath),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
