// Package main запускает HTTP-сервер учёта заказов одежды.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/garmenttrack/internal/config"
	"github.com/mmeshcher/garmenttrack/internal/handler"
	"github.com/mmeshcher/garmenttrack/internal/middleware"
	"github.com/mmeshcher/garmenttrack/internal/repository"
	"github.com/mmeshcher/garmenttrack/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		repo, err = repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
	} else {
		sugar.Warn("DATABASE_URI is not set, data is kept in memory and lost on restart")
		repo = repository.NewMemoryRepository()
	}

	svc := service.NewService(repo)
	defer svc.Close()

	authMiddleware, err := middleware.NewAuthMiddleware(cfg.JWTSecret, middleware.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSite(),
	})
	if err != nil {
		sugar.Fatalw("auth initialization error", "error", err.Error())
	}
	h := handler.NewHandler(svc, logger, authMiddleware)

	server := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      h.SetupRouter(cfg.CORSOrigin),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting garmenttrack server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown по сигналу или при ошибке сервера.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
