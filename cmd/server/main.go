package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fireworkspos/backend/internal/config"
	"fireworkspos/backend/internal/db"
	httpapi "fireworkspos/backend/internal/http"
	"fireworkspos/backend/internal/logger"
	"fireworkspos/backend/internal/pdf"
	"fireworkspos/backend/internal/repository"
	"fireworkspos/backend/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "")
		zap.S().Fatalf("config error: %v", err)
	}

	logger.Init(cfg.Log.Mode, cfg.Log.File)
	defer func() { _ = zap.L().Sync() }()

	if err := os.MkdirAll(cfg.Invoice.Dir, 0o755); err != nil {
		zap.S().Fatalf("create invoice dir %s: %v", cfg.Invoice.Dir, err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		zap.S().Fatalf("database error: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		zap.S().Fatalf("migration error: %v", err)
	}

	repo := repository.New(pool)
	renderer := pdf.NewRenderer(cfg.Invoice.Dir, cfg.Invoice.LogoPath, cfg.Store.Name, cfg.Store.Tagline)
	svc := service.New(repo, renderer)
	handler := httpapi.NewHandler(svc, cfg.Invoice.Dir)
	router := httpapi.NewRouter(handler)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zap.S().Infof("billing server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil {
			zap.S().Errorf("force close failed: %v", closeErr)
		}
	}
}
