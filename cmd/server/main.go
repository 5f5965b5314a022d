package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhutchins/feedboard/internal/auth"
	"github.com/mhutchins/feedboard/internal/config"
	"github.com/mhutchins/feedboard/internal/domain"
	"github.com/mhutchins/feedboard/internal/httpserver"
	"github.com/mhutchins/feedboard/internal/images"
	"github.com/mhutchins/feedboard/internal/postgres"
	"github.com/mhutchins/feedboard/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up repository (implements both PostRepository and UserRepository)
	repo, err := postgres.NewRepository(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("connected to database")

	imageStore, err := images.NewDiskStore(cfg.ImageDir, logger)
	if err != nil {
		return fmt.Errorf("create image store: %w", err)
	}

	hub := ws.NewHub(logger)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenExpiry)

	feedService := domain.NewFeedService(repo, repo, imageStore, hub, logger)
	authService := domain.NewAuthService(repo, tokens, logger)

	// Set up graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	server := httpserver.NewServer(cfg, feedService, authService, tokens, imageStore, hub.HandleSubscribe, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port)

	// Wait for shutdown signal
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return nil
}
