package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/YC815/chicken-game-backend/internal/config"
	"github.com/YC815/chicken-game-backend/internal/core"
	"github.com/YC815/chicken-game-backend/internal/handlers"
	"github.com/YC815/chicken-game-backend/internal/store"
)

func main() {
	// Load server configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)

	// Open the database and run migrations
	s, err := store.Open(cfg.Server.DatabasePath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.Server.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer s.Close()
	log.Info("database ready", "path", cfg.Server.DatabasePath)

	h := handlers.New(s, log)
	router := handlers.NewRouter(h, cfg)

	// Background stale-room cleanup
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	janitor := core.NewJanitor(s, log, cfg.Cleanup.Interval, cfg.Cleanup.FinishedTTL, cfg.Cleanup.IdleTTL)
	go janitor.Run(janitorCtx)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
