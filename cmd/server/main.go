// Cashier top-up verification server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/abbasm/cashier-topup/internal/api"
	"github.com/abbasm/cashier-topup/internal/config"
	"github.com/abbasm/cashier-topup/internal/engine"
	"github.com/abbasm/cashier-topup/internal/middleware"
	"github.com/abbasm/cashier-topup/internal/smscache"
	"github.com/abbasm/cashier-topup/internal/store"
	"github.com/abbasm/cashier-topup/internal/telegram"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	pattern := cfg.SMSPattern
	if pattern == "" {
		pattern = smscache.DefaultPattern
	}
	extractor, err := smscache.NewRegexExtractor(pattern)
	if err != nil {
		slog.Error("Failed to compile SMS pattern", "error", err)
		os.Exit(1)
	}
	cache := smscache.New(cfg.SMSCapacity, cfg.SMSRetention, extractor)

	tg := telegram.NewClient(cfg.BotToken, cfg.APIBase)
	notifier := telegram.NewNotifier(tg, cfg.AdminChatID, logger)

	eng := engine.New(repo, cache, telegram.NewSender(tg), notifier, engine.Config{
		PaymentNumber:  cfg.PaymentNumber,
		PaymentCode:    cfg.PaymentCode,
		SupportContact: cfg.SupportContact,
	}, logger)

	if err := eng.WarmUp(context.Background()); err != nil {
		slog.Error("Failed to preload sessions", "error", err)
		os.Exit(1)
	}
	slog.Info("Sessions preloaded")

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	handler := api.NewHandler(cache, eng, logger)
	handler.RegisterRoutes(r, middleware.Secret(secretHeader, cfg.WebhookSecret))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Point the bot's webhook at this deployment. Failures are warnings:
	// the webhook may already be registered from a previous run.
	if cfg.AppURL != "" {
		setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := tg.DeleteWebhook(setupCtx); err != nil {
			slog.Warn("Failed to remove previous webhook", "error", err)
		}
		if err := tg.SetWebhook(setupCtx, cfg.AppURL+"/webhook", cfg.WebhookSecret); err != nil {
			slog.Warn("Failed to register webhook", "error", err)
		} else {
			slog.Info("Webhook registered", "url", cfg.AppURL+"/webhook")
		}
		cancel()
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
