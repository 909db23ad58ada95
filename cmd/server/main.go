package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dukerupert/orderdesk/internal"
	"github.com/dukerupert/orderdesk/internal/analytics"
	"github.com/dukerupert/orderdesk/internal/email"
	"github.com/dukerupert/orderdesk/internal/extract"
	"github.com/dukerupert/orderdesk/internal/handler/api"
	"github.com/dukerupert/orderdesk/internal/message"
	"github.com/dukerupert/orderdesk/internal/middleware"
	"github.com/dukerupert/orderdesk/internal/pipeline"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/dukerupert/orderdesk/internal/router"
	"github.com/dukerupert/orderdesk/internal/settlement"
	"github.com/dukerupert/orderdesk/internal/validator"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting orderdesk", "env", cfg.Env, "port", cfg.Port)

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// goose migrations run over database/sql, sharing the pool's config
	db := stdlib.OpenDBFromPool(pool)
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := db.Close(); err != nil {
		logger.Warn("failed to close migration connection", "error", err)
	}

	queries := repository.New(pool)

	var sender email.Sender
	if cfg.Email.Enabled {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
	}

	extractor := extract.NewGeminiExtractor(extract.GeminiConfig{
		APIKey: cfg.Extractor.APIKey,
		Model:  cfg.Extractor.Model,
	}, logger)

	writer := settlement.NewWriter(queries, logger)
	messenger := message.NewService(sender, logger)
	pipelineMetrics := pipeline.NewMetrics("orderdesk")
	proc := pipeline.New(extractor, queries, validator.Validate, messenger, writer, logger, pipelineMetrics)

	analyticsService := analytics.NewService(queries)

	httpMetrics := middleware.NewMetrics("orderdesk")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.CORS(cfg.CORSOrigins),
		router.Logger(logger),
	)

	processHandler := api.NewProcessOrderHandler(proc, logger)
	ordersHandler := api.NewOrdersHandler(queries, logger)
	catalogHandler := api.NewCatalogHandler(queries, logger)
	analyticsHandler := api.NewAnalyticsHandler(analyticsService, logger)

	r.Post("/api/process-order", processHandler.ServeHTTP)
	r.Get("/api/orders", ordersHandler.List)
	r.Get("/api/orders/{id}", ordersHandler.Get)
	r.Get("/api/customers", catalogHandler.ListCustomers)
	r.Get("/api/products", catalogHandler.ListProducts)
	r.Put("/api/products/{id}/stock", catalogHandler.UpdateStock)
	r.Get("/api/analytics/summary", analyticsHandler.Summary)
	r.Get("/api/analytics/forecast", analyticsHandler.Forecast)

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle(http.MethodGet, "/metrics", httpMetrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
