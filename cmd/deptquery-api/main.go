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

	"github.com/deptquery/deptquery/internal/api"
	"github.com/deptquery/deptquery/internal/api/uistatic"
	"github.com/deptquery/deptquery/internal/config"
	directorysqlite "github.com/deptquery/deptquery/internal/directory/sqlite"
	"github.com/deptquery/deptquery/internal/history"
	"github.com/deptquery/deptquery/internal/migrations"
	"github.com/deptquery/deptquery/internal/nl2sql"
	"github.com/deptquery/deptquery/internal/observability"
	querysqlite "github.com/deptquery/deptquery/internal/query/sqlite"
)

func main() {
	cfg, err := config.LoadFromEnv("deptquery-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	db, err := directorysqlite.Open(context.Background(), directorysqlite.DBConfig{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		applied, err := migrations.NewRunner().Up(ctx, db, 0)
		cancel()
		if err != nil {
			logger.Error("auto-migrate failed", slog.Any("error", err))
			os.Exit(1)
		}
		if applied > 0 {
			logger.Info("applied migrations", slog.Int("count", applied))
		}
	}

	directoryRepo := directorysqlite.NewRepository(db)
	queryEngine := querysqlite.NewEngine(db)

	var translator nl2sql.Translator
	if cfg.AI.TranslateEnabled {
		translator, err = nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize question translator", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Info("question translation disabled; only manager lookups will be answered")
	}

	deps := api.Dependencies{
		Logger:           logger,
		Directory:        directoryRepo,
		QueryEngine:      queryEngine,
		Translator:       translator,
		History:          history.NewLog(cfg.History.Capacity),
		RowLimit:         cfg.Query.RowLimit,
		SchemaSampleRows: cfg.UI.SchemaSampleRows,
		UI:               uistatic.Handler(),
		Readiness: api.CombineReadinessChecks(
			api.CheckDatabaseConfig(cfg),
			api.CheckDirectory(directoryRepo),
		),
		DependencyTimeout: time.Second,
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
