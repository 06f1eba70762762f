package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/digilib-tools/arkingest/internal/config"
	"github.com/digilib-tools/arkingest/internal/core"
	"github.com/digilib-tools/arkingest/internal/jobs"
	"github.com/digilib-tools/arkingest/internal/logging"
	"github.com/digilib-tools/arkingest/internal/store"
	"github.com/digilib-tools/arkingest/internal/vocab"
	"github.com/digilib-tools/arkingest/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"import_file_path", cfg.Import.FilePath,
		"missing_file_log", cfg.Import.MissingFileLog,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	recordStore := store.NewPostgres(pool)
	if err := recordStore.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	authority, err := vocab.LoadDir(cfg.Import.AuthorityDir)
	if err != nil {
		slog.Error("failed to load authority files", "error", err, "dir", cfg.Import.AuthorityDir)
		os.Exit(1)
	}

	// The rendering service consumes build requests out of band; the gate
	// only guarantees at-most-one pending job per ark.
	gate := jobs.NewGate(func(ctx context.Context, identifier string) error {
		slog.Info("derivative build requested", "ark", identifier)
		return nil
	})

	service := core.NewService(core.ServiceConfig{
		ImportFilePath: cfg.Import.FilePath,
		MissingFileLog: cfg.Import.MissingFileLog,
		ImportTimeout:  cfg.Import.Timeout,
	}, recordStore, authority, gate, nil)

	server := web.NewServer(service, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		gate.Wait()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
