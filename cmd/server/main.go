package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/cadence/internal/config"
	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	sig "github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/mcp"
	"github.com/rpggio/cadence/internal/reminder"
	"github.com/rpggio/cadence/internal/sqlite"
	"github.com/rpggio/cadence/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries JSON-RPC in stdio mode, so logs go to stderr there.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	actionSvc := action.NewService(
		sqlite.NewActionRepository(db),
		sqlite.NewCompletionRepository(db),
		activityRepo,
		logger,
		action.WithLocation(loc),
	)
	signalSvc := sig.NewService(sqlite.NewSignalRepository(db), activityRepo, logger, sig.WithLocation(loc))
	activitySvc := activity.NewService(activityRepo, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Actions:  actionSvc,
			Signals:  signalSvc,
			Activity: activitySvc,
		},
		Resolver:      keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultTenant: cfg.Auth.DefaultTenant,
		Location:      loc,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reminder.Enabled {
		reminders := reminder.New(reminder.Config{
			Schedule:   cfg.Reminder.Schedule,
			RatePerSec: cfg.Reminder.RatePerSec,
		}, reminder.Deps{
			Tenants:    sqlite.NewTenantRepository(db),
			Actions:    actionSvc,
			Signals:    signalSvc,
			Activities: activityRepo,
		}, loc, logger)
		if err := reminders.Start(ctx); err != nil {
			logger.Error("failed to start reminders", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := reminders.Stop(); err != nil {
				logger.Warn("failed to stop reminders", "error", err)
			}
		}()
	}

	if cfg.Transport.Mode == "stdio" {
		err = runStdioMode(ctx, logger, mcpServer)
	} else {
		var auth func(http.Handler) http.Handler
		if cfg.Auth.Enabled {
			auth = transport.AuthMiddleware(keys)
		}
		var metrics http.Handler
		if cfg.Metrics.Enabled {
			metrics = promhttp.Handler()
		}
		router := transport.NewServer(transport.NewMCPHandler(mcpServer, transport.DefaultSessionTimeout), transport.Options{
			Auth:    auth,
			Metrics: metrics,
			Logger:  logger,
		})
		err = runHTTPMode(ctx, logger, router, cfg.Server.Host, cfg.Server.Port)
	}
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is canceled.
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && ctx.Err() != nil {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" || filepath.Dir(path) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
