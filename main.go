package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gosurvey/internal"
	"gosurvey/internal/config"
	"gosurvey/internal/container"
	"gosurvey/ui"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	internal.DefaultLogger = logger
	defer logger.Sync()
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dashboard: %v", err)
		os.Exit(1)
	}

	server := ui.NewServer(c.Dashboard, ui.WithServerLogger(logger), ui.WithGatherer(c.Gatherer()))
	if err := server.Initialize(); err != nil {
		logger.Error("Failed to initialize web server: %v", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(net.JoinHostPort("", cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown: %v", err)
	}
	if err := c.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Container shutdown: %v", err)
	}
}
