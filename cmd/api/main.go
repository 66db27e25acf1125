package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/config"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to an optional YAML configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}

	logger, err := logging.New(settings.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(settings, logger); err != nil {
		logger.Fatal("server stopped", zap.String("op", "main"), zap.Error(err))
	}
}

func run(settings *config.Settings, logger *zap.Logger) error {
	if settings.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, closeDeps, err := api.BuildDependencies(startCtx, settings, logger)
	cancel()
	if err != nil {
		return err
	}
	defer closeDeps()

	server := &http.Server{
		Addr:         settings.Addr(),
		Handler:      api.NewRouter(settings, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			zap.String("op", "main"),
			zap.String("addr", server.Addr),
			zap.String("env", settings.Server.Env),
			zap.String("maintenance_policy", string(deps.Calculator.Maintenance)),
			zap.Bool("financial_auth", settings.Auth.RequireForFinancial),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("op", "main"), zap.String("signal", sig.String()))
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped cleanly", zap.String("op", "main"))
	return nil
}
