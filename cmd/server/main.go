package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"servicedirectory/docs"
	"servicedirectory/internal/app"
	"servicedirectory/internal/auth"
	"servicedirectory/internal/config"
	"servicedirectory/internal/events"
	"servicedirectory/internal/handler"
	"servicedirectory/internal/logging"
	"servicedirectory/internal/metrics"
	"servicedirectory/internal/router"
	"servicedirectory/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Service Directory API
// @version 1.0
// @description Directory of mosques, hotels and hospitals searchable by postal code, with account registration and JWT sessions.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()
	logger.Info("store ready", zap.String("driver", cfg.StoreDriver))

	cacheClient := app.OpenCache(ctx, cfg, logger)
	defer cacheClient.Close()

	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}

	publisher, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("event publishing disabled", zap.Error(err))
		publisher = events.Nop{}
	}
	defer publisher.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	directoryService := service.NewDirectoryService(stores.Services, cacheClient, store, publisher, logger, cfg.CacheTTL)
	authService := service.NewAuthService(stores.Users, jwtService, tokenStore, publisher, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		logger,
		metrics.NewHTTPMetrics(reg),
		jwtService,
		handler.NewServiceHandler(directoryService),
		handler.NewAuthHandler(authService),
		handler.NewImageHandler(store, logger),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	logger.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
