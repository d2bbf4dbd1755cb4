package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bgcompose/internal/api"
	"bgcompose/internal/config"
	"bgcompose/internal/pipeline"
	"bgcompose/internal/ratelimit"
	"bgcompose/internal/rembg"
	"bgcompose/internal/telemetry"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Trace, logger)
	if err != nil {
		logger.Fatal("setup tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	remover := rembg.NewClient(rembg.Config{
		BaseURL: cfg.Rembg.BaseURL,
		Timeout: cfg.Rembg.Timeout,
	})
	processor := pipeline.NewProcessor(cfg.Upload, remover, logger)

	var limiter api.RateLimiter
	if cfg.RateLimit.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		limiter, err = ratelimit.NewTokenBucket(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute)
		if err != nil {
			logger.Fatal("setup rate limiter", zap.Error(err))
		}
		logger.Info("rate limiting enabled",
			zap.String("redis_addr", cfg.RateLimit.RedisAddr),
			zap.Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute),
		)
	}

	app := api.NewServer(logger, processor, cfg.Upload, limiter)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
