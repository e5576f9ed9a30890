package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/ratelimit"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/service/subscription"
	"github.com/ignite/newsletter/internal/token"
)

func parseLogLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DEBUG
	case "warn":
		return logger.WARN
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}

func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(parseLogLevel(cfg.Logging.Level), os.Stderr)
	if cfg.Logging.RedactPII != nil {
		appLog.SetRedactPII(*cfg.Logging.RedactPII)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	appLog.Info("connected to database")

	// Email transport
	ctx := context.Background()
	sender, err := email.NewSESSender(ctx, cfg.Email, appLog)
	if err != nil {
		log.Fatalf("Failed to initialize SES sender: %v", err)
	}

	// Core service
	repo := postgres.NewSubscriptionRepo(db)
	svc := subscription.NewService(repo, sender, token.NewGenerator(), cfg.App.BaseURL, appLog)

	// Optional intake rate limiting
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLog.Warn("redis unreachable, intake rate limiting degraded", "error", err)
		}
		limiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.PerIPLimit, cfg.RateLimit.Window())
		appLog.Info("intake rate limiting enabled",
			"per_ip_limit", cfg.RateLimit.PerIPLimit,
			"window", cfg.RateLimit.Window(),
		)
	}

	handlers := api.NewHandlers(svc, limiter, appLog)
	router := api.SetupRoutes(handlers, appLog)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLog.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	appLog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", "error", err)
	}
	appLog.Info("server stopped")
}
