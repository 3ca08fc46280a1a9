package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chativo/backend/internal/config"
	"github.com/chativo/backend/internal/mailer"
	"github.com/chativo/backend/pkg/database"
	"github.com/chativo/backend/pkg/observability"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	redis, err := database.NewRedis(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()

	templates, err := mailer.NewTemplates()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	consumer := mailer.NewConsumer(
		redis,
		cfg.Mailer,
		cfg.Security.ResetCodeTTL.Duration,
		templates,
		mailer.NewSender(cfg.SMTP),
		logger,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Received shutdown signal")
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil {
		logger.Fatal("Mailer failed", zap.Error(err))
	}
}
