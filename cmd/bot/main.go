package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/app"
	"github.com/edulane/lessonbot/internal/config"
	"github.com/edulane/lessonbot/internal/controller"
	"github.com/edulane/lessonbot/internal/repository"
	"github.com/edulane/lessonbot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting lesson bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base", cfg.APIBaseURL))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	client := api.NewClient(cfg.APIBaseURL, logger)

	sessionRepo := repository.NewSessionRepository(pool)
	sessions := service.NewSessionService(sessionRepo, logger)
	viewers := service.NewViewerService(client, sessions, logger)
	lessons := service.NewLessonService(client, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(botInstance, client, sessions, viewers, lessons, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	janitor := app.NewJanitor(sessionRepo, logger)
	janitor.Start(ctx)
	defer janitor.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot shut down")
}
