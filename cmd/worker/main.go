package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/anup-shanbhag/TrelloQuora/internal/cache"
	"github.com/anup-shanbhag/TrelloQuora/internal/config"
	"github.com/anup-shanbhag/TrelloQuora/internal/log"
	"github.com/anup-shanbhag/TrelloQuora/internal/queue"
	"github.com/anup-shanbhag/TrelloQuora/internal/storage"
	"github.com/anup-shanbhag/TrelloQuora/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.NewWithLevel(cfg.Environment, cfg.Worker.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	var archive *storage.ArchiveStore
	if cfg.Storage.Endpoint != "" {
		archive, err = storage.NewArchiveStore(cfg.Storage, cfg.Security.ArchiveSecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init archive store")
		}
	}

	var processor *tasks.Processor
	if archive != nil {
		processor = tasks.NewProcessor(client, archive, cfg.Jobs.ArchiveRetention, logger)
	} else {
		processor = tasks.NewProcessor(client, nil, cfg.Jobs.ArchiveRetention, logger)
	}

	consumer := queue.NewConsumer(client, cfg.Events.Stream, cfg.Worker, logger, processor)

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	logger.Info().
		Str("stream", cfg.Events.Stream).
		Str("group", cfg.Worker.Group).
		Msg("worker started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
