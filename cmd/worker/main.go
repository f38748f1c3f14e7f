package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"modelreviews/internal/cache"
	"modelreviews/internal/config"
	"modelreviews/internal/database"
	"modelreviews/internal/log"
	"modelreviews/internal/queue"
	"modelreviews/internal/repository"
	"modelreviews/internal/storage"
	"modelreviews/internal/worker/tasks"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	producer := queue.NewProducer(client, cfg.Queue.Stream)
	processor := tasks.NewProcessor(
		repository.NewReviewRepository(dbPool),
		repository.NewReportRepository(dbPool),
		cache.NewReviewCache(client, cfg.Cache.ReviewsTTL),
		objectStore,
		producer,
		cfg.Moderation,
		logger,
	)
	consumer := queue.NewConsumer(
		client,
		cfg.Queue.Stream,
		cfg.Queue.Group,
		cfg.Queue.Consumer,
		cfg.Queue.ClaimInterval,
		logger,
		processor,
	)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("create consumer group failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
