package main

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/clients/cache"
	"max.ks1230/expense-tracker/internal/clients/kafka"
	"max.ks1230/expense-tracker/internal/clients/kv"
	"max.ks1230/expense-tracker/internal/clients/tg"
	"max.ks1230/expense-tracker/internal/config"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/messages"
	"max.ks1230/expense-tracker/internal/model/notify"
	"max.ks1230/expense-tracker/internal/model/storage"
	"max.ks1230/expense-tracker/internal/tracing"
)

const serviceName = "expense-tracker-bot"

func main() {
	logger.Info("Bot init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := tracing.Setup(serviceName, conf.Jaeger())
	if err != nil {
		logger.Error("failed to init tracing", zap.Error(err))
	} else {
		defer closer.Close()
	}

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init telegram client", zap.Error(err))
	}

	recordStorage, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	// the bot survives without memcached, reports just skip the cache
	reportCache, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Error("failed to init report cache", zap.Error(err))
		reportCache = nil
	}

	dispatcher, err := newDispatcher(conf)
	if err != nil {
		logger.Error("failed to init notifications", zap.Error(err))
	}

	msgService := messages.NewService(client, recordStorage, reportCache, dispatcher, conf.App())

	logger.Info("Bot init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client.ListenUpdates(ctx, msgService)
}

func newStorage(conf *config.Service) (storage.RecordStorage, error) {
	if conf.Storage().Backend() == config.BackendPostgres {
		return storage.NewPostgresStorage(conf.Postgres())
	}

	store, err := kv.NewFileStore(conf.Storage())
	if err != nil {
		return nil, err
	}
	return storage.NewKVStorage(store), nil
}

func newDispatcher(conf *config.Service) (*notify.Dispatcher, error) {
	producer, err := kafka.NewProducer(conf.Kafka())
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(producer), nil
}
