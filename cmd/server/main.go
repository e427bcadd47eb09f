package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"accessaudit/application/api"
	"accessaudit/application/engagement"
	"accessaudit/application/execution"
	"accessaudit/application/report"
	"accessaudit/config"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
	"accessaudit/domain/storage"
	"accessaudit/handler"
	"accessaudit/handler/middleware"
	httpadapter "accessaudit/infrastructure/handlers/http"
	lambdaadapter "accessaudit/infrastructure/handlers/lambda"
	"accessaudit/infrastructure/observability/noop"
	promadapter "accessaudit/infrastructure/observability/prometheus"
	"accessaudit/infrastructure/observability/stdout"
	"accessaudit/infrastructure/repository/mongo"
	memstorage "accessaudit/infrastructure/storage/memory"
	s3storage "accessaudit/infrastructure/storage/s3"
	nethttp "net/http"
)

func main() {
	config.MustLoad()
	cfg := config.MustGet()

	logger := stdout.NewLogger(cfg.LogLevel, cfg.IsProduction())
	metrics, metricsHandler := initializeMetrics(cfg)

	logger.Info("Starting application",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
		"runtime", cfg.Handler.Runtime)
	metrics.IncrementCounter("application.starts", nil)

	store := connectStore(cfg, logger, metrics)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	objects := initializeStorage(cfg, logger, metrics)

	registry := buildRegistry(cfg, store, objects, logger, metrics)

	adapter := buildAdapter(cfg, registry, metricsHandler)

	logger.Info("Starting handler", "operations", len(registry.Operations()))
	if err := adapter.Start(); err != nil {
		logger.Error("Failed to start handler", "error", err)
		log.Fatalf("Failed to start: %v", err)
	}
}

func initializeMetrics(cfg *config.Config) (observability.Metrics, nethttp.Handler) {
	if !cfg.Handler.EnableMetrics {
		return noop.NewMetrics(), nil
	}
	m := promadapter.New(cfg.ServiceName)
	return m, promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})
}

func connectStore(cfg *config.Config, logger observability.Logger, metrics observability.Metrics) *mongo.Store {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	store, err := mongo.Connect(ctx, &cfg.Mongo, logger, metrics)
	if err != nil {
		logger.Error("Failed to connect to document store", "error", err)
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	return store
}

func initializeStorage(cfg *config.Config, logger observability.Logger, metrics observability.Metrics) storage.ObjectStorage {
	if cfg.Storage.Adapter == "memory" {
		logger.Info("Using in-memory attachment storage")
		return memstorage.New("")
	}

	objects, err := s3storage.New(&cfg.Storage, logger, metrics)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	return objects
}

func buildRegistry(cfg *config.Config, store *mongo.Store, objects storage.ObjectStorage, logger observability.Logger, metrics observability.Metrics) *handler.Registry {
	var (
		projects  repository.ProjectRepository  = store.Projects()
		scenarios repository.ScenarioRepository = store.Scenarios()
		testcases repository.TestCaseRepository = store.TestCases()
		users     repository.UserDirectory     = store.Users()
	)

	eng := engagement.NewService(projects, users, logger, metrics)
	exec := execution.NewService(projects, scenarios, testcases, users, objects, logger, metrics)
	rep := report.NewBuilder(projects, scenarios, testcases, users, logger, metrics)

	middlewares := []handler.Middleware{
		middleware.Recovery(logger),
		middleware.Logging(logger),
	}
	if cfg.Handler.EnableMetrics {
		middlewares = append(middlewares, middleware.Metrics(metrics))
	}

	return handler.NewRegistry(logger, metrics, cfg.Handler.Timeout, middlewares, api.Routes(eng, exec, rep))
}

func buildAdapter(cfg *config.Config, registry *handler.Registry, metricsHandler nethttp.Handler) handler.Adapter {
	if cfg.Handler.Runtime == "lambda" {
		return lambdaadapter.NewAdapter(registry)
	}
	return httpadapter.NewAdapter(registry, cfg, metricsHandler)
}
