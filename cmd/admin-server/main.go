package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classaction-admin/internal/api"
	"classaction-admin/internal/cache"
	"classaction-admin/internal/common/camunda"
	"classaction-admin/internal/common/config"
	"classaction-admin/internal/common/database"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/common/observability"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/records"
	"classaction-admin/internal/search"

	er "classaction-admin/internal/workers/dashboard/export-records"
	rrc "classaction-admin/internal/workers/dashboard/refresh-records-cache"
	ss "classaction-admin/internal/workers/dashboard/submission-stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := logger.New(logger.Options{Level: "info", Format: "console"})
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		panic(err)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	log.Info("starting admin server", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"store":       cfg.Store.Backend,
		"cache":       cfg.Cache.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(ctx, cfg.App.Name, cfg.App.Version, cfg.Tracing)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Warn("observability shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	checks := map[string]api.ReadinessCheck{}

	// --- Record store ---
	var store records.Store
	switch cfg.Store.Backend {
	case config.StorePostgres:
		var pg *database.PostgresClient
		err = database.RetryWithBackoff(ctx, func(ctx context.Context) error {
			var err error
			pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		log.Info("PostgreSQL connected", nil)

		store = records.NewPostgres(pg.DB, config.GetDuration(cfg.Store.QueryTimeout))
		checks["postgres"] = pg.Ping
	default:
		store = records.NewFixture()
		log.Warn("serving built-in fixture records", nil)
	}

	// --- Fetch cache ---
	var fetchCache cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		var rdb *database.RedisClient
		err = database.RetryWithBackoff(ctx, func(ctx context.Context) error {
			var err error
			rdb, err = database.ConnectRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		log.Info("Redis connected", nil)

		fetchCache = cache.NewRedis(rdb.Client, cfg.Cache.KeyPrefix, cfg.Cache.TTL())
		checks["redis"] = rdb.Ping
	default:
		fetchCache = cache.NewMemory()
	}

	location, err := cfg.App.Location()
	if err != nil {
		zapLog.Fatal("invalid timezone", zap.Error(err))
	}

	source := records.NewCached(store, fetchCache, cfg.Cache.TTL(), log)
	service := dashboard.NewService(source, log, dashboard.WithLocation(location))

	// --- Search ---
	var searcher api.SubmissionSearcher
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = database.RetryWithBackoff(ctx, func(ctx context.Context) error {
			var err error
			esClient, err = database.ConnectElasticsearch(ctx, cfg.Database.Elasticsearch)
			return err
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		log.Info("Elasticsearch connected", nil)

		searcher = search.NewSearcher(esClient.Client, cfg.Search.Index, config.GetDuration(cfg.Search.Timeout), log, search.WithLocation(location))
		checks["elasticsearch"] = esClient.Ping
	}

	// --- Workers ---
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err = database.RetryWithBackoff(ctx, func(ctx context.Context) error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		log.Info("Zeebe client connected", nil)
		checks["zeebe"] = zeebe.HealthCheck

		workers := []worker.JobWorker{
			camunda.StartWorker(zeebe.Zeebe(), er.TaskType, config.GetWorkerConfig(cfg, er.TaskType),
				er.NewHandler(er.LoadConfig(config.GetWorkerConfig(cfg, er.TaskType)), service, log).Handle, log),
			camunda.StartWorker(zeebe.Zeebe(), ss.TaskType, config.GetWorkerConfig(cfg, ss.TaskType),
				ss.NewHandler(ss.LoadConfig(config.GetWorkerConfig(cfg, ss.TaskType)), service, log).Handle, log),
			camunda.StartWorker(zeebe.Zeebe(), rrc.TaskType, config.GetWorkerConfig(cfg, rrc.TaskType),
				rrc.NewHandler(rrc.LoadConfig(config.GetWorkerConfig(cfg, rrc.TaskType)), service, log).Handle, log),
		}
		defer func() {
			for _, w := range workers {
				if w != nil {
					w.Close()
					w.AwaitClose()
				}
			}
		}()
	}

	// --- HTTP ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Service:      service,
		Search:       searcher,
		Logger:       log,
		AllowOrigins: cfg.Server.AllowOrigins,
		Checks:       checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("admin server stopped", nil)
}
