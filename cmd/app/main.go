package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/BuzzLyutic/todo-api/internal/config"
	"github.com/BuzzLyutic/todo-api/internal/handler"
	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/query"
	"github.com/BuzzLyutic/todo-api/internal/ratelimit"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/server"
	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/internal/upstream"
	"github.com/BuzzLyutic/todo-api/internal/worker"
)

const metricsNamespace = "todo_api"

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Хранилище задач живет в памяти процесса
	var seed []model.Todo
	if cfg.SeedData {
		seed = append(seed, model.Todo{
			ID:          "123",
			Title:       "test",
			Description: "test test",
			Status:      model.StatusPending,
			Priority:    model.PriorityMedium,
		})
	}
	todoRepo, err := repo.NewMemoryRepo(seed...)
	if err != nil {
		logger.Fatal("Failed to seed store", zap.Error(err))
	}

	var engineOpts []query.Option
	if cfg.QueryCollation != "" {
		tag, err := language.Parse(cfg.QueryCollation)
		if err != nil {
			logger.Fatal("invalid QUERY_COLLATION", zap.String("value", cfg.QueryCollation), zap.Error(err))
		}
		engineOpts = append(engineOpts, query.WithCollation(tag))
	}
	todoService := service.NewTodoService(todoRepo, query.NewEngine(engineOpts...))

	fetchMetrics := service.NewPrometheusMetrics(metricsNamespace)
	fetchMetrics.MustRegister(reg)
	externalService := service.NewExternalService(
		upstream.NewMock(upstream.WithLatency(cfg.UpstreamMinLatency, cfg.UpstreamMaxLatency)),
		worker.NewPool(logger, cfg.FanOutLimit),
		logger,
		service.WithMetrics(fetchMetrics),
	)

	limitMetrics := ratelimit.NewPrometheusMetrics(metricsNamespace)
	limitMetrics.MustRegister(reg)

	var stats ratelimit.StatsStore = ratelimit.NewMemoryStatsStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("Failed to ping Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		stats = ratelimit.NewRedisStatsStore(rdb,
			ratelimit.WithStatsPrefix(cfg.RateStatsPrefix),
			ratelimit.WithStatsTTL(cfg.RateStatsTTL),
		)
		logger.Info("Rate limit stats are written to Redis", zap.String("addr", cfg.RedisAddr))
	}

	router := server.NewRouter(server.Deps{
		Todos:    handler.NewTodoHandler(todoService, logger),
		External: handler.NewExternalHandler(externalService, logger),
		RateLimit: ratelimit.Options{
			Limiter: ratelimit.NewFixedWindow(cfg.RateLimit, cfg.RateWindow),
			Stats:   stats,
			Metrics: limitMetrics,
			Logger:  logger,
		},
		RequestTimeout: cfg.RequestTimeout,
		Gatherer:       reg,
		CORSOrigins:    cfg.CORSOrigins,
		AccessLog:      true,
	})

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started",
			zap.String("addr", srv.Addr),
			zap.Int("rate_limit", cfg.RateLimit),
			zap.Duration("rate_window", cfg.RateWindow),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
