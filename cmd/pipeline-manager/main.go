// cmd/pipeline-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cv-screening-workers/internal/common/aws"
	"cv-screening-workers/internal/common/config"
	"cv-screening-workers/internal/common/database"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/common/observability"
	"cv-screening-workers/internal/extraction"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/notify"
	"cv-screening-workers/internal/pipeline"
	"cv-screening-workers/internal/pipeline/queue"
	"cv-screening-workers/internal/pipeline/scheduler"
	"cv-screening-workers/internal/search"
	"cv-screening-workers/internal/store"
	"cv-screening-workers/internal/workers/documentprocessor"
	"cv-screening-workers/internal/workers/sessionanalyzer"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting pipeline manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("pipeline-manager")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init Session Store with retry ---
	var sessionStore store.SessionStore
	switch cfg.Store.Driver {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		sessionStore = store.NewPostgresStore(pg.DB)

	default:
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		sessionStore = store.NewRedisStore(redis.Client)
	}

	// --- Init Elasticsearch (optional) ---
	var indexer *search.Indexer
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		indexer = search.NewIndexer(esClient, cfg.Database.Elasticsearch.Index, log)
	}

	// --- Init Notification Sinks ---
	sinks := []notify.Sink{notify.NewLogSink(log)}

	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		sinks = append(sinks, notify.NewSNSSink(snsClient, cfg.Notifications.SNS.TopicARN, log))
		zapLog.Info("SNS sink enabled", zap.String("topicArn", cfg.Notifications.SNS.TopicARN))
	}

	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sinks = append(sinks, notify.NewEmailSink(sesClient,
			cfg.Notifications.Email.FromEmail, cfg.Notifications.Email.ToEmail, log))
		zapLog.Info("SES sink enabled")
	}

	notifier := notify.NewMulti(sinks...)

	// --- Queues, Workers, Scheduler ---
	docQueue := queue.New[models.DocumentProcessingJob](cfg.Pipeline.DocumentQueueCapacity)
	analysisQueue := queue.New[models.SessionAnalysisJob](cfg.Pipeline.AnalysisQueueCapacity)

	extractor := extraction.NewClient(extraction.NewConfig(cfg.Extraction), log)

	docConfig := documentprocessor.NewConfig(cfg.Pipeline)
	docHandler := documentprocessor.NewHandler(sessionStore, extractor, notifier, log)
	docPool := documentprocessor.NewPool(docConfig, docQueue, docHandler, obs, log)

	analyzerConfig := sessionanalyzer.NewConfig(cfg.Pipeline)
	analyzerHandler := sessionanalyzer.NewHandler(analyzerConfig, sessionStore, notifier, indexer, log)
	analyzerLoop := sessionanalyzer.NewLoop(analyzerConfig, analysisQueue, analyzerHandler, obs, log)

	sched := scheduler.New(scheduler.Config{
		PollInterval: time.Duration(cfg.Pipeline.PollIntervalSec) * time.Second,
		TickBackoff:  time.Duration(cfg.Pipeline.TickBackoffSec) * time.Second,
	}, sessionStore, docQueue, analysisQueue, log)

	service := pipeline.NewService(sessionStore, docQueue, analysisQueue, log)

	var wg sync.WaitGroup
	docPool.Start(ctx, &wg)
	analyzerLoop.Start(ctx, &wg)

	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	zapLog.Info("Pipeline started",
		zap.Int("documentWorkers", docConfig.WorkerCount),
		zap.Int("documentQueueCapacity", docQueue.Cap()),
		zap.Int("analysisQueueCapacity", analysisQueue.Cap()),
	)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":             "ready",
				"documentQueueDepth": service.DocumentQueueDepth(),
				"analysisQueueDepth": service.AnalysisQueueDepth(),
				"time":               time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping pipeline...")

	// Stop the scheduler and workers, refuse new jobs, wait out the
	// grace period for in-flight ones.
	cancel()
	docQueue.Close()
	analysisQueue.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		zapLog.Info("All workers stopped")
	case <-time.After(30 * time.Second):
		zapLog.Warn("Shutdown timeout exceeded, exiting anyway")
	}

	zapLog.Info("Pipeline manager stopped gracefully")
}
