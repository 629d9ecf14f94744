// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"smartmatch/internal/api/handlers"
	"smartmatch/internal/common/config"
	"smartmatch/internal/common/database"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/common/observability"
	"smartmatch/internal/smartmatch/engine"
	"smartmatch/internal/smartmatch/recommend"
	"smartmatch/internal/smartmatch/remote"
	"smartmatch/internal/storage"
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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting SmartMatch server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	jaegerEndpoint := ""
	if cfg.Ranking.TracingEnabled {
		jaegerEndpoint = cfg.Ranking.JaegerEndpoint
	}
	obs := observability.New("smartmatch", jaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
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

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the ranking stack ---
	remoteClient := remote.NewClient(
		cfg.Ranking.RemoteURL,
		config.GetDuration(cfg.Ranking.RemoteTimeout),
		config.GetDuration(cfg.Ranking.LatencyBudget),
		log,
	)
	if remoteClient.Configured() {
		zapLog.Info("remote ranking service configured", zap.String("url", cfg.Ranking.RemoteURL))
	} else {
		zapLog.Info("no remote ranking service configured, ranking locally")
	}

	eng := engine.New(remoteClient, obs, log)
	listings := storage.NewListingStore(pg.GetDB(), log)
	percentiles := storage.NewPercentileStore(pg.GetDB(), rdb.GetClient(), config.GetDuration(cfg.Ranking.StatsCacheTTL), log)

	controller := recommend.NewController(eng, listings, percentiles, recommend.Defaults{
		PriceWeight:    cfg.Ranking.PriceWeight,
		DistanceWeight: cfg.Ranking.DistanceWeight,
		MaxResults:     cfg.Ranking.MaxResults,
	}, log)

	recHandler := handlers.NewRecommendationsHandler(controller, log)

	router := httprouter.New()
	router.POST("/api/v1/recommendations", recHandler.Fetch)
	router.DELETE("/api/v1/recommendations", recHandler.Clear)
	router.GET("/healthz", recHandler.Health)

	apiServer := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: config.GetDuration(cfg.Server.ReadTimeout),
	}

	// Ops endpoints: Prometheus metrics and pprof (registered by the
	// blank import on the default mux).
	opsMux := http.NewServeMux()
	opsMux.Handle("/metrics", promhttp.Handler())
	opsMux.Handle("/debug/pprof/", http.DefaultServeMux)
	opsServer := &http.Server{Addr: cfg.Server.OpsAddress, Handler: opsMux}

	go func() {
		zapLog.Info("ops server listening", zap.String("address", cfg.Server.OpsAddress))
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("ops server failed", zap.Error(err))
		}
	}()

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiServer.Shutdown(shutdownCtx)
	_ = opsServer.Shutdown(shutdownCtx)
	zapLog.Info("Shutdown complete")
}
