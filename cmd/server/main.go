// Command server runs the enrollment intake gateway: one public submission
// endpoint behind fixed-window admission, plus health, metrics, and a small
// operator surface. main only wires dependencies; business logic lives in
// the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"matricula/internal/audit"
	auditkafka "matricula/internal/audit/kafka"
	enrollmenthandler "matricula/internal/enrollment/handler"
	enrollmentservice "matricula/internal/enrollment/service"
	"matricula/internal/enrollment/store"
	memstore "matricula/internal/enrollment/store/memory"
	pgstore "matricula/internal/enrollment/store/postgres"
	"matricula/internal/platform/config"
	"matricula/internal/platform/httpserver"
	"matricula/internal/platform/logger"
	"matricula/internal/platform/metrics"
	platformredis "matricula/internal/platform/redis"
	ratelimitadmin "matricula/internal/ratelimit/admin"
	ratelimitmw "matricula/internal/ratelimit/middleware"
	"matricula/internal/ratelimit/ports"
	ratelimitservice "matricula/internal/ratelimit/service"
	bucketstore "matricula/internal/ratelimit/store/bucket"
	"matricula/pkg/platform/httputil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Audit trail: kafka when brokers are configured, in-process otherwise.
	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := auditkafka.New(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("publishing audit events to kafka", "brokers", cfg.KafkaBrokers)
	} else {
		sink = audit.NewInMemorySink()
		log.Warn("KAFKA_BROKERS unset, audit events stay in process")
	}
	publisher := audit.NewPublisher(sink, log)

	// Rate-limit buckets: redis when configured, in-process otherwise.
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	var buckets ports.BucketStore
	var memBuckets *bucketstore.InMemoryBucketStore
	if redisClient != nil {
		buckets = bucketstore.NewRedis(redisClient)
		log.Info("rate limiting on redis", "url", cfg.RedisURL)
	} else {
		memBuckets = bucketstore.New()
		buckets = memBuckets
		log.Info("rate limiting in process")
	}

	limiter, err := ratelimitservice.New(buckets, cfg.RateLimit,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(m),
		ratelimitservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	// Submission store: postgres when configured, in-memory otherwise.
	var submissions store.Store
	var pg *pgstore.Store
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		pg = pgstore.New(db)
		submissions = pg
		log.Info("storing enrollments in postgres")
	} else {
		submissions = memstore.New()
		log.Warn("DATABASE_URL unset, storing enrollments in memory")
	}

	intake, err := enrollmentservice.New(submissions,
		enrollmentservice.WithLogger(log),
		enrollmentservice.WithMetrics(m),
		enrollmentservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Get("/healthz", healthz(log, pg, redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	ratelimitadmin.New(limiter, log, cfg.AdminKeyHash).Register(router)
	enrollmenthandler.New(intake, log, m).Register(router, ratelimitmw.RateLimit(limiter, log))

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return publisher.Run(groupCtx)
	})

	if memBuckets != nil {
		group.Go(func() error {
			return memBuckets.RunSweeper(groupCtx, cfg.RateLimit.Window)
		})
	}

	group.Go(func() error {
		log.Info("starting enrollment intake gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// healthz reports liveness plus the health of whichever backends are wired.
func healthz(log *slog.Logger, pg *pgstore.Store, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if pg != nil {
			if err := pg.Health(ctx); err != nil {
				log.ErrorContext(ctx, "postgres health check failed", "error", err.Error())
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Envelope{Error: "store unavailable"})
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				log.ErrorContext(ctx, "redis health check failed", "error", err.Error())
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Envelope{Error: "rate limit backend unavailable"})
				return
			}
		}
		httputil.WriteSuccess(w, "ok")
	}
}
