// main wires high-level dependencies and keeps the server lifecycle small.
// Business rules live in the engine; durability, audit, and transport are
// composed here from whatever the environment configures.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"relieffund/internal/audit"
	"relieffund/internal/journal"
	"relieffund/internal/journal/memory"
	"relieffund/internal/journal/postgres"
	"relieffund/internal/ledger"
	"relieffund/internal/platform/config"
	"relieffund/internal/platform/httpserver"
	"relieffund/internal/platform/logger"
	"relieffund/internal/platform/metrics"
	platformredis "relieffund/internal/platform/redis"
	"relieffund/internal/receipts"
	"relieffund/internal/service"
	"relieffund/internal/tokens"
	httptransport "relieffund/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.AdminAddress == "" {
		log.Error("RELIEF_ADMIN_ADDRESS is required")
		os.Exit(1)
	}
	admin, err := ledger.ParseAddress(cfg.AdminAddress)
	if err != nil {
		log.Error("invalid admin address", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store journal.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres journal init failed", "err", err)
			os.Exit(1)
		}
		store = pg
		log.Info("journal backend: postgres")
	} else {
		store = memory.New()
		log.Warn("journal backend: memory, state is lost on restart")
	}
	defer store.Close()

	opts := []service.Option{service.WithLogger(log)}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithReceiptCache(receipts.NewCache(redisClient.Client, cfg.ReceiptTTL)))
		log.Info("receipt cache enabled", "ttl", cfg.ReceiptTTL)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka publisher init failed", "err", err)
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
		log.Info("audit publisher enabled", "topic", cfg.KafkaTopic)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts = append(opts, service.WithMetrics(metrics.New(registry)))

	svc, err := service.New(ledger.New(admin), store, opts...)
	if err != nil {
		log.Error("service init failed", "err", err)
		os.Exit(1)
	}
	if err := svc.Recover(ctx); err != nil {
		log.Error("journal replay failed", "err", err)
		os.Exit(1)
	}

	auth := tokens.New([]byte(cfg.JWTSigningKey))
	router := httptransport.NewRouter(httptransport.NewHandler(svc, log), auth)
	srv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting relief fund API", "addr", cfg.Addr, "admin", admin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
