// Package main wires together the directory service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yamajodo/linkdir/internal/api"
	"github.com/yamajodo/linkdir/internal/clock/system"
	"github.com/yamajodo/linkdir/internal/config"
	"github.com/yamajodo/linkdir/internal/dedup"
	"github.com/yamajodo/linkdir/internal/extract"
	"github.com/yamajodo/linkdir/internal/logging"
	"github.com/yamajodo/linkdir/internal/metrics"
	"github.com/yamajodo/linkdir/internal/policy/blocklist"
	"github.com/yamajodo/linkdir/internal/policy/ratelimit"
	"github.com/yamajodo/linkdir/internal/queue"
	"github.com/yamajodo/linkdir/internal/scheduler"
	"github.com/yamajodo/linkdir/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.New(ctx, postgres.Config{
		DSN:             cfg.DB.DSN,
		MaxConns:        int32(cfg.DB.MaxConns),
		MinConns:        int32(cfg.DB.MinConns),
		MaxConnLifetime: time.Duration(cfg.DB.ConnLifetimeMin) * time.Minute,
	})
	if err != nil {
		logger.Fatal("connect to database failed", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		logger.Fatal("init schema failed", zap.Error(err))
	}

	pending := queue.NewFileQueue(cfg.Queue.Path)
	guard := dedup.New(store, pending)
	blocked := blocklist.New(cfg.Submissions.BlockedDomains)
	clock := system.New()
	extractor := extract.New(extract.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		Limiter: ratelimit.New(ratelimit.Config{
			DefaultRPS:   cfg.HTTP.PerDomainRPS,
			DefaultBurst: cfg.HTTP.PerDomainBurst,
		}),
	}, clock, nil)

	sched := scheduler.New(pending, extractor, store, logger.Named("scheduler"), scheduler.Config{
		Interval:        cfg.DrainInterval(),
		Workers:         cfg.Ingest.Workers,
		RequeueFailures: cfg.Ingest.RequeueFailures,
	})

	apiServer := api.NewServer(store, pending, guard, blocked, store, logger.Named("api"), cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("ingest scheduler started",
			zap.Duration("interval", cfg.DrainInterval()),
			zap.Int("workers", cfg.Ingest.Workers),
		)
		sched.Run(ctx)
	}()

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
