// Package scheduler runs the recurring queue-drain and extraction fan-out.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yamajodo/linkdir/internal/directory"
	"github.com/yamajodo/linkdir/internal/metrics"
)

// Config controls Scheduler behavior.
type Config struct {
	// Interval between drain cycles. A tick fires even when the queue is
	// empty (a no-op drain).
	Interval time.Duration
	// Workers bounds concurrent extractions within one cycle.
	Workers int
	// RequeueFailures re-enqueues transiently failed URLs for the next
	// cycle. Invalid URLs are never retried.
	RequeueFailures bool
}

const (
	defaultInterval = 5 * time.Second
	defaultWorkers  = 10
)

// EntryInserter is the slice of the store the scheduler writes through.
type EntryInserter interface {
	InsertIfAbsent(ctx context.Context, entry directory.Entry) (bool, error)
}

// Scheduler is the sole mover of submissions from the queue into the store.
// Cycles never overlap: each drain joins its whole batch before the next
// tick is honored.
type Scheduler struct {
	queue     directory.Queue
	extractor directory.Extractor
	store     EntryInserter
	logger    *zap.Logger
	cfg       Config
}

// New constructs a Scheduler.
func New(
	queue directory.Queue,
	extractor directory.Extractor,
	store EntryInserter,
	logger *zap.Logger,
	cfg Config,
) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Scheduler{
		queue:     queue,
		extractor: extractor,
		store:     store,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run blocks, draining the queue on a fixed interval until ctx finishes.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("ingestion scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("workers", s.cfg.Workers),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingestion scheduler stopped")
			return
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

// runBatch executes one drain cycle: drain, fan out, join.
func (s *Scheduler) runBatch(ctx context.Context) {
	if depth, err := s.queue.Len(ctx); err == nil {
		metrics.SetQueueDepth(depth)
	}

	urls, err := s.queue.DrainAll(ctx)
	if err != nil {
		// Pending submissions stay in the file and are retried next tick.
		s.logger.Warn("queue drain failed", zap.Error(err))
		return
	}
	if len(urls) == 0 {
		return
	}

	start := time.Now()
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				s.ingest(ctx, url)
			}
		}()
	}
	for _, url := range urls {
		jobs <- url
	}
	close(jobs)
	wg.Wait()

	metrics.ObserveBatch(time.Since(start))
	s.logger.Info("drain cycle complete",
		zap.Int("urls", len(urls)),
		zap.Duration("duration", time.Since(start)),
	)
}

// ingest processes one URL. Failures are isolated: they are logged, counted,
// and optionally re-enqueued, but never affect sibling URLs in the batch.
func (s *Scheduler) ingest(ctx context.Context, url string) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	entry, err := s.extractor.Extract(ctx, url)
	if err != nil {
		metrics.ObserveIngest(metrics.IngestFailed)
		s.logger.Warn("extraction failed", zap.String("url", url), zap.Error(err))
		if s.cfg.RequeueFailures && directory.TransientFetchError(err) {
			if qErr := s.queue.Enqueue(ctx, url); qErr != nil {
				s.logger.Error("requeue failed", zap.String("url", url), zap.Error(qErr))
			} else {
				metrics.ObserveIngest(metrics.IngestRequeued)
			}
		}
		return
	}

	inserted, err := s.store.InsertIfAbsent(ctx, entry)
	if err != nil {
		metrics.ObserveIngest(metrics.IngestFailed)
		s.logger.Error("store insert failed", zap.String("url", url), zap.Error(err))
		return
	}
	if !inserted {
		// Lost the race against a concurrent submission of the same URL.
		metrics.ObserveIngest(metrics.IngestDuplicate)
		s.logger.Debug("url already cataloged", zap.String("url", url))
		return
	}
	metrics.ObserveIngest(metrics.IngestInserted)
	s.logger.Info("url cataloged",
		zap.String("url", url),
		zap.String("domain", entry.Domain),
	)
}
