package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/configs"
	"workshop_backend/internals/metrics"
)

// Worker re-dispatches due outbox rows and purges old finished ones on cron schedules.
type Worker struct {
	store      Store
	dispatcher *Dispatcher
	cfg        configs.OutboxConfig
	cron       *cron.Cron
	now        func() time.Time
}

func NewWorker(store Store, dispatcher *Dispatcher, cfg configs.OutboxConfig) (*Worker, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	w := &Worker{
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(log.StandardLogger())),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger()))),
		),
	}

	if _, err := w.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		w.Tick(ctx)
	}); err != nil {
		return nil, fmt.Errorf("outbox schedule %q: %w", cfg.Schedule, err)
	}

	if _, err := w.cron.AddFunc(cfg.PurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		w.Purge(ctx)
	}); err != nil {
		return nil, fmt.Errorf("outbox purge schedule %q: %w", cfg.PurgeSchedule, err)
	}

	return w, nil
}

// lease covers one full batch of sends so a slow pass is not picked up twice.
func (w *Worker) lease() time.Duration {
	return time.Duration(w.cfg.BatchSize)*attemptBudget(w.dispatcher.opts.SendTimeout) + time.Minute
}

// Tick claims one batch of due rows and dispatches it.
func (w *Worker) Tick(ctx context.Context) Summary {
	rows, err := w.store.ClaimDue(ctx, w.now().UTC(), w.lease(), w.cfg.BatchSize)
	if err != nil {
		log.WithError(err).Error("outbox: claim due rows failed")
		return Summary{}
	}

	var sum Summary
	if len(rows) > 0 {
		sum = w.dispatcher.Dispatch(ctx, rows)
		log.WithFields(log.Fields{
			"claimed":   len(rows),
			"delivered": sum.Delivered,
			"queued":    sum.Queued,
			"fallback":  sum.Fallback,
			"retrying":  sum.Retrying,
			"dead":      sum.Dead,
		}).Info("outbox: batch dispatched")
	}

	if n, err := w.store.CountPending(ctx); err == nil {
		metrics.OutboxPending.Set(float64(n))
	}
	return sum
}

func (w *Worker) Purge(ctx context.Context) int64 {
	cutoff := w.now().UTC().Add(-w.cfg.Retention)
	n, err := w.store.PurgeDelivered(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("outbox: purge failed")
		return 0
	}
	log.WithFields(log.Fields{"removed": n, "cutoff": cutoff.Format(time.RFC3339)}).Info("outbox: purged finished rows")
	return n
}

// Run starts the schedules, runs one pass right away, and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.WithFields(log.Fields{
		"schedule":       w.cfg.Schedule,
		"purge_schedule": w.cfg.PurgeSchedule,
		"batch":          w.cfg.BatchSize,
	}).Info("outbox worker started")

	w.cron.Start()
	w.Tick(ctx)

	<-ctx.Done()
	stopped := w.cron.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(30 * time.Second):
		log.Warn("outbox worker: running job did not finish before shutdown")
	}
	log.Info("outbox worker stopped")
	return nil
}
