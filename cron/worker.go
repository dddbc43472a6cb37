// Package cron runs the background maintenance jobs: board snapshot refresh
// and backing service health probes.
package cron

import (
	"context"
	"fmt"
	"time"

	"chronoboard/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher re-reads every tracked school from the store.
type Refresher interface {
	ReloadAll(ctx context.Context) error
}

// WorkerConfig holds the job schedules in standard cron or @every syntax.
type WorkerConfig struct {
	RefreshSpec string
	HealthSpec  string
	JobTimeout  time.Duration
}

// Worker owns the cron scheduler.
type Worker struct {
	c         *cron.Cron
	refresher Refresher
	probes    []utils.HealthProbe
	timeout   time.Duration
	logger    *zap.Logger
}

// NewWorker registers the jobs. An empty spec disables that job.
func NewWorker(cfg WorkerConfig, refresher Refresher, probes []utils.HealthProbe) (*Worker, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	w := &Worker{
		refresher: refresher,
		probes:    probes,
		timeout:   cfg.JobTimeout,
		logger:    utils.GetLogger(),
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	w.c = cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if cfg.RefreshSpec != "" && refresher != nil {
		if _, err := w.c.AddFunc(cfg.RefreshSpec, w.RefreshSnapshots); err != nil {
			return nil, fmt.Errorf("cron: invalid refresh schedule %q: %w", cfg.RefreshSpec, err)
		}
	}
	if cfg.HealthSpec != "" && len(probes) > 0 {
		if _, err := w.c.AddFunc(cfg.HealthSpec, w.CheckHealth); err != nil {
			return nil, fmt.Errorf("cron: invalid health schedule %q: %w", cfg.HealthSpec, err)
		}
	}
	return w, nil
}

// Start runs the scheduler in the background after a first health check.
func (w *Worker) Start() {
	if len(w.probes) > 0 {
		w.CheckHealth()
	}
	w.c.Start()
	w.logger.Info("Maintenance worker started", zap.Int("jobs", len(w.c.Entries())))
}

// Stop waits for running jobs to finish or ctx to expire.
func (w *Worker) Stop(ctx context.Context) {
	select {
	case <-w.c.Stop().Done():
	case <-ctx.Done():
		w.logger.Warn("Maintenance worker stop timed out")
	}
}

// RefreshSnapshots reloads every tracked school so out-of-band store edits reach the boards.
func (w *Worker) RefreshSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	start := time.Now()
	if err := w.refresher.ReloadAll(ctx); err != nil {
		w.logger.Warn("Snapshot refresh finished with errors", zap.Error(err))
		return
	}
	w.logger.Debug("Snapshot refresh done", zap.Duration("took", time.Since(start)))
}

// CheckHealth probes every backing service and stores the result for /health.
func (w *Worker) CheckHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	status := utils.RunHealthCheck(ctx, w.probes)
	if !status.Healthy {
		w.logger.Warn("Backing service unhealthy", zap.Any("services", status.Services))
	}
}
