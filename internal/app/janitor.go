package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sessions older than this are dead weight: the backend's tokens expire
// within hours, so a row this stale can never authenticate again.
const maxSessionAge = 30 * 24 * time.Hour

const pruneInterval = 24 * time.Hour

// SessionPruner is the slice of the session store the janitor needs.
type SessionPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor runs background maintenance of the session store.
type Janitor struct {
	sessions SessionPruner
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewJanitor(sessions SessionPruner, logger *zap.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the pruning loop.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting session janitor")
	go j.runPruneLoop(ctx)
}

// Stop ends the pruning loop.
func (j *Janitor) Stop() {
	j.logger.Info("Stopping session janitor")
	close(j.stopChan)
}

func (j *Janitor) runPruneLoop(ctx context.Context) {
	// One pass right away, then daily.
	j.prune(ctx)

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.prune(ctx)
		case <-j.stopChan:
			j.logger.Info("Session pruning stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Session pruning cancelled")
			return
		}
	}
}

func (j *Janitor) prune(ctx context.Context) {
	removed, err := j.sessions.DeleteOlderThan(ctx, time.Now().Add(-maxSessionAge))
	if err != nil {
		j.logger.Error("Failed to prune stale sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("Pruned stale sessions", zap.Int64("removed", removed))
	}
}
