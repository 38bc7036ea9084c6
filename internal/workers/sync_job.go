package workers

import (
	"context"
	"errors"
	"time"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/service"
)

// SyncJob triggers a vault sync cycle on a fixed interval. Failures are
// logged and absorbed: background sync is opportunistic, the user can always
// trigger one explicitly.
type SyncJob struct {
	engine   service.SyncEngine
	interval time.Duration
	logger   *logger.Logger
}

// NewSyncJob builds the periodic sync worker. A non-positive interval
// disables it.
func NewSyncJob(engine service.SyncEngine, interval time.Duration, log *logger.Logger) *SyncJob {
	return &SyncJob{engine: engine, interval: interval, logger: log}
}

// Run implements [Worker].
func (j *SyncJob) Run(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Debug().Msg("background sync disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info().Dur("interval", j.interval).Msg("background sync started")
	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("background sync stopped")
			return
		case <-ticker.C:
			err := j.engine.Sync(ctx)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrVaultLocked):
				// Locked sessions simply skip the tick.
			case errors.Is(err, context.Canceled):
			default:
				j.logger.Warn().Err(err).Msg("background sync cycle failed")
			}
		}
	}
}
