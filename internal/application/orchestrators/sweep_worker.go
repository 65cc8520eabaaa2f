package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepJob is one periodic maintenance task.
type SweepJob struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunSweep runs every job once, logging failures without stopping.
func RunSweep(ctx context.Context, jobs ...SweepJob) {
	for _, job := range jobs {
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			log.Error().Err(err).Str("job", job.Name).Msg("sweep_job_failed")
			continue
		}
		log.Debug().Str("job", job.Name).Dur("elapsed", time.Since(start)).Msg("sweep_job_done")
	}
}

// StartSweepWorker starts a background goroutine that runs jobs every interval.
// PRE: interval > 0; stopCh is closed to signal shutdown
// POST: Worker runs until stopCh is closed
func StartSweepWorker(interval time.Duration, stopCh <-chan struct{}, jobs ...SweepJob) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				RunSweep(ctx, jobs...)
				cancel()
			case <-stopCh:
				log.Info().Msg("sweep_worker_stopped")
				return
			}
		}
	}()
}

// AutoCheckOutJob wraps ExecuteAutoCheckOut as a sweep job.
func AutoCheckOutJob(maxHours int, deps AutoCheckOutDeps) SweepJob {
	return SweepJob{Name: "auto_check_out", Run: func(ctx context.Context) error {
		_, err := ExecuteAutoCheckOut(ctx, maxHours, deps)
		return err
	}}
}

// ExpireCardsJob wraps ExecuteExpireCards as a sweep job.
func ExpireCardsJob(deps ExpireCardsDeps) SweepJob {
	return SweepJob{Name: "expire_cards", Run: func(ctx context.Context) error {
		_, err := ExecuteExpireCards(ctx, deps)
		return err
	}}
}
