package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshJob re-analyzes every tracked ticker on a schedule
type RefreshJob struct {
	svc     *Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a new tracked-ticker refresh job
func NewRefreshJob(svc *Service, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &RefreshJob{
		svc:     svc,
		timeout: timeout,
		log:     log.With().Str("job", "tracked_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "tracked_refresh"
}

// Run refreshes all tracked tickers
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.svc.RefreshTracked(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Tracked refresh failed")
		return err
	}

	j.log.Info().
		Int("succeeded", len(result.Records)).
		Int("failed", len(result.Failed)).
		Msg("Tracked tickers refreshed")
	return nil
}
