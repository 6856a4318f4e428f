package history

import (
	"time"

	"github.com/rs/zerolog"
)

// RetentionJob trims analysis history beyond the retention window
type RetentionJob struct {
	repo          *Repository
	retentionDays int
	log           zerolog.Logger
}

// NewRetentionJob creates a new history retention job
func NewRetentionJob(repo *Repository, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:          repo,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "history_retention").Logger(),
	}
}

// Name returns the job name
func (j *RetentionJob) Name() string {
	return "history_retention"
}

// Run deletes history entries older than the retention window
func (j *RetentionJob) Run() error {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("History retention failed")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Int("retention_days", j.retentionDays).
			Msg("Trimmed analysis history")
	}
	return nil
}
