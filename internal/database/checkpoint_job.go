package database

import (
	"github.com/rs/zerolog"
)

// CheckpointJob truncates the WAL of every registered database. Without a
// periodic checkpoint the WAL file grows unbounded on write-heavy tables.
type CheckpointJob struct {
	dbs []*DB
	log zerolog.Logger
}

// NewCheckpointJob creates a new WAL checkpoint job
func NewCheckpointJob(dbs []*DB, log zerolog.Logger) *CheckpointJob {
	return &CheckpointJob{
		dbs: dbs,
		log: log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *CheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every database. A single failure doesn't stop the rest;
// the first error is returned.
func (j *CheckpointJob) Run() error {
	var firstErr error
	for _, db := range j.dbs {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.log.Debug().Str("database", db.Name()).Msg("WAL checkpoint completed")
	}
	return firstErr
}
