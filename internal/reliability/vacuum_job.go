package reliability

import (
	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/database"
)

// VacuumJob reclaims free pages from churn-heavy databases. The cache
// database deletes expired rows constantly and fragments without this.
type VacuumJob struct {
	dbs []*database.DB
	log zerolog.Logger
}

// NewVacuumJob creates a new vacuum job
func NewVacuumJob(dbs []*database.DB, log zerolog.Logger) *VacuumJob {
	return &VacuumJob{
		dbs: dbs,
		log: log.With().Str("job", "vacuum").Logger(),
	}
}

// Name returns the job name
func (j *VacuumJob) Name() string {
	return "vacuum"
}

// Run vacuums every registered database. A single failure doesn't stop the
// rest; the first error is returned.
func (j *VacuumJob) Run() error {
	var firstErr error
	for _, db := range j.dbs {
		if err := db.Vacuum(); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("VACUUM failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.log.Info().Str("database", db.Name()).Msg("VACUUM completed")
	}
	return firstErr
}
