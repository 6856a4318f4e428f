package reliability

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackupJob runs the nightly backup: local dated copies of every database,
// plus a cloud archive and rotation when object storage is configured.
type BackupJob struct {
	backupService *BackupService
	cloud         *CloudBackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job. cloud may be nil when no object
// storage is configured; the job then only writes local backups.
func NewBackupJob(backupService *BackupService, cloud *CloudBackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backupService: backupService,
		cloud:         cloud,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup"
}

// Run performs the local backup, then the cloud upload and rotation
func (j *BackupJob) Run() error {
	if err := j.backupService.DailyBackup(j.retentionDays); err != nil {
		j.log.Error().Err(err).Msg("Local backup failed")
		return err
	}

	if j.cloud == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	if err := j.cloud.CreateAndUploadBackup(ctx); err != nil {
		j.log.Error().Err(err).Msg("Cloud backup failed")
		return err
	}

	if err := j.cloud.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Error().Err(err).Msg("Backup rotation failed")
		// Upload succeeded, rotation can catch up next run
	}

	return nil
}
