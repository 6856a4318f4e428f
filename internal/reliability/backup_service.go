package reliability

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/database"
)

// BackupService manages local database backups using VACUUM INTO.
// VACUUM INTO produces an atomic, WAL-free copy of a live database.
type BackupService struct {
	databases map[string]*database.DB
	backupDir string
	log       zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(databases map[string]*database.DB, backupDir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		databases: databases,
		backupDir: backupDir,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// DatabaseNames returns the names of the registered databases, sorted.
// The cache database is excluded unless includeCache is set: its contents
// are refetchable and usually not worth archiving.
func (s *BackupService) DatabaseNames(includeCache bool) []string {
	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		if name == "cache" && !includeCache {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BackupDatabase copies one database to backupPath and verifies the copy
func (s *BackupService) BackupDatabase(name, backupPath string) error {
	db, ok := s.databases[name]
	if !ok {
		return fmt.Errorf("database %s not found", name)
	}

	s.log.Debug().
		Str("database", name).
		Str("backup_path", backupPath).
		Msg("Backing up database")

	_, err := db.Conn().Exec(fmt.Sprintf("VACUUM INTO '%s'", backupPath))
	if err != nil {
		return fmt.Errorf("VACUUM INTO failed for %s: %w", name, err)
	}

	if err := s.verifyBackup(backupPath); err != nil {
		os.Remove(backupPath)
		return fmt.Errorf("backup verification failed for %s: %w", name, err)
	}

	return nil
}

// DailyBackup copies every non-cache database into a dated directory and
// rotates directories beyond retentionDays.
func (s *BackupService) DailyBackup(retentionDays int) error {
	s.log.Info().Msg("Starting daily backup")
	startTime := time.Now()

	date := time.Now().Format("2006-01-02")
	dailyDir := filepath.Join(s.backupDir, "daily", date)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return fmt.Errorf("failed to create daily backup directory: %w", err)
	}

	for _, name := range s.DatabaseNames(false) {
		backupPath := filepath.Join(dailyDir, name+".db")
		if err := s.BackupDatabase(name, backupPath); err != nil {
			s.log.Error().Err(err).Str("database", name).Msg("Failed to backup database")
			// Continue with other databases
		}
	}

	if err := s.rotateDailyBackups(retentionDays); err != nil {
		s.log.Error().Err(err).Msg("Failed to rotate daily backups")
		// Don't fail - backup succeeded
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("backup_dir", dailyDir).
		Msg("Daily backup completed")

	return nil
}

// verifyBackup opens the copy and runs a quick integrity check
func (s *BackupService) verifyBackup(backupPath string) error {
	backupDB, err := sql.Open("sqlite", backupPath)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer backupDB.Close()

	var result string
	if err := backupDB.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("quick_check reported: %s", result)
	}
	return nil
}

// rotateDailyBackups removes dated backup directories older than the
// retention window. retentionDays <= 0 keeps everything.
func (s *BackupService) rotateDailyBackups(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	dailyRoot := filepath.Join(s.backupDir, "daily")
	entries, err := os.ReadDir(dailyRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, err := time.Parse("2006-01-02", entry.Name())
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			dir := filepath.Join(dailyRoot, entry.Name())
			if err := os.RemoveAll(dir); err != nil {
				s.log.Error().Err(err).Str("dir", dir).Msg("Failed to remove old backup")
				continue
			}
			s.log.Info().Str("dir", dir).Msg("Removed old daily backup")
		}
	}

	return nil
}
