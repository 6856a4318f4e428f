// EquityLens server: stock analysis engine with composite scoring,
// multi-horizon forecasting, valuation and trading signals.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/clientdata"
	"github.com/equitylens/equitylens/internal/clients/yahoo"
	"github.com/equitylens/equitylens/internal/config"
	"github.com/equitylens/equitylens/internal/database"
	"github.com/equitylens/equitylens/internal/events"
	"github.com/equitylens/equitylens/internal/modules/analysis"
	"github.com/equitylens/equitylens/internal/modules/history"
	"github.com/equitylens/equitylens/internal/modules/indicators"
	"github.com/equitylens/equitylens/internal/reliability"
	"github.com/equitylens/equitylens/internal/scheduler"
	"github.com/equitylens/equitylens/internal/server"
	"github.com/equitylens/equitylens/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	// Databases
	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileHistory,
		Name:    "history",
	})
	if err != nil {
		return err
	}
	defer historyDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return err
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{historyDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			return err
		}
	}

	// Events
	bus := events.NewBus()
	eventsMgr := events.NewManager(bus, log)

	// Services
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	historySvc := history.NewService(history.NewRepository(historyDB.Conn()), log)
	yahooClient := yahoo.NewClient(log)
	if cfg.VendorBaseURL != "" {
		yahooClient = yahoo.NewClientWithBaseURL(cfg.VendorBaseURL, log)
	}
	indicatorsSvc := indicators.NewService(log)

	analysisSvc := analysis.NewService(
		yahooClient,
		yahooClient,
		cacheRepo,
		historySvc,
		indicatorsSvc,
		eventsMgr,
		analysis.Config{
			HistoryRange:    cfg.HistoryRange,
			BenchmarkTicker: cfg.BenchmarkTicker,
		},
		log,
	)

	// Backups
	backupSvc := reliability.NewBackupService(
		map[string]*database.DB{"history": historyDB, "cache": cacheDB},
		filepath.Join(cfg.DataDir, "backups"),
		log,
	)
	var cloudBackupSvc *reliability.CloudBackupService
	if cfg.CloudBackupEnabled() {
		s3Client, err := reliability.NewS3Client(
			cfg.S3Endpoint,
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			cfg.S3Region,
			cfg.S3Bucket,
			log,
		)
		if err != nil {
			return err
		}
		cloudBackupSvc = reliability.NewCloudBackupService(s3Client, backupSvc, cfg.DataDir, eventsMgr, log)
		log.Info().Str("bucket", cfg.S3Bucket).Msg("Cloud backups enabled")
	} else {
		log.Info().Msg("Cloud backups disabled, keeping local backups only")
	}

	// Scheduler and jobs
	sched := scheduler.New(log)

	jobSchedules := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.RefreshSchedule, analysis.NewRefreshJob(analysisSvc, 10*time.Minute, log)},
		{"0 */30 * * * *", clientdata.NewCleanupJob(cacheRepo, log)},
		{"0 0 4 * * *", history.NewRetentionJob(history.NewRepository(historyDB.Conn()), 365, log)},
		{"0 15 * * * *", database.NewCheckpointJob([]*database.DB{historyDB, cacheDB}, log)},
		{"0 0 5 * * SUN", reliability.NewVacuumJob([]*database.DB{cacheDB}, log)},
		{cfg.BackupSchedule, reliability.NewBackupJob(backupSvc, cloudBackupSvc, cfg.RetentionDays, log)},
	}
	for _, js := range jobSchedules {
		if err := sched.AddJob(js.schedule, js.job); err != nil {
			return err
		}
	}

	// HTTP server
	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DataDir:   cfg.DataDir,
		DevMode:   cfg.DevMode,
		HistoryDB: historyDB,
		CacheDB:   cacheDB,
		EventBus:  bus,
		Scheduler: sched,
		Analysis:  analysis.NewHandlers(analysisSvc, log),
		History:   history.NewHandlers(historySvc, analysisSvc.CurrentPrice, log),
	})
	for _, js := range jobSchedules {
		srv.SystemHandlers().RegisterJob(js.job)
	}

	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
