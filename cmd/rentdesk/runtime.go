package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/jask/rentdesk/internal/config"
	"github.com/jask/rentdesk/internal/database"
	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/logging"
	"github.com/jask/rentdesk/internal/reports"
	"github.com/jask/rentdesk/internal/service"
	"github.com/jask/rentdesk/internal/testdata"
)

const appName = "rentdesk"

// runtime holds everything a command needs once config is loaded.
type runtime struct {
	cfg     config.Config
	log     *logrus.Logger
	logFile io.Closer
	db      *sql.DB
	loc     *time.Location
	repos   testdata.Repos

	directory   *service.DirectoryService
	payments    *service.PaymentService
	reports     *service.ReportService
	maintenance *service.MaintenanceService
}

// openRuntime loads config, opens the log and the database, and builds the
// services. When logToFile is false the logger writes to stderr.
func openRuntime(v *viper.Viper, logToFile bool) (*runtime, error) {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, err
	}

	logPath := ""
	if logToFile {
		logPath = cfg.Log.File
	}
	log, logFile, err := logging.Open(appName, cfg.Log.Level, logPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.WithError(err).Warn("using local timezone")
		loc = time.Local
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	repos := testdata.Repos{
		Properties: repository.NewPropertyRepo(db),
		Units:      repository.NewUnitRepo(db),
		Leases:     repository.NewLeaseRepo(db),
		Tenants:    repository.NewTenantRepo(db),
		Payments:   repository.NewPaymentRepo(db),
	}
	rt := &runtime{
		cfg:     cfg,
		log:     log,
		logFile: logFile,
		db:      db,
		loc:     loc,
		repos:   repos,
		directory: &service.DirectoryService{
			Properties: repos.Properties,
			Units:      repos.Units,
			Leases:     repos.Leases,
			Tenants:    repos.Tenants,
		},
		payments: &service.PaymentService{Payments: repos.Payments, Log: log},
		reports: &service.ReportService{
			Payments:  repos.Payments,
			Generator: &reports.FileGenerator{OutputDir: cfg.Export.OutputDir},
			Log:       log,
		},
		maintenance: &service.MaintenanceService{DB: db},
	}
	log.WithField("db", cfg.Database.Path).Debug("runtime ready")
	return rt, nil
}

func (r *runtime) today() time.Time {
	y, m, d := time.Now().In(r.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *runtime) seed(ctx context.Context) error {
	if err := testdata.Seed(ctx, r.repos, r.today()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	r.log.Info("demo data seeded")
	return nil
}

func (r *runtime) Close() {
	_ = r.db.Close()
	_ = r.logFile.Close()
}
