// Package wire provides dependency injection for the cruisebot application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/cruisebot/internal/adapters/dump"
	"github.com/example/cruisebot/internal/adapters/eventapi"
	"github.com/example/cruisebot/internal/adapters/notifylog"
	"github.com/example/cruisebot/internal/adapters/sheets"
	"github.com/example/cruisebot/internal/adapters/sqlite"
	"github.com/example/cruisebot/internal/adapters/term"
	"github.com/example/cruisebot/internal/adapters/webhook"
	"github.com/example/cruisebot/internal/app"
	"github.com/example/cruisebot/internal/config"
	"github.com/example/cruisebot/internal/db"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
	"github.com/example/cruisebot/internal/sched"
)

var (
	cfg           *config.Config
	logger        *zap.Logger
	ledgerService primary.LedgerService
	scheduler     *sched.Scheduler
	once          sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the singleton logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// Scheduler returns the singleton background scheduler.
func Scheduler() *sched.Scheduler {
	once.Do(initServices)
	return scheduler
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger = newLogger(cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	ledger := sqlite.NewLedger(database)
	source := sheets.NewFetcher(cfg.SheetURLTemplate, logger)
	dumpWriter := dump.NewWriter(cfg.DumpPath, logger)
	confirmer := term.NewConfirmer(os.Stdin, os.Stdout, cfg.ConfirmTimeout)

	var notifier secondary.Notifier
	if cfg.WebhookURL != "" {
		notifier = webhook.NewNotifier(cfg.WebhookURL, logger)
	} else {
		notifier = notifylog.NewNotifier(logger)
	}

	ledgerService = app.NewLedgerService(ledger, source, notifier, dumpWriter, confirmer, logger, app.Options{
		EventDuration: cfg.EventDuration,
		ReminderAfter: cfg.ReminderAfter,
	})

	var probe secondary.EventProbe
	if cfg.EventStateURL != "" {
		probe = eventapi.NewProbe(cfg.EventStateURL, logger)
	}
	scheduler = sched.NewScheduler(ledgerService, probe, logger, sched.Intervals{
		EventPoll:    cfg.PollInterval,
		Reconcile:    cfg.ReconcileEvery,
		IdleReminder: cfg.ReminderEvery,
	})
}

// newLogger builds the production logger at the configured level.
func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return l
}
