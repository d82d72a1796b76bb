package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository/mongodb"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/scheduler"
	"github.com/mamadbah2/hatchery/internal/server/handlers"
	"github.com/mamadbah2/hatchery/internal/server/router"
	batchsvc "github.com/mamadbah2/hatchery/internal/service/batches"
	reportingsvc "github.com/mamadbah2/hatchery/internal/service/reporting"
	"github.com/mamadbah2/hatchery/pkg/clients/batchapi"
	"github.com/mamadbah2/hatchery/pkg/clients/notify"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ledger, err := mongodb.NewMongoReminderLedger(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init reminder ledger", zap.Error(err))
	}
	defer func() {
		if err := ledger.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	apiClient := batchapi.NewClient(cfg.BatchAPI)
	farmScope := cfg.BatchAPI.FarmScope
	if cfg.BatchAPI.Email != "" && cfg.BatchAPI.Password != "" {
		signIn, err := apiClient.SignIn(context.Background(), cfg.BatchAPI.Email, cfg.BatchAPI.Password)
		if err != nil {
			baseLogger.Fatal("failed to sign in against batch api", zap.Error(err))
		}
		if farmScope == "" {
			farmScope = signIn.FarmName
		}
		baseLogger.Info("signed in", zap.String("farm_scope", farmScope))
	}

	notifyClient := notify.NewClient(cfg.Notify)

	reminderSched := scheduler.NewReminderScheduler(notifyClient, ledger, baseLogger.Named("scheduler.reminders"))
	if err := reminderSched.Warm(context.Background()); err != nil {
		baseLogger.Error("failed to warm reminder set, duplicates possible", zap.Error(err))
	}

	store := batchsvc.NewStore()
	batchService := batchsvc.NewService(apiClient, store, reminderSched, farmScope, baseLogger.Named("svc.batches"))

	refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), 30*time.Second)
	if err := batchService.Refresh(refreshCtx); err != nil {
		baseLogger.Error("initial refresh failed, starting with empty store", zap.Error(err))
	}
	cancelRefresh()

	// Initialize the optional hatch-outcome export
	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("hatch outcome export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, hatch outcome export disabled")
	}

	reportingSvc := reportingsvc.NewService(batchService, baseLogger.Named("svc.reporting"))
	batchHandler := handlers.NewBatchHandler(batchService, reportingSvc, baseLogger.Named("handlers.batches"))
	engine := router.New(batchHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Reminders, batchService, notifyClient, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
