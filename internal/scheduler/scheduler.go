package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/service/batches"
	"github.com/mamadbah2/hatchery/pkg/clients/notify"
)

// Scheduler manages the recurring jobs: the morning drop-due digest and the
// weekly hatch-outcome export.
type Scheduler struct {
	cron     *cron.Cron
	batchSvc *batches.Service
	notifier notify.Client
	exporter sheets.Exporter
	cfg      config.RemindersConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. The exporter may be nil when
// the sheets export is not configured.
func NewScheduler(cfg config.RemindersConfig, batchSvc *batches.Service, notifier notify.Client, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:     c,
		batchSvc: batchSvc,
		notifier: notifier,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the cron jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.DigestCronSchedule, s.sendDropDigest); err != nil {
		s.logger.Error("failed to schedule drop digest", zap.Error(err))
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportCronSchedule, s.exportHatchOutcomes); err != nil {
			s.logger.Error("failed to schedule hatch export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDropDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.batchSvc.Refresh(ctx); err != nil {
		s.logger.Error("digest refresh failed, using local view", zap.Error(err))
	}

	due := s.batchSvc.DueForDrop(time.Now())
	if len(due) == 0 {
		s.logger.Info("no batches due for dropping today")
		return
	}

	names := make([]string, 0, len(due))
	for _, batch := range due {
		names = append(names, batch.Name)
	}

	body := fmt.Sprintf("Due for dropping to trays today: %s", strings.Join(names, ", "))
	if err := s.notifier.Send(ctx, "Drop Day Digest", body); err != nil {
		s.logger.Error("failed to send drop digest", zap.Error(err))
		return
	}

	s.logger.Info("drop digest sent", zap.Int("batches", len(due)))
}

func (s *Scheduler) exportHatchOutcomes() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exported := 0
	for _, batch := range s.batchSvc.All() {
		if batch.HatchedCount == 0 {
			continue
		}
		if err := s.exporter.AppendOutcomeRow(ctx, batch); err != nil {
			s.logger.Error("failed to export batch outcome", zap.String("batch_id", batch.ID), zap.Error(err))
			continue
		}
		exported++
	}

	s.logger.Info("hatch outcomes exported", zap.Int("rows", exported))
}
