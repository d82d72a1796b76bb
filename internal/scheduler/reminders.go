package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository/mongodb"
	"github.com/mamadbah2/hatchery/pkg/clients/notify"
)

const reminderTitle = "Egg Batch Drop Reminder"

// ReminderScheduler registers one-shot drop reminders with the notification
// service. It deduplicates by batch id against an instance-owned set, warmed
// from the ledger, so a retried create never schedules twice and the set
// survives restarts.
type ReminderScheduler struct {
	client    notify.Client
	ledger    mongodb.ReminderLedger
	logger    *zap.Logger
	scheduled map[string]struct{}
	mu        sync.Mutex
}

// NewReminderScheduler creates a reminder scheduler instance.
func NewReminderScheduler(client notify.Client, ledger mongodb.ReminderLedger, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{
		client:    client,
		ledger:    ledger,
		logger:    logger,
		scheduled: make(map[string]struct{}),
	}
}

// Warm loads previously scheduled batch ids from the ledger into the dedupe set.
func (rs *ReminderScheduler) Warm(ctx context.Context) error {
	if rs.ledger == nil {
		return nil
	}

	records, err := rs.ledger.LoadScheduledReminders(ctx)
	if err != nil {
		return fmt.Errorf("warm reminder set: %w", err)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, rec := range records {
		rs.scheduled[rec.BatchID] = struct{}{}
	}

	rs.logger.Info("reminder set warmed", zap.Int("count", len(records)))
	return nil
}

// ScheduleDropReminder registers a one-shot notification at the batch's drop
// date. Invoking it again for an already scheduled id is a no-op.
func (rs *ReminderScheduler) ScheduleDropReminder(ctx context.Context, batch models.Batch) error {
	rs.mu.Lock()
	if _, exists := rs.scheduled[batch.ID]; exists {
		rs.mu.Unlock()
		rs.logger.Debug("reminder already scheduled", zap.String("batch_id", batch.ID))
		return nil
	}
	rs.mu.Unlock()

	dropAt := batch.DropDate()
	resp, err := rs.client.ScheduleOneShot(ctx, notify.ScheduleRequest{
		TriggerAt: dropAt,
		Title:     reminderTitle,
		Body:      fmt.Sprintf("Batch %s is due for dropping to trays tomorrow!", batch.Name),
	})
	if err != nil {
		return &models.SchedulingError{BatchID: batch.ID, Err: err}
	}

	rs.mu.Lock()
	rs.scheduled[batch.ID] = struct{}{}
	rs.mu.Unlock()

	rs.logger.Info("drop reminder scheduled",
		zap.String("batch_id", batch.ID),
		zap.String("batch_name", batch.Name),
		zap.Time("trigger_at", dropAt),
		zap.String("handle", resp.Handle))

	if rs.ledger != nil {
		rec := mongodb.ScheduledReminder{
			BatchID:   batch.ID,
			BatchName: batch.Name,
			Handle:    resp.Handle,
			TriggerAt: dropAt,
			CreatedAt: time.Now().UTC(),
		}
		// The reminder is already registered upstream; a ledger miss only
		// risks a duplicate after restart.
		if err := rs.ledger.SaveScheduledReminder(ctx, rec); err != nil {
			rs.logger.Error("failed to persist scheduled reminder", zap.String("batch_id", batch.ID), zap.Error(err))
		}
	}

	return nil
}

// Scheduled reports whether a reminder was already registered for the id.
func (rs *ReminderScheduler) Scheduled(id string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	_, exists := rs.scheduled[id]
	return exists
}
