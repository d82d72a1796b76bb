package batches

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/pkg/clients/batchapi"
)

// DropReminderScheduler registers the one-shot drop reminder for a batch.
type DropReminderScheduler interface {
	ScheduleDropReminder(ctx context.Context, batch models.Batch) error
}

// BatchService describes the operations the HTTP layer can perform.
type BatchService interface {
	CreateBatch(ctx context.Context, input CreateBatchInput) (*CreateBatchResult, error)
	UpdateHatchedCount(ctx context.Context, id string, hatchedCount int) (models.Batch, error)
	Refresh(ctx context.Context) error
	CalendarView(selectedDate string) models.CalendarView
	All() []models.Batch
}

// Service coordinates writes against the remote batch API and reconciles the
// results into the local store. The store is mutated only after a remote call
// settles, so no rollback logic is needed.
type Service struct {
	api       batchapi.Client
	store     *Store
	reminders DropReminderScheduler
	farmScope string
	logger    *zap.Logger
}

// NewService wires a new batch service instance.
func NewService(api batchapi.Client, store *Store, reminders DropReminderScheduler, farmScope string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		store:     store,
		reminders: reminders,
		farmScope: farmScope,
		logger:    logger,
	}
}

// CreateBatchInput carries the operator-supplied fields for a new batch.
type CreateBatchInput struct {
	Name       string
	IntakeDate string
	EggCount   int
}

// CreateBatchResult reports a successful creation. ReminderScheduled is false
// when the notification service rejected the reminder; the batch still exists.
type CreateBatchResult struct {
	Batch             models.Batch
	ReminderScheduled bool
}

// CreateBatch validates the input, registers the batch remotely, inserts it
// locally and schedules its drop reminder.
func (s *Service) CreateBatch(ctx context.Context, input CreateBatchInput) (*CreateBatchResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, models.NewValidationError("batch name must not be empty")
	}
	if input.EggCount <= 0 {
		return nil, models.NewValidationError("egg count must be positive, got %d", input.EggCount)
	}
	intakeDate, err := models.ParseIntakeDate(input.IntakeDate)
	if err != nil {
		return nil, models.NewValidationError("intake date %q is not a valid %s date", input.IntakeDate, models.DateLayout)
	}

	record, err := s.api.CreateBatch(ctx, batchapi.CreateBatchRequest{
		BatchName: name,
		InputDate: input.IntakeDate,
		EggCount:  input.EggCount,
		Farm:      s.farmScope,
	})
	if err != nil {
		return nil, &models.RemoteError{Op: "create", Err: err}
	}

	batch := models.Batch{
		ID:           record.ID,
		Name:         name,
		IntakeDate:   intakeDate,
		EggCount:     input.EggCount,
		HatchedCount: 0,
		HatchRate:    0,
		FarmScope:    s.farmScope,
	}
	s.store.Upsert(batch)

	result := &CreateBatchResult{Batch: batch, ReminderScheduled: true}

	if err := s.reminders.ScheduleDropReminder(ctx, batch); err != nil {
		// Fail-open: losing a reminder is less harmful than losing the batch.
		s.logger.Warn("batch created but reminder scheduling failed",
			zap.String("batch_id", batch.ID),
			zap.Error(err))
		result.ReminderScheduled = false
	}

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID),
		zap.String("name", name),
		zap.String("intake_date", input.IntakeDate),
		zap.Int("egg_count", input.EggCount))

	return result, nil
}

// UpdateHatchedCount submits a new hatched count to the remote API and merges
// the server-reported hatch rate into the stored batch. The server owns the
// derived rate, so rounding or policy differences never diverge locally.
func (s *Service) UpdateHatchedCount(ctx context.Context, id string, hatchedCount int) (models.Batch, error) {
	if id == "" {
		return models.Batch{}, models.NewValidationError("batch id must not be empty")
	}
	if hatchedCount < 0 {
		return models.Batch{}, models.NewValidationError("hatched count must not be negative, got %d", hatchedCount)
	}

	record, err := s.api.UpdateHatchedCount(ctx, id, hatchedCount)
	if err != nil {
		return models.Batch{}, &models.RemoteError{Op: "update", Err: err}
	}

	existing, err := s.store.FindByID(id)
	if err != nil {
		// The remote acked an id the store has never seen: local and remote
		// state diverged, surface it instead of inventing an entry.
		s.logger.Error("remote updated a batch missing locally", zap.String("batch_id", id))
		return models.Batch{}, err
	}

	existing.HatchedCount = hatchedCount
	existing.HatchRate = record.HatchRate
	s.store.Upsert(existing)

	s.logger.Info("hatched count updated",
		zap.String("batch_id", id),
		zap.Int("hatched_count", hatchedCount),
		zap.Float64("hatch_rate", record.HatchRate))

	return existing, nil
}

// Refresh replaces the store contents with the remote view of the farm.
func (s *Service) Refresh(ctx context.Context) error {
	records, err := s.api.ListBatches(ctx, s.farmScope)
	if err != nil {
		return &models.RemoteError{Op: "list", Err: err}
	}

	batchList := make([]models.Batch, 0, len(records))
	for _, record := range records {
		batch, err := s.recordToBatch(record)
		if err != nil {
			s.logger.Debug("skip batch with invalid fields", zap.String("batch_id", record.ID), zap.Error(err))
			continue
		}
		batchList = append(batchList, batch)
	}

	s.store.ReplaceAll(batchList)
	s.logger.Info("store refreshed", zap.Int("batches", len(batchList)))
	return nil
}

// All returns every stored batch, bucket by bucket.
func (s *Service) All() []models.Batch {
	view := s.store.AllByDate()
	var batchList []models.Batch
	for _, bucket := range view {
		batchList = append(batchList, bucket...)
	}
	return batchList
}

// DueForDrop returns the batches whose drop date falls on the given day.
func (s *Service) DueForDrop(day time.Time) []models.Batch {
	dayKey := day.Format(models.DateLayout)

	var due []models.Batch
	for _, bucket := range s.store.AllByDate() {
		for _, batch := range bucket {
			if batch.DropDate().Format(models.DateLayout) == dayKey {
				due = append(due, batch)
			}
		}
	}
	return due
}

func (s *Service) recordToBatch(record batchapi.BatchRecord) (models.Batch, error) {
	raw := record.InputDate
	if len(raw) > len(models.DateLayout) {
		raw = raw[:len(models.DateLayout)]
	}
	intakeDate, err := models.ParseIntakeDate(raw)
	if err != nil {
		return models.Batch{}, err
	}

	// Counts violating the batch invariants point at upstream data-entry
	// bugs; drop the row instead of carrying a broken rate.
	if _, err := models.ComputeHatchRate(record.EggCount, record.HatchedCount); err != nil {
		return models.Batch{}, err
	}

	return models.Batch{
		ID:           record.ID,
		Name:         record.BatchName,
		IntakeDate:   intakeDate,
		EggCount:     record.EggCount,
		HatchedCount: record.HatchedCount,
		HatchRate:    record.HatchRate,
		FarmScope:    s.farmScope,
	}, nil
}
