package reporting

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// BatchSource provides the batches to aggregate over.
type BatchSource interface {
	All() []models.Batch
}

// Summary aggregates hatch outcomes across the batches set within a period.
type Summary struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Batches      int     `json:"batches"`
	EggsSet      int     `json:"eggs_set"`
	EggsHatched  int     `json:"eggs_hatched"`
	OverallRate  float64 `json:"overall_rate"`
	PendingDrops int     `json:"pending_drops"`
}

// Service exposes lightweight hatch analytics over the batch store.
type Service struct {
	batchSvc BatchSource
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(batchSvc BatchSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{batchSvc: batchSvc, logger: logger}
}

// Summarize aggregates every batch whose intake date falls inside [start, end].
// The overall rate is recomputed from raw counts, not averaged from the
// per-batch rates, so unevenly sized batches weigh correctly.
func (s *Service) Summarize(start, end time.Time) Summary {
	summary := Summary{
		Start: start.Format(models.DateLayout),
		End:   end.Format(models.DateLayout),
	}

	now := time.Now()
	for _, batch := range s.batchSvc.All() {
		if batch.IntakeDate.Before(start) || batch.IntakeDate.After(end) {
			continue
		}

		summary.Batches++
		summary.EggsSet += batch.EggCount
		summary.EggsHatched += batch.HatchedCount
		if batch.DropDate().After(now) {
			summary.PendingDrops++
		}
	}

	if summary.EggsSet > 0 {
		rate := float64(summary.EggsHatched) / float64(summary.EggsSet) * 100
		summary.OverallRate = math.Round(rate*100) / 100
	}

	s.logger.Debug("summary computed",
		zap.String("start", summary.Start),
		zap.String("end", summary.End),
		zap.Int("batches", summary.Batches))

	return summary
}
