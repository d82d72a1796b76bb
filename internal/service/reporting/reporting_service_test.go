package reporting

import (
	"testing"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

type staticSource struct {
	batches []models.Batch
}

func (s *staticSource) All() []models.Batch { return s.batches }

func day(value string) time.Time {
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeWeightsByEggCount(t *testing.T) {
	source := &staticSource{batches: []models.Batch{
		{ID: "b1", IntakeDate: day("2024-01-01"), EggCount: 100, HatchedCount: 80, HatchRate: 80},
		{ID: "b2", IntakeDate: day("2024-01-02"), EggCount: 10, HatchedCount: 1, HatchRate: 10},
	}}
	svc := NewService(source, nil)

	summary := svc.Summarize(day("2024-01-01"), day("2024-01-31"))

	if summary.Batches != 2 || summary.EggsSet != 110 || summary.EggsHatched != 81 {
		t.Errorf("summary = %+v", summary)
	}
	// 81/110, not the mean of 80% and 10%.
	want := 73.64
	if summary.OverallRate != want {
		t.Errorf("overall rate = %v, want %v", summary.OverallRate, want)
	}
}

func TestSummarizeFiltersByIntakePeriod(t *testing.T) {
	source := &staticSource{batches: []models.Batch{
		{ID: "b1", IntakeDate: day("2024-01-01"), EggCount: 100, HatchedCount: 50},
		{ID: "b2", IntakeDate: day("2024-03-01"), EggCount: 200, HatchedCount: 10},
	}}
	svc := NewService(source, nil)

	summary := svc.Summarize(day("2024-01-01"), day("2024-01-31"))
	if summary.Batches != 1 || summary.EggsSet != 100 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	svc := NewService(&staticSource{}, nil)

	summary := svc.Summarize(day("2024-01-01"), day("2024-01-31"))
	if summary.Batches != 0 || summary.OverallRate != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
