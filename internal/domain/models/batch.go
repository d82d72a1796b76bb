package models

import "time"

// IncubationOffsetDays is the number of days a batch stays in the incubator
// before it must move to hatching trays.
const IncubationOffsetDays = 17

// DateLayout is the calendar-date format used for bucket keys and wire dates.
const DateLayout = "2006-01-02"

// Batch represents a single cohort of eggs set for incubation on one date.
type Batch struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IntakeDate   time.Time `json:"intake_date"`
	EggCount     int       `json:"egg_count"`
	HatchedCount int       `json:"hatched_count"`
	HatchRate    float64   `json:"hatch_rate"`
	FarmScope    string    `json:"farm_scope"`
}

// DropDate returns the date the batch is due to move to hatching trays.
func (b Batch) DropDate() time.Time {
	return b.IntakeDate.AddDate(0, 0, IncubationOffsetDays)
}

// DateKey returns the calendar bucket key for the batch's intake date.
func (b Batch) DateKey() string {
	return b.IntakeDate.Format(DateLayout)
}

// ComputeHatchRate derives the hatch percentage for a batch. It fails with an
// InvalidCountError instead of clamping, so upstream data-entry bugs surface.
func ComputeHatchRate(eggCount, hatchedCount int) (float64, error) {
	if eggCount <= 0 || hatchedCount < 0 || hatchedCount > eggCount {
		return 0, &InvalidCountError{EggCount: eggCount, HatchedCount: hatchedCount}
	}
	return float64(hatchedCount) / float64(eggCount) * 100, nil
}

// ParseIntakeDate parses a calendar date in DateLayout, normalized to UTC midnight.
func ParseIntakeDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
