package batches

import "github.com/mamadbah2/hatchery/internal/domain/models"

// CalendarView projects the store into a date-keyed presentation view. Pure
// read: recomputed on every call, never mutates the store.
func (s *Service) CalendarView(selectedDate string) models.CalendarView {
	buckets := s.store.AllByDate()

	view := make(models.CalendarView, len(buckets)+1)
	for dateKey, bucket := range buckets {
		view[dateKey] = models.DaySummary{
			Items:    bucket,
			Marked:   len(bucket) > 0,
			Selected: dateKey == selectedDate,
		}
	}

	// The selected day shows up even when nothing is booked on it.
	if selectedDate != "" {
		if _, exists := view[selectedDate]; !exists {
			view[selectedDate] = models.DaySummary{Selected: true}
		}
	}

	return view
}
