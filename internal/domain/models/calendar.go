package models

// DaySummary is the presentation projection for one calendar date.
type DaySummary struct {
	Items    []Batch `json:"items"`
	Marked   bool    `json:"marked"`
	Selected bool    `json:"selected"`
}

// CalendarView maps calendar dates (DateLayout keys) to their summaries.
type CalendarView map[string]DaySummary
