package domain

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyStats is one aggregate row per (user, month), where Month is the
// first calendar day of the month. Rows are recomputed in full on every
// aggregation pass, so the same inputs always produce the same row.
type MonthlyStats struct {
	UserID            uuid.UUID `json:"user_id"`
	Month             time.Time `json:"month"`
	TotalApplications int       `json:"total_applications"`
	AppliedCount      int       `json:"applied_count"`
	ScreeningCount    int       `json:"screening_count"`
	InterviewCount    int       `json:"interview_count"`
	OfferCount        int       `json:"offer_count"`
	RejectedCount     int       `json:"rejected_count"`
	AvgResponseDays   float64   `json:"avg_response_days"`
	CreatedAt         time.Time `json:"created_at"`
}

// MonthStart returns the first calendar day of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
