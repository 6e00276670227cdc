package entity

import "time"

// CalendarEvent is a calendar entry as seen by the reconciler
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	HTMLLink    string
}

// ReconcileOutcome is the action the reconciler applied for one reservation
type ReconcileOutcome string

const (
	OutcomeCreated   ReconcileOutcome = "created"
	OutcomeUpdated   ReconcileOutcome = "updated"
	OutcomeCancelled ReconcileOutcome = "cancelled"
	OutcomeNotFound  ReconcileOutcome = "not_found"
)
