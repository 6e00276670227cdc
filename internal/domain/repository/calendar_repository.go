package repository

import (
	"context"
	"time"

	"tabelog-sync-service/internal/domain/entity"
)

// CalendarRepository is the calendar store reservations are reconciled against
type CalendarRepository interface {
	ListEventsInWindow(ctx context.Context, start, end time.Time) ([]*entity.CalendarEvent, error)
	CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*entity.CalendarEvent, error)
	SetTitle(ctx context.Context, eventID, title string) error
	SetDescription(ctx context.Context, eventID, description string) error
	SetTime(ctx context.Context, eventID string, start, end time.Time) error
}
