package repository

import (
	"context"

	"tabelog-sync-service/internal/domain/entity"
)

// ReservationLogRepository is the append-only tabular log of reservation events
type ReservationLogRepository interface {
	Append(ctx context.Context, reservation *entity.Reservation) error
	AppendDailySummary(ctx context.Context, entries []entity.DailySummaryEntry) error
}
