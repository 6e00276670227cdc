package repository

import (
	"context"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormReservationLogRepository implements the ReservationLogRepository interface on PostgreSQL
type GormReservationLogRepository struct {
	db *gorm.DB
}

// NewGormReservationLogRepository creates a new GORM reservation log repository
func NewGormReservationLogRepository(db *gorm.DB) *GormReservationLogRepository {
	return &GormReservationLogRepository{
		db: db,
	}
}

var _ repository.ReservationLogRepository = (*GormReservationLogRepository)(nil)

// ReservationLog GORM model for database mapping
type ReservationLog struct {
	ID                 uint      `gorm:"primaryKey"`
	ParsedAt           time.Time `gorm:"column:parsed_at"`
	EventKind          string    `gorm:"column:event_kind;index"`
	DinerName          string    `gorm:"column:diner_name"`
	Phone              string    `gorm:"column:phone"`
	ReservationDate    string    `gorm:"column:reservation_date"`
	ReservationTime    string    `gorm:"column:reservation_time"`
	NewReservationDate string    `gorm:"column:new_reservation_date"`
	NewReservationTime string    `gorm:"column:new_reservation_time"`
	GuestCount         string    `gorm:"column:guest_count"`
	CoursePlan         string    `gorm:"column:course_plan"`
	TableInfo          string    `gorm:"column:table_info"`
	BookingID          string    `gorm:"column:booking_id;index"`
	Changes            string    `gorm:"column:changes"`
	CancellationReason string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time
}

// TableName overrides the default table name
func (ReservationLog) TableName() string {
	return "reservation_logs"
}

// DailySummary GORM model for database mapping
type DailySummary struct {
	ID              uint      `gorm:"primaryKey"`
	ParsedAt        time.Time `gorm:"column:parsed_at"`
	ReservationDate string    `gorm:"column:reservation_date;index"`
	ReservationTime string    `gorm:"column:reservation_time"`
	GuestCount      string    `gorm:"column:guest_count"`
	DinerName       string    `gorm:"column:diner_name"`
	CreatedAt       time.Time
}

// TableName overrides the default table name
func (DailySummary) TableName() string {
	return "daily_summaries"
}

// Migrate creates or updates the log tables
func (r *GormReservationLogRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&ReservationLog{}, &DailySummary{})
}

// Append inserts one reservation event
func (r *GormReservationLogRepository) Append(ctx context.Context, reservation *entity.Reservation) error {
	row, err := toReservationLog(reservation)
	if err != nil {
		return err
	}

	if result := r.db.WithContext(ctx).Create(row); result.Error != nil {
		return fmt.Errorf("failed to insert reservation log: %w", result.Error)
	}
	return nil
}

// AppendDailySummary inserts every digest entry in one statement
func (r *GormReservationLogRepository) AppendDailySummary(ctx context.Context, entries []entity.DailySummaryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]DailySummary, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, DailySummary{
			ParsedAt:        e.ParsedAt,
			ReservationDate: e.ReservationDate,
			ReservationTime: e.ReservationTime,
			GuestCount:      e.GuestCount,
			DinerName:       e.DinerName,
		})
	}

	if result := r.db.WithContext(ctx).Create(&rows); result.Error != nil {
		return fmt.Errorf("failed to insert daily summary: %w", result.Error)
	}
	return nil
}

// toReservationLog mirrors the sheet layout: a change row keeps the original
// date next to the new one, a cancelled row carries the status in plan and table
func toReservationLog(r *entity.Reservation) (*ReservationLog, error) {
	row := &ReservationLog{
		ParsedAt:        r.ParsedAt,
		EventKind:       string(r.EventKind),
		DinerName:       r.DinerName,
		Phone:           r.PhoneNumber,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		GuestCount:      r.GuestCount,
		CoursePlan:      r.CoursePlan,
		TableInfo:       r.Table,
		BookingID:       r.BookingID,
	}

	switch r.EventKind {
	case entity.EventNew:
	case entity.EventChanged:
		row.ReservationDate = r.OriginalDate
		row.NewReservationDate = entity.NotAvailable
		if r.DateChanged() {
			row.NewReservationDate = r.ReservationDate
		}
		row.NewReservationTime = r.ReservationTime
		row.Changes = r.ChangesSummary
	case entity.EventCancelled:
		row.CoursePlan = entity.CancelledStatus
		row.TableInfo = entity.CancelledStatus
		row.Changes = entity.NotAvailable
		row.CancellationReason = r.CancellationReason
	default:
		return nil, fmt.Errorf("unknown event kind %q", r.EventKind)
	}

	return row, nil
}
