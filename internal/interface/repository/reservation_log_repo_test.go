package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tabelog-sync-service/internal/domain/entity"
)

var jst = time.FixedZone("JST", 9*60*60)

var fixedStart = time.Date(2025, time.December, 20, 10, 0, 0, 0, jst)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func logReservation(kind entity.EventKind) *entity.Reservation {
	return &entity.Reservation{
		EventKind:          kind,
		ParsedAt:           time.Date(2025, time.December, 20, 10, 0, 0, 0, jst),
		BookingID:          "12345678",
		DinerName:          "山田 太郎",
		PhoneNumber:        "090-1234-5678",
		ReservationDate:    "2026/01/15",
		ReservationTime:    "18:00",
		OriginalDate:       "2026/01/15",
		GuestCount:         "2",
		CoursePlan:         "おまかせコース",
		Table:              "カウンター",
		ChangesSummary:     entity.NotAvailable,
		CancellationReason: entity.NotAvailable,
	}
}

func TestToReservationLogChanged(t *testing.T) {
	r := logReservation(entity.EventChanged)
	r.ReservationDate = "2026/01/20"
	r.ReservationTime = "19:30"
	r.ChangesSummary = "Date: 01/15 -> 01/20; Time: 18:00 -> 19:30"

	row, err := toReservationLog(r)
	require.NoError(t, err)

	assert.Equal(t, "2026/01/15", row.ReservationDate)
	assert.Equal(t, "2026/01/20", row.NewReservationDate)
	assert.Equal(t, "19:30", row.NewReservationTime)
	assert.Equal(t, "Date: 01/15 -> 01/20; Time: 18:00 -> 19:30", row.Changes)

	r.ReservationDate = r.OriginalDate
	row, err = toReservationLog(r)
	require.NoError(t, err)
	assert.Equal(t, entity.NotAvailable, row.NewReservationDate)
}

func TestToReservationLogCancelled(t *testing.T) {
	r := logReservation(entity.EventCancelled)
	r.CancellationReason = "体調不良"

	row, err := toReservationLog(r)
	require.NoError(t, err)

	assert.Equal(t, entity.CancelledStatus, row.CoursePlan)
	assert.Equal(t, entity.CancelledStatus, row.TableInfo)
	assert.Equal(t, entity.NotAvailable, row.Changes)
	assert.Equal(t, "体調不良", row.CancellationReason)
	assert.Empty(t, row.NewReservationDate)

	_, err = toReservationLog(&entity.Reservation{EventKind: "moved"})
	assert.Error(t, err)
}

func TestGormReservationLogAppend(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReservationLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservation_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Append(context.Background(), logReservation(entity.EventNew))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReservationLogAppendFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReservationLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservation_logs"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Append(context.Background(), logReservation(entity.EventNew))

	assert.ErrorContains(t, err, "failed to insert reservation log")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReservationLogAppendDailySummary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReservationLogRepository(db)
	parsedAt := time.Date(2025, time.January, 15, 9, 5, 0, 0, jst)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "daily_summaries"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := repo.AppendDailySummary(context.Background(), []entity.DailySummaryEntry{
		{ParsedAt: parsedAt, ReservationDate: "2025/01/15", ReservationTime: "18:00", GuestCount: "2", DinerName: "山田 太郎"},
		{ParsedAt: parsedAt, ReservationDate: "2025/01/15", ReservationTime: "19:30", GuestCount: "4", DinerName: "佐藤 花子"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, repo.AppendDailySummary(context.Background(), nil))
}
