package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tabelog-sync-service/internal/domain/entity"
)

// MockCalendarRepository mocks the calendar store
type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) ListEventsInWindow(ctx context.Context, start, end time.Time) ([]*entity.CalendarEvent, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*entity.CalendarEvent, error) {
	args := m.Called(ctx, title, start, end, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) SetTitle(ctx context.Context, eventID, title string) error {
	args := m.Called(ctx, eventID, title)
	return args.Error(0)
}

func (m *MockCalendarRepository) SetDescription(ctx context.Context, eventID, description string) error {
	args := m.Called(ctx, eventID, description)
	return args.Error(0)
}

func (m *MockCalendarRepository) SetTime(ctx context.Context, eventID string, start, end time.Time) error {
	args := m.Called(ctx, eventID, start, end)
	return args.Error(0)
}

// MockReservationLogRepository mocks the tabular log
type MockReservationLogRepository struct {
	mock.Mock
}

func (m *MockReservationLogRepository) Append(ctx context.Context, reservation *entity.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationLogRepository) AppendDailySummary(ctx context.Context, entries []entity.DailySummaryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// MockNotificationRepository mocks the chat sink
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Send(ctx context.Context, message entity.SlackMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockEmailRepository mocks the email processing log
type MockEmailRepository struct {
	mock.Mock
}

func (m *MockEmailRepository) Save(ctx context.Context, email *entity.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockEmailRepository) FindByEmailID(ctx context.Context, emailID string) (*entity.Email, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Email), args.Error(1)
}

func (m *MockEmailRepository) UpdateStatusByEmailID(ctx context.Context, emailID string, status string, startedAt time.Time) error {
	args := m.Called(ctx, emailID, status, startedAt)
	return args.Error(0)
}

func (m *MockEmailRepository) MarkAsProcessedByEmailID(ctx context.Context, emailID, status, processorType, errorDetail string, extractedData map[string]interface{}) error {
	args := m.Called(ctx, emailID, status, processorType, errorDetail, extractedData)
	return args.Error(0)
}

func (m *MockEmailRepository) ResetProcessingEmails(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
