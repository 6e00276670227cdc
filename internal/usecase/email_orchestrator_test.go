package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/metrics"
)

type stubHandler struct {
	name    string
	keyword string
	err     error
	seen    []string
}

func (h *stubHandler) Name() string { return h.name }

func (h *stubHandler) CanHandle(subject string) bool { return strings.Contains(subject, h.keyword) }

func (h *stubHandler) Process(_ context.Context, email *entity.Email) error {
	h.seen = append(h.seen, email.EmailID)
	return h.err
}

type stubRouter struct {
	handlers []TemplateHandler
}

func (r *stubRouter) Register(handler TemplateHandler) { r.handlers = append(r.handlers, handler) }

func (r *stubRouter) GetHandler(subject string) TemplateHandler {
	for _, h := range r.handlers {
		if h.CanHandle(subject) {
			return h
		}
	}
	return nil
}

func newTestOrchestrator(emails *MockEmailRepository, handlers ...TemplateHandler) (*EmailOrchestrator, *metrics.Metrics) {
	router := &stubRouter{}
	for _, h := range handlers {
		router.Register(h)
	}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	return NewEmailOrchestrator(emails, router, m, logger.NewNopLogger()), m
}

func TestProcessEmailRoutesToHandler(t *testing.T) {
	emails := new(MockEmailRepository)
	handler := &stubHandler{name: "reservation_new", keyword: "新しい予約"}
	email := &entity.Email{EmailID: "msg-1", Subject: "【食べログ】新しい予約が入りました"}

	emails.On("Save", mock.Anything, email).Return(nil).Once()
	emails.On("UpdateStatusByEmailID", mock.Anything, "msg-1", entity.StatusProcessing, mock.Anything).Return(nil).Once()

	orchestrator, _ := newTestOrchestrator(emails, handler)
	err := orchestrator.ProcessEmail(context.Background(), email)

	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, handler.seen)
	emails.AssertExpectations(t)
}

func TestProcessEmailWithoutHandler(t *testing.T) {
	emails := new(MockEmailRepository)
	email := &entity.Email{EmailID: "msg-2", Subject: "お店からのお知らせ"}

	emails.On("Save", mock.Anything, email).Return(nil).Once()
	emails.On("MarkAsProcessedByEmailID", mock.Anything, "msg-2", entity.StatusSkipped, "none", mock.Anything, mock.Anything).
		Return(nil).Once()

	orchestrator, m := newTestOrchestrator(emails, &stubHandler{name: "reservation_new", keyword: "新しい予約"})
	err := orchestrator.ProcessEmail(context.Background(), email)

	assert.ErrorIs(t, err, ErrNoHandler)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSkipped))
	emails.AssertNotCalled(t, "UpdateStatusByEmailID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	emails.AssertExpectations(t)
}

func TestProcessEmailHandlerFailure(t *testing.T) {
	emails := new(MockEmailRepository)
	cause := errors.New("calendar unavailable")
	handler := &stubHandler{name: "reservation_changed", keyword: "変更", err: cause}
	email := &entity.Email{EmailID: "msg-3", Subject: "予約内容が変更されました"}

	emails.On("Save", mock.Anything, email).Return(errors.New("mongo down")).Once()
	emails.On("UpdateStatusByEmailID", mock.Anything, "msg-3", entity.StatusProcessing, mock.Anything).Return(nil).Once()
	emails.On("MarkAsProcessedByEmailID", mock.Anything, "msg-3", entity.StatusFailed, "reservation_changed", "calendar unavailable", mock.Anything).
		Return(nil).Once()

	orchestrator, _ := newTestOrchestrator(emails, handler)
	err := orchestrator.ProcessEmail(context.Background(), email)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "reservation_changed: calendar unavailable")
	emails.AssertExpectations(t)
}

func TestProcessEmailFirstMatchWins(t *testing.T) {
	emails := new(MockEmailRepository)
	emails.On("Save", mock.Anything, mock.Anything).Return(nil)
	emails.On("UpdateStatusByEmailID", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	first := &stubHandler{name: "reservation_cancelled", keyword: "キャンセル"}
	second := &stubHandler{name: "reservation_changed", keyword: "予約内容が"}

	orchestrator, _ := newTestOrchestrator(emails, first, second)
	err := orchestrator.ProcessEmail(context.Background(), &entity.Email{EmailID: "msg-4", Subject: "予約内容がキャンセルされました"})

	require.NoError(t, err)
	assert.Len(t, first.seen, 1)
	assert.Empty(t, second.seen)
}

func TestRecoverInterrupted(t *testing.T) {
	emails := new(MockEmailRepository)
	emails.On("ResetProcessingEmails", mock.Anything).Return(errors.New("timeout")).Once()

	orchestrator, _ := newTestOrchestrator(emails)
	orchestrator.RecoverInterrupted(context.Background())

	emails.AssertExpectations(t)
}
