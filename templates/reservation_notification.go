package templates

import (
	"context"
	"strings"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/pkg/logger"
)

// Subjects of the Tabelog owner notifications
const (
	SubjectNewReservation       = "新しい予約が入りました"
	SubjectChangedReservation   = "予約内容が変更されました"
	SubjectCancelledReservation = "予約内容がキャンセルされました"
	SubjectCancelledShort       = "予約がキャンセルされました"
	SubjectDailySummary         = "ネット予約一覧"
)

// ReservationProcessor is what the handlers hand parsed messages to
type ReservationProcessor interface {
	ProcessReservation(ctx context.Context, email *entity.Email, kind entity.EventKind) error
	ProcessDailySummary(ctx context.Context, email *entity.Email) error
}

// ReservationNotificationHandler handles one kind of reservation notification
type ReservationNotificationHandler struct {
	processor ReservationProcessor
	kind      entity.EventKind
	subjects  []string
	logger    logger.Logger
}

func newReservationNotificationHandler(processor ReservationProcessor, kind entity.EventKind, logger logger.Logger, subjects ...string) *ReservationNotificationHandler {
	return &ReservationNotificationHandler{
		processor: processor,
		kind:      kind,
		subjects:  subjects,
		logger:    logger,
	}
}

// NewNewReservationHandler handles "a new reservation arrived" emails
func NewNewReservationHandler(processor ReservationProcessor, logger logger.Logger) *ReservationNotificationHandler {
	return newReservationNotificationHandler(processor, entity.EventNew, logger, SubjectNewReservation)
}

// NewChangedReservationHandler handles "reservation details changed" emails
func NewChangedReservationHandler(processor ReservationProcessor, logger logger.Logger) *ReservationNotificationHandler {
	return newReservationNotificationHandler(processor, entity.EventChanged, logger, SubjectChangedReservation)
}

// NewCancelledReservationHandler handles both cancellation subjects
func NewCancelledReservationHandler(processor ReservationProcessor, logger logger.Logger) *ReservationNotificationHandler {
	return newReservationNotificationHandler(processor, entity.EventCancelled, logger,
		SubjectCancelledReservation, SubjectCancelledShort)
}

// Name returns the handler name
func (h *ReservationNotificationHandler) Name() string {
	return "reservation_" + string(h.kind)
}

// CanHandle determines if this handler can process the given email subject
func (h *ReservationNotificationHandler) CanHandle(subject string) bool {
	return containsAny(subject, h.subjects)
}

// Process processes the email
func (h *ReservationNotificationHandler) Process(ctx context.Context, email *entity.Email) error {
	if err := h.processor.ProcessReservation(ctx, email, h.kind); err != nil {
		h.logger.Error("Failed to process reservation message", "kind", h.kind, "emailId", email.EmailID, "error", err)
		return err
	}
	return nil
}

func containsAny(subject string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(subject, pattern) {
			return true
		}
	}
	return false
}
