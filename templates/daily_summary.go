package templates

import (
	"context"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/pkg/logger"
)

// DailySummaryHandler handles the "today's net reservations" digest
type DailySummaryHandler struct {
	processor ReservationProcessor
	logger    logger.Logger
}

// NewDailySummaryHandler creates a new daily summary handler
func NewDailySummaryHandler(processor ReservationProcessor, logger logger.Logger) *DailySummaryHandler {
	return &DailySummaryHandler{
		processor: processor,
		logger:    logger,
	}
}

// Name returns the handler name
func (h *DailySummaryHandler) Name() string {
	return "daily_summary"
}

// CanHandle determines if this handler can process the given email subject
func (h *DailySummaryHandler) CanHandle(subject string) bool {
	return containsAny(subject, []string{SubjectDailySummary})
}

// Process processes the email
func (h *DailySummaryHandler) Process(ctx context.Context, email *entity.Email) error {
	if err := h.processor.ProcessDailySummary(ctx, email); err != nil {
		h.logger.Error("Failed to process daily summary", "emailId", email.EmailID, "error", err)
		return err
	}
	return nil
}
