package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/metrics"
)

// ErrNoHandler is returned for messages whose subject no handler accepts
var ErrNoHandler = errors.New("no handler for subject")

// EmailOrchestrator manages email processing with multiple handlers
type EmailOrchestrator struct {
	emailRepo repository.EmailRepository
	router    SubjectRouter
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewEmailOrchestrator creates a new email orchestrator
func NewEmailOrchestrator(
	emailRepo repository.EmailRepository,
	router SubjectRouter,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *EmailOrchestrator {
	return &EmailOrchestrator{
		emailRepo: emailRepo,
		router:    router,
		metrics:   metrics,
		logger:    logger,
	}
}

// ProcessEmail routes a single message to its handler. A nil return means
// the message is done and may leave the inbox label.
func (o *EmailOrchestrator) ProcessEmail(ctx context.Context, email *entity.Email) error {
	if err := o.emailRepo.Save(ctx, email); err != nil {
		o.logger.Error("Failed to save email", "emailID", email.EmailID, "error", err)
	}

	handler := o.router.GetHandler(email.Subject)
	if handler == nil {
		o.logger.Warn("No handler found for email",
			"subject", email.Subject,
			"emailID", email.EmailID)
		o.metrics.EmailsSkipped.Inc()

		if err := o.emailRepo.MarkAsProcessedByEmailID(
			ctx,
			email.EmailID,
			entity.StatusSkipped,
			"none",
			"No matching handler found",
			map[string]interface{}{
				"subject": email.Subject,
				"reason":  "no_matching_template",
			},
		); err != nil {
			o.logger.Error("Failed to mark email as skipped", "emailID", email.EmailID, "error", err)
		}
		return ErrNoHandler
	}

	handlerType := handler.Name()
	o.logger.Info("Processing email with handler",
		"emailID", email.EmailID,
		"handler", handlerType,
		"subject", email.Subject)

	if err := o.emailRepo.UpdateStatusByEmailID(ctx, email.EmailID, entity.StatusProcessing, time.Now()); err != nil {
		o.logger.Error("Failed to update status", "emailID", email.EmailID, "error", err)
	}

	if err := handler.Process(ctx, email); err != nil {
		o.logger.Error("Handler failed to process email",
			"emailID", email.EmailID,
			"handler", handlerType,
			"error", err)

		if markErr := o.emailRepo.MarkAsProcessedByEmailID(
			ctx,
			email.EmailID,
			entity.StatusFailed,
			handlerType,
			err.Error(),
			nil,
		); markErr != nil {
			o.logger.Error("Failed to mark email as failed", "emailID", email.EmailID, "error", markErr)
		}
		return fmt.Errorf("%s: %w", handlerType, err)
	}

	o.logger.Info("Email processed successfully",
		"emailID", email.EmailID,
		"handler", handlerType)

	return nil
}

// RecoverInterrupted resets messages left PROCESSING by a previous run
func (o *EmailOrchestrator) RecoverInterrupted(ctx context.Context) {
	if err := o.emailRepo.ResetProcessingEmails(ctx); err != nil {
		o.logger.Error("Failed to reset stale emails", "error", err)
	}
}
