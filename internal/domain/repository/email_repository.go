package repository

import (
	"context"
	"time"

	"tabelog-sync-service/internal/domain/entity"
)

// EmailRepository records every routed message and the result of processing it
type EmailRepository interface {
	Save(ctx context.Context, email *entity.Email) error
	FindByEmailID(ctx context.Context, emailID string) (*entity.Email, error)
	UpdateStatusByEmailID(ctx context.Context, emailID string, status string, startedAt time.Time) error
	MarkAsProcessedByEmailID(ctx context.Context, emailID, status, processorType, errorDetail string, extractedData map[string]interface{}) error
	ResetProcessingEmails(ctx context.Context) error
}
