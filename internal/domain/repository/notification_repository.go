package repository

import (
	"context"

	"tabelog-sync-service/internal/domain/entity"
)

// NotificationRepository delivers formatted alerts to the chat channel
type NotificationRepository interface {
	Send(ctx context.Context, message entity.SlackMessage) error
}
