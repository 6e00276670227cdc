package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"
)

// SlackRepository posts reservation alerts to a Slack incoming webhook
type SlackRepository struct {
	logger     logger.Logger
	webhookURL string
	client     *http.Client
}

// NewSlackRepository creates a new Slack repository
func NewSlackRepository(webhookURL string, logger logger.Logger) repository.NotificationRepository {
	return &SlackRepository{
		logger:     logger,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts the attachment payload to the webhook
func (r *SlackRepository) Send(ctx context.Context, message entity.SlackMessage) error {
	if err := message.Validate(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	r.logger.Debug("Slack webhook accepted payload", "attachments", len(message.Attachments))
	return nil
}
