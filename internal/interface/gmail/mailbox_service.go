package gmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/usecase"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/metrics"

	"github.com/google/uuid"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user        = "me"
	unreadLabel = "UNREAD"
)

// EmailProcessor handles one routed message
type EmailProcessor interface {
	ProcessEmail(ctx context.Context, email *entity.Email) error
}

// Labels names the Gmail labels of the processing workflow
type Labels struct {
	Inbox   string
	Done    string
	Contact string
}

// MailboxService polls the inbox label and hands each thread's latest message
// to the orchestrator. Threads are relabelled only after successful processing.
type MailboxService struct {
	gmailService *gmail.Service
	orchestrator EmailProcessor
	labels       Labels
	labelIDs     map[string]string
	metrics      *metrics.Metrics
	logger       logger.Logger
	pollInterval time.Duration
}

// NewMailboxService creates a new Gmail mailbox service
func NewMailboxService(
	ctx context.Context,
	orchestrator EmailProcessor,
	labels Labels,
	metrics *metrics.Metrics,
	logger logger.Logger,
	pollInterval time.Duration,
	opts ...option.ClientOption,
) (*MailboxService, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &MailboxService{
		gmailService: service,
		orchestrator: orchestrator,
		labels:       labels,
		metrics:      metrics,
		logger:       logger,
		pollInterval: pollInterval,
	}, nil
}

// StartPolling polls Gmail until ctx is cancelled, starting immediately
func (s *MailboxService) StartPolling(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := s.PollOnce(ctx); err != nil {
			s.metrics.ErrorsCount.WithLabelValues("poll").Inc()
			s.logger.Error("Error polling Gmail", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Gmail polling stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce processes every thread currently under the inbox label and
// returns how many were completed
func (s *MailboxService) PollOnce(ctx context.Context) (int, error) {
	log := s.logger.With("cycleId", uuid.NewString())

	if err := s.resolveLabels(ctx); err != nil {
		return 0, err
	}

	var threadIDs []string
	err := s.gmailService.Users.Threads.List(user).
		LabelIds(s.labelIDs[s.labels.Inbox]).
		Pages(ctx, func(resp *gmail.ListThreadsResponse) error {
			for _, thread := range resp.Threads {
				threadIDs = append(threadIDs, thread.Id)
			}
			return nil
		})
	if err != nil {
		return 0, fmt.Errorf("failed to list threads: %w", err)
	}

	if len(threadIDs) == 0 {
		log.Debug("No threads to process")
		return 0, nil
	}
	log.Info("Found threads to process", "count", len(threadIDs))

	processed := 0
	for _, threadID := range threadIDs {
		if ctx.Err() != nil {
			break
		}
		if s.processThread(ctx, log, threadID) {
			processed++
		}
	}

	log.Info("Email fetch and process completed",
		"threads", len(threadIDs),
		"processed", processed)

	return processed, nil
}

// processThread isolates failures: any error leaves the thread labelled for the next cycle
func (s *MailboxService) processThread(ctx context.Context, log logger.Logger, threadID string) bool {
	thread, err := s.gmailService.Users.Threads.Get(user, threadID).Format("full").Context(ctx).Do()
	if err != nil {
		log.Error("Failed to get thread", "threadId", threadID, "error", err)
		return false
	}
	if len(thread.Messages) == 0 {
		return false
	}

	// Only the latest message of a thread is processed
	email, err := convertToEmail(thread.Messages[len(thread.Messages)-1])
	if err != nil {
		log.Error("Failed to convert message", "threadId", threadID, "error", err)
		return false
	}

	if err := s.orchestrator.ProcessEmail(ctx, email); err != nil {
		if errors.Is(err, usecase.ErrNoHandler) {
			log.Warn("Unhandled subject found", "subject", email.Subject, "threadId", threadID)
		} else {
			log.Error("Failed to process email", "emailID", email.EmailID, "threadId", threadID, "error", err)
		}
		return false
	}

	if err := s.markDone(ctx, threadID); err != nil {
		log.Error("Failed to relabel thread", "threadId", threadID, "error", err)
		return false
	}
	return true
}

// markDone marks the thread read, moves it from the inbox and contact labels
// to the done label
func (s *MailboxService) markDone(ctx context.Context, threadID string) error {
	remove := []string{unreadLabel, s.labelIDs[s.labels.Inbox]}
	if id, ok := s.labelIDs[s.labels.Contact]; ok {
		remove = append(remove, id)
	}

	req := &gmail.ModifyThreadRequest{
		AddLabelIds:    []string{s.labelIDs[s.labels.Done]},
		RemoveLabelIds: remove,
	}
	_, err := s.gmailService.Users.Threads.Modify(user, threadID, req).Context(ctx).Do()
	return err
}

// resolveLabels maps label names to ids once. The inbox label must exist;
// the done label is created when missing.
func (s *MailboxService) resolveLabels(ctx context.Context) error {
	if s.labelIDs != nil {
		return nil
	}

	resp, err := s.gmailService.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}

	ids := make(map[string]string, len(resp.Labels))
	for _, label := range resp.Labels {
		ids[label.Name] = label.Id
	}

	if _, ok := ids[s.labels.Inbox]; !ok {
		return fmt.Errorf("label %q not found", s.labels.Inbox)
	}

	if _, ok := ids[s.labels.Done]; !ok {
		created, err := s.gmailService.Users.Labels.Create(user, &gmail.Label{
			Name:                  s.labels.Done,
			LabelListVisibility:   "labelShow",
			MessageListVisibility: "show",
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to create label %q: %w", s.labels.Done, err)
		}
		ids[created.Name] = created.Id
		s.logger.Info("Created label", "label", created.Name)
	}

	s.labelIDs = ids
	return nil
}
