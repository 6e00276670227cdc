package usecase

import (
	"context"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/metrics"
	"tabelog-sync-service/pkg/utils"
)

// ReservationProcessor runs one notification through parse, log, calendar and chat
type ReservationProcessor struct {
	parser              *utils.ReservationParser
	reconciler          *CalendarReconciler
	reservationLog      repository.ReservationLogRepository
	notifier            repository.NotificationRepository
	emailRepo           repository.EmailRepository
	metrics             *metrics.Metrics
	location            *time.Location
	dailySummaryEnabled bool
	now                 func() time.Time
	logger              logger.Logger
}

// NewReservationProcessor creates a new reservation processor. notifier may
// be nil, in which case no chat alerts are sent.
func NewReservationProcessor(
	parser *utils.ReservationParser,
	reconciler *CalendarReconciler,
	reservationLog repository.ReservationLogRepository,
	notifier repository.NotificationRepository,
	emailRepo repository.EmailRepository,
	metrics *metrics.Metrics,
	location *time.Location,
	dailySummaryEnabled bool,
	logger logger.Logger,
) *ReservationProcessor {
	return &ReservationProcessor{
		parser:              parser,
		reconciler:          reconciler,
		reservationLog:      reservationLog,
		notifier:            notifier,
		emailRepo:           emailRepo,
		metrics:             metrics,
		location:            location,
		dailySummaryEnabled: dailySummaryEnabled,
		now:                 time.Now,
		logger:              logger,
	}
}

// WithClock replaces the clock used for parse timestamps and year inference
func (p *ReservationProcessor) WithClock(now func() time.Time) *ReservationProcessor {
	p.now = now
	return p
}

// ProcessReservation handles a new, changed or cancelled notification. Log
// and calendar failures are returned so the message stays in the inbox;
// chat failures are only logged.
func (p *ReservationProcessor) ProcessReservation(ctx context.Context, email *entity.Email, kind entity.EventKind) error {
	start := time.Now()
	defer func() {
		p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	log := p.logger.With("emailId", email.EmailID, "kind", kind)
	ref := p.now().In(p.location)

	reservation, err := p.parser.ParseMessage(email.PlainBody(), kind, ref)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("parse").Inc()
		return err
	}
	p.metrics.ReservationsParsed.WithLabelValues(string(kind)).Inc()

	if err := p.reservationLog.Append(ctx, reservation); err != nil {
		p.metrics.ErrorsCount.WithLabelValues("log_append").Inc()
		return fmt.Errorf("failed to append reservation log: %w", err)
	}
	p.metrics.RowsAppended.Inc()

	outcome, event, err := p.reconciler.Reconcile(ctx, reservation)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("calendar").Inc()
		return fmt.Errorf("failed to reconcile calendar: %w", err)
	}
	p.metrics.ReconcileOutcomes.WithLabelValues(string(kind), string(outcome)).Inc()
	if event != nil {
		reservation.EventURL = event.HTMLLink
	}

	p.notify(ctx, log, reservation, outcome, ref)

	extracted := reservation.ToMap()
	extracted["outcome"] = string(outcome)
	if event != nil {
		extracted["eventId"] = event.ID
	}
	if err := p.emailRepo.MarkAsProcessedByEmailID(ctx, email.EmailID, entity.StatusCompleted, string(kind), "", extracted); err != nil {
		log.Error("Failed to mark email as completed", "error", err)
	}

	p.metrics.EmailsProcessed.Inc()
	log.Info("Reservation processed", "bookingId", reservation.BookingID, "outcome", outcome)
	return nil
}

// ProcessDailySummary records the daily digest when enabled and otherwise
// acknowledges it without writing anything
func (p *ReservationProcessor) ProcessDailySummary(ctx context.Context, email *entity.Email) error {
	log := p.logger.With("emailId", email.EmailID, "kind", "daily_summary")

	if !p.dailySummaryEnabled {
		log.Info("Daily summary recording disabled, acknowledging message")
		return p.emailRepo.MarkAsProcessedByEmailID(ctx, email.EmailID, entity.StatusSkipped, "daily_summary", "daily summary disabled", nil)
	}

	ref := p.now().In(p.location)
	entries, err := p.parser.ParseDailySummary(email.PlainBody(), ref)
	if err != nil {
		// A digest without the expected blocks is not retried
		log.Warn("Could not read daily summary", "error", err)
		return p.emailRepo.MarkAsProcessedByEmailID(ctx, email.EmailID, entity.StatusSkipped, "daily_summary", err.Error(), nil)
	}

	if len(entries) > 0 {
		if err := p.reservationLog.AppendDailySummary(ctx, entries); err != nil {
			p.metrics.ErrorsCount.WithLabelValues("summary_append").Inc()
			return fmt.Errorf("failed to append daily summary: %w", err)
		}
		p.metrics.DailySummaryEntries.Add(float64(len(entries)))
	}

	if err := p.emailRepo.MarkAsProcessedByEmailID(ctx, email.EmailID, entity.StatusCompleted, "daily_summary", "",
		map[string]interface{}{"entries": len(entries)}); err != nil {
		log.Error("Failed to mark email as completed", "error", err)
	}

	p.metrics.EmailsProcessed.Inc()
	log.Info("Daily summary processed", "entries", len(entries))
	return nil
}

func (p *ReservationProcessor) notify(ctx context.Context, log logger.Logger, r *entity.Reservation, outcome entity.ReconcileOutcome, ref time.Time) {
	if p.notifier == nil {
		return
	}

	var title string
	var severity entity.Severity
	switch outcome {
	case entity.OutcomeCreated:
		title, severity = utils.TitleNewReservation, entity.SeverityGood
	case entity.OutcomeUpdated:
		title, severity = utils.TitleModifiedReservation, entity.SeverityWarning
	case entity.OutcomeCancelled:
		title, severity = utils.TitleCancelledReservation, entity.SeverityDanger
	default:
		return
	}

	message := utils.FormatNotification(title, r, severity, ref.Unix())
	if err := p.notifier.Send(ctx, message); err != nil {
		p.metrics.ErrorsCount.WithLabelValues("notification").Inc()
		log.Error("Failed to send Slack notification", "title", title, "bookingId", r.BookingID, "error", err)
		return
	}
	p.metrics.NotificationsSent.Inc()
	log.Info("Slack notification sent", "title", title)
}
