package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/utils"
)

// CalendarReconciler applies reservation events to the calendar, keyed by booking id
type CalendarReconciler struct {
	calendar  repository.CalendarRepository
	location  *time.Location
	lookahead time.Duration
	duration  time.Duration
	now       func() time.Time
	logger    logger.Logger
}

// NewCalendarReconciler creates a new calendar reconciler
func NewCalendarReconciler(
	calendar repository.CalendarRepository,
	location *time.Location,
	lookaheadDays int,
	durationMinutes int,
	logger logger.Logger,
) *CalendarReconciler {
	return &CalendarReconciler{
		calendar:  calendar,
		location:  location,
		lookahead: time.Duration(lookaheadDays) * 24 * time.Hour,
		duration:  time.Duration(durationMinutes) * time.Minute,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the clock used for the lookup window
func (c *CalendarReconciler) WithClock(now func() time.Time) *CalendarReconciler {
	c.now = now
	return c
}

// Reconcile creates, updates or cancels the calendar event of r and reports
// what it did. The returned event is nil when nothing was touched.
func (c *CalendarReconciler) Reconcile(ctx context.Context, r *entity.Reservation) (entity.ReconcileOutcome, *entity.CalendarEvent, error) {
	switch r.EventKind {
	case entity.EventNew:
		event, err := c.create(ctx, r)
		if err != nil {
			return "", nil, err
		}
		return entity.OutcomeCreated, event, nil

	case entity.EventChanged:
		event, err := c.FindByBookingID(ctx, r.BookingID)
		if err != nil {
			return "", nil, err
		}
		if event == nil {
			c.logger.Info("Original event not found, creating new event", "bookingId", r.BookingID)
			created, err := c.create(ctx, r)
			if err != nil {
				return "", nil, err
			}
			return entity.OutcomeCreated, created, nil
		}
		if err := c.update(ctx, event, r); err != nil {
			return "", nil, err
		}
		return entity.OutcomeUpdated, event, nil

	case entity.EventCancelled:
		event, err := c.FindByBookingID(ctx, r.BookingID)
		if err != nil {
			return "", nil, err
		}
		if event == nil {
			c.logger.Info("Cancelled event not found in calendar", "bookingId", r.BookingID)
			return entity.OutcomeNotFound, nil, nil
		}
		if err := c.cancel(ctx, event, r); err != nil {
			return "", nil, err
		}
		return entity.OutcomeCancelled, event, nil
	}

	return "", nil, fmt.Errorf("reconcile: %w: %q", utils.ErrUnknownEventKind, r.EventKind)
}

// FindByBookingID returns the first event in the lookahead window whose
// description carries the booking id marker, or nil
func (c *CalendarReconciler) FindByBookingID(ctx context.Context, bookingID string) (*entity.CalendarEvent, error) {
	if bookingID == "" || bookingID == entity.NotAvailable {
		return nil, nil
	}

	start := c.now().In(c.location)
	events, err := c.calendar.ListEventsInWindow(ctx, start, start.Add(c.lookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	marker := utils.BookingIDMarker(bookingID)
	for _, event := range events {
		if strings.Contains(event.Description, marker) {
			return event, nil
		}
	}
	return nil, nil
}

func (c *CalendarReconciler) schedule(r *entity.Reservation) (time.Time, time.Time, error) {
	start, err := utils.ScheduleStart(r.ReservationDate, r.ReservationTime, c.location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(c.duration), nil
}

func (c *CalendarReconciler) create(ctx context.Context, r *entity.Reservation) (*entity.CalendarEvent, error) {
	start, end, err := c.schedule(r)
	if err != nil {
		return nil, fmt.Errorf("cannot create event for booking %s: %w", r.BookingID, err)
	}

	title := utils.FormatEventTitle(r)
	event, err := c.calendar.CreateEvent(ctx, title, start, end, utils.FormatReservationDescription(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	c.logger.Info("Created new reservation event", "title", title, "bookingId", r.BookingID, "start", start)
	return event, nil
}

// update keeps the event where it is when the new schedule cannot be read
func (c *CalendarReconciler) update(ctx context.Context, event *entity.CalendarEvent, r *entity.Reservation) error {
	title := utils.UpdatedTitle(r)
	description := utils.FormatReservationDescription(r)

	if err := c.calendar.SetTitle(ctx, event.ID, title); err != nil {
		return fmt.Errorf("failed to set event title: %w", err)
	}
	event.Title = title

	if err := c.calendar.SetDescription(ctx, event.ID, description); err != nil {
		return fmt.Errorf("failed to set event description: %w", err)
	}
	event.Description = description

	start, end, err := c.schedule(r)
	if err != nil {
		c.logger.Warn("Keeping original event time", "bookingId", r.BookingID, "error", err)
	} else {
		if err := c.calendar.SetTime(ctx, event.ID, start, end); err != nil {
			return fmt.Errorf("failed to set event time: %w", err)
		}
		event.Start, event.End = start, end
	}

	c.logger.Info("Updated event", "bookingId", r.BookingID, "eventId", event.ID)
	return nil
}

func (c *CalendarReconciler) cancel(ctx context.Context, event *entity.CalendarEvent, r *entity.Reservation) error {
	title := utils.MarkCancelledTitle(event.Title)
	if title != event.Title {
		if err := c.calendar.SetTitle(ctx, event.ID, title); err != nil {
			return fmt.Errorf("failed to set event title: %w", err)
		}
		event.Title = title
	}

	description := utils.FormatReservationDescription(r)
	if err := c.calendar.SetDescription(ctx, event.ID, description); err != nil {
		return fmt.Errorf("failed to set event description: %w", err)
	}
	event.Description = description

	c.logger.Info("Marked event as cancelled", "bookingId", r.BookingID, "eventId", event.ID)
	return nil
}
