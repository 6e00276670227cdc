package calendar

import (
	"context"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarRepository implements the CalendarRepository interface on one Google calendar
type GoogleCalendarRepository struct {
	service    *gcal.Service
	calendarID string
	location   *time.Location
	logger     logger.Logger
}

// NewGoogleCalendarRepository creates a new Google Calendar repository
func NewGoogleCalendarRepository(
	ctx context.Context,
	calendarID string,
	location *time.Location,
	logger logger.Logger,
	opts ...option.ClientOption,
) (*GoogleCalendarRepository, error) {
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GoogleCalendarRepository{
		service:    service,
		calendarID: calendarID,
		location:   location,
		logger:     logger,
	}, nil
}

var _ repository.CalendarRepository = (*GoogleCalendarRepository)(nil)

// ListEventsInWindow returns single events starting between start and end
func (r *GoogleCalendarRepository) ListEventsInWindow(ctx context.Context, start, end time.Time) ([]*entity.CalendarEvent, error) {
	var events []*entity.CalendarEvent

	err := r.service.Events.List(r.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Pages(ctx, func(page *gcal.Events) error {
			for _, item := range page.Items {
				events = append(events, r.toEntity(item))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	r.logger.Debug("Listed calendar events", "count", len(events), "from", start, "to", end)
	return events, nil
}

// CreateEvent inserts a timed event
func (r *GoogleCalendarRepository) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*entity.CalendarEvent, error) {
	event := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       r.dateTime(start),
		End:         r.dateTime(end),
	}

	created, err := r.service.Events.Insert(r.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return r.toEntity(created), nil
}

// SetTitle patches the event summary
func (r *GoogleCalendarRepository) SetTitle(ctx context.Context, eventID, title string) error {
	return r.patch(ctx, eventID, &gcal.Event{Summary: title})
}

// SetDescription patches the event description
func (r *GoogleCalendarRepository) SetDescription(ctx context.Context, eventID, description string) error {
	return r.patch(ctx, eventID, &gcal.Event{Description: description})
}

// SetTime moves the event
func (r *GoogleCalendarRepository) SetTime(ctx context.Context, eventID string, start, end time.Time) error {
	return r.patch(ctx, eventID, &gcal.Event{Start: r.dateTime(start), End: r.dateTime(end)})
}

func (r *GoogleCalendarRepository) patch(ctx context.Context, eventID string, event *gcal.Event) error {
	if _, err := r.service.Events.Patch(r.calendarID, eventID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to patch event %s: %w", eventID, err)
	}
	return nil
}

func (r *GoogleCalendarRepository) dateTime(t time.Time) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.In(r.location).Format(time.RFC3339),
		TimeZone: r.location.String(),
	}
}

func (r *GoogleCalendarRepository) toEntity(item *gcal.Event) *entity.CalendarEvent {
	event := &entity.CalendarEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		HTMLLink:    item.HtmlLink,
	}
	if item.Start != nil {
		event.Start = parseEventTime(item.Start, r.location)
	}
	if item.End != nil {
		event.End = parseEventTime(item.End, r.location)
	}
	return event
}

// parseEventTime reads a timed or all-day boundary
func parseEventTime(dt *gcal.EventDateTime, loc *time.Location) time.Time {
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t.In(loc)
		}
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", dt.Date, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
