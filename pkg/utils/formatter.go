package utils

import (
	"fmt"
	"strings"

	"tabelog-sync-service/internal/domain/entity"
)

// Notification pretexts per reconcile path
const (
	TitleNewReservation       = "🛎️ NEW RESERVATION ALERT"
	TitleModifiedReservation  = "⚠️ RESERVATION MODIFIED"
	TitleCancelledReservation = "❌ RESERVATION CANCELLED"
)

// Change request tag written in the second column of a change row
const changeRequestType = "change"

func orDefault(value, fallback string) string {
	if value == "" || value == entity.NotAvailable {
		return fallback
	}
	return value
}

func orNA(value string) string {
	return orDefault(value, entity.NotAvailable)
}

// BookingIDMarker is the description line that identifies a calendar event.
// Both the renderer and the lookup go through it.
func BookingIDMarker(bookingID string) string {
	return fmt.Sprintf("%s: %s", BookingIDLabel, bookingID)
}

// FormatReservationDescription renders the calendar event body
func FormatReservationDescription(r *entity.Reservation) string {
	lines := []string{
		"Diner Name: " + orNA(r.DinerName),
		"Phone: " + orNA(r.PhoneNumber),
		"Guests: " + orNA(r.GuestCount),
		"Course/Plan: " + orDefault(r.CoursePlan, DefaultCoursePlan),
		"Table: " + orDefault(r.Table, DefaultTable),
		BookingIDMarker(orNA(r.BookingID)),
		"Changes Log: " + orNA(r.ChangesSummary),
		"Cancellation Reason: " + orNA(r.CancellationReason),
	}
	return strings.Join(lines, "\n")
}

// FormatEventTitle renders "<diner> (<guests>名)"
func FormatEventTitle(r *entity.Reservation) string {
	return fmt.Sprintf("%s (%s名)", orNA(r.DinerName), orNA(r.GuestCount))
}

// UpdatedTitle is the title of an event moved by a change notification
func UpdatedTitle(r *entity.Reservation) string {
	return UpdatedTitlePrefix + " " + FormatEventTitle(r)
}

// MarkCancelledTitle prefixes title with the cancelled marker once
func MarkCancelledTitle(title string) string {
	if strings.HasPrefix(title, CancelledTitlePrefix) {
		return title
	}
	return CancelledTitlePrefix + " " + title
}

// FormatNotification builds the chat alert for a reservation. Changes and
// cancellation reason only appear when they carry a value.
func FormatNotification(title string, r *entity.Reservation, severity entity.Severity, ts int64) entity.SlackMessage {
	fields := []entity.SlackField{
		{Title: "Diner Name", Value: orNA(r.DinerName), Short: true},
		{Title: "Guests", Value: orNA(r.GuestCount) + "名", Short: true},
		{Title: "Date", Value: orNA(r.ReservationDate), Short: true},
		{Title: "Time", Value: orNA(r.ReservationTime), Short: true},
		{Title: "Booking ID", Value: orNA(r.BookingID), Short: true},
		{Title: "Plan/Course", Value: orDefault(r.CoursePlan, DefaultCoursePlan), Short: true},
	}
	if r.ChangesSummary != "" && r.ChangesSummary != entity.NotAvailable {
		fields = append(fields, entity.SlackField{Title: "CHANGES", Value: r.ChangesSummary})
	}
	if r.CancellationReason != "" && r.CancellationReason != entity.NotAvailable {
		fields = append(fields, entity.SlackField{Title: "CANCELLATION REASON", Value: r.CancellationReason})
	}
	if r.EventURL != "" {
		fields = append(fields, entity.SlackField{Title: "CALENDAR LINK", Value: fmt.Sprintf("<%s|View Event>", r.EventURL)})
	}

	return entity.SlackMessage{
		Attachments: []entity.SlackAttachment{
			{
				MrkdwnIn: []string{"text"},
				Color:    severity,
				Pretext:  fmt.Sprintf("*%s*", title),
				Fields:   fields,
				Ts:       ts,
			},
		},
	}
}

// LogHeader is the header row of the reservation log sheet
func LogHeader() []interface{} {
	return []interface{}{
		"Date Parsed",
		"Diner Name",
		"Phone",
		"Reservation Date",
		"Reservation Time",
		"New Reservation Date",
		"New Reservation Time",
		"Guest Count",
		"Course/Plan",
		"Table",
		"Booking ID",
		"Changes",
		"Cancellation reason",
	}
}

// LogRowValues orders the reservation into the log columns of its kind:
// 11 columns for new and cancelled, 14 for changed
func LogRowValues(r *entity.Reservation) ([]interface{}, error) {
	parsed := r.ParsedAt.Format(LOG_TIME_LAYOUT)

	switch r.EventKind {
	case entity.EventNew:
		return []interface{}{
			parsed, r.DinerName, r.PhoneNumber, r.ReservationDate, r.ReservationTime,
			r.GuestCount, r.CoursePlan, r.Table, r.BookingID, "", "",
		}, nil
	case entity.EventChanged:
		newDate := entity.NotAvailable
		if r.DateChanged() {
			newDate = r.ReservationDate
		}
		return []interface{}{
			parsed, changeRequestType, r.DinerName, r.PhoneNumber,
			r.OriginalDate, r.ReservationTime, newDate, r.ReservationTime,
			r.GuestCount, r.CoursePlan, r.Table, r.BookingID, r.ChangesSummary, "",
		}, nil
	case entity.EventCancelled:
		return []interface{}{
			parsed, r.DinerName, r.PhoneNumber, r.ReservationDate, r.ReservationTime,
			r.GuestCount, entity.CancelledStatus, entity.CancelledStatus, r.BookingID,
			entity.NotAvailable, r.CancellationReason,
		}, nil
	}
	return nil, fmt.Errorf("log row: %w: %q", ErrUnknownEventKind, r.EventKind)
}

// DailySummaryHeader is the header row of the daily summary sheet
func DailySummaryHeader() []interface{} {
	return []interface{}{"Date Parsed", "Reservation Date", "Reservation Time", "Guest Count", "Diner Name"}
}

// DailySummaryRowValues orders one digest entry into its log columns
func DailySummaryRowValues(e entity.DailySummaryEntry) []interface{} {
	return []interface{}{
		e.ParsedAt.Format(LOG_TIME_LAYOUT), e.ReservationDate, e.ReservationTime, e.GuestCount, e.DinerName,
	}
}
