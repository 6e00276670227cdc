package entity

import (
	"fmt"
	"time"
)

// NotAvailable marks a field that could not be extracted from the message.
const NotAvailable = "N/A"

// NoChanges is the summary of a change notification that carried no deltas.
const NoChanges = "No Changes"

// CancelledStatus replaces plan and table of a cancelled reservation.
const CancelledStatus = "CANCELLED"

// EventKind is the lifecycle event a notification email describes
type EventKind string

const (
	EventNew       EventKind = "new"
	EventChanged   EventKind = "changed"
	EventCancelled EventKind = "cancelled"
)

// Valid reports whether k is one of the known event kinds
func (k EventKind) Valid() bool {
	switch k {
	case EventNew, EventChanged, EventCancelled:
		return true
	}
	return false
}

// ParseEventKind converts a string to an EventKind
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown event kind %q", s)
	}
	return k, nil
}

// Reservation is the normalized form of one reservation notification.
// Every string field holds NotAvailable instead of an empty value when the
// source message did not carry it.
type Reservation struct {
	EventKind          EventKind `bson:"eventKind" json:"eventKind"`
	ParsedAt           time.Time `bson:"parsedAt" json:"parsedAt"`
	BookingID          string    `bson:"bookingId" json:"bookingId"`
	DinerName          string    `bson:"dinerName" json:"dinerName"`
	PhoneNumber        string    `bson:"phoneNumber" json:"phoneNumber"`
	ReservationDate    string    `bson:"reservationDate" json:"reservationDate"` // YYYY/MM/DD, the new date for a change
	ReservationTime    string    `bson:"reservationTime" json:"reservationTime"`
	OriginalDate       string    `bson:"originalDate" json:"originalDate"` // YYYY/MM/DD before the change
	GuestCount         string    `bson:"guestCount" json:"guestCount"`
	CoursePlan         string    `bson:"coursePlan" json:"coursePlan"`
	Table              string    `bson:"table" json:"table"`
	ChangesSummary     string    `bson:"changesSummary" json:"changesSummary"`
	CancellationReason string    `bson:"cancellationReason" json:"cancellationReason"`
	EventURL           string    `bson:"eventUrl,omitempty" json:"eventUrl,omitempty"`
}

// DateChanged reports whether a change notification moved the reservation date
func (r *Reservation) DateChanged() bool {
	return r.EventKind == EventChanged &&
		r.ReservationDate != NotAvailable &&
		r.OriginalDate != r.ReservationDate
}

// ToMap flattens the reservation for the email processing log
func (r *Reservation) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"eventKind":          string(r.EventKind),
		"bookingId":          r.BookingID,
		"dinerName":          r.DinerName,
		"phoneNumber":        r.PhoneNumber,
		"reservationDate":    r.ReservationDate,
		"reservationTime":    r.ReservationTime,
		"originalDate":       r.OriginalDate,
		"guestCount":         r.GuestCount,
		"coursePlan":         r.CoursePlan,
		"table":              r.Table,
		"changesSummary":     r.ChangesSummary,
		"cancellationReason": r.CancellationReason,
	}
}
