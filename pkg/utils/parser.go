package utils

import (
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/pkg/logger"
)

// ReservationParser turns notification bodies into reservations
type ReservationParser struct {
	logger logger.Logger
}

// NewReservationParser creates a new reservation parser
func NewReservationParser(logger logger.Logger) *ReservationParser {
	return &ReservationParser{
		logger: logger,
	}
}

// ParseMessage extracts a reservation of the given kind from a plain text body.
// ref is the moment the message is processed and anchors year inference.
func (p *ReservationParser) ParseMessage(text string, kind entity.EventKind, ref time.Time) (*entity.Reservation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("parse message: %w: %q", ErrUnknownEventKind, kind)
	}

	r := &entity.Reservation{
		EventKind:          kind,
		ParsedAt:           ref,
		BookingID:          ExtractBookingID(text),
		ChangesSummary:     entity.NotAvailable,
		CancellationReason: entity.NotAvailable,
	}

	var missing []string
	for _, rule := range reservationGrammar {
		value := rule.extract(text)
		if value == entity.NotAvailable {
			missing = append(missing, rule.label)
		}
		rule.assign(r, value)
	}

	switch kind {
	case entity.EventNew:
		p.finishNew(r, ref)
	case entity.EventChanged:
		p.finishChanged(r, ref)
	case entity.EventCancelled:
		p.finishCancelled(r, text, ref)
	}

	if len(missing) > 0 {
		p.logger.Debug("Fields not found in message", "kind", kind, "bookingId", r.BookingID, "labels", missing)
	}
	p.logger.Info("Parsed reservation",
		"kind", kind,
		"bookingId", r.BookingID,
		"date", r.ReservationDate,
		"time", r.ReservationTime,
		"guests", r.GuestCount)

	return r, nil
}

func (p *ReservationParser) finishNew(r *entity.Reservation, ref time.Time) {
	r.ReservationDate = ResolveDate(r.ReservationDate, ref)
	r.OriginalDate = r.ReservationDate
}

// finishChanged reads "old → new" pairs; plan and table carry no deltas in
// the source format and pass through unchanged
func (p *ReservationParser) finishChanged(r *entity.Reservation, ref time.Time) {
	date := ParseDelta(r.ReservationDate, DateShape)
	clock := ParseDelta(r.ReservationTime, TimeShape)
	guests := ParseDelta(r.GuestCount, GuestShape)

	r.OriginalDate = ResolveDate(date.Before, ref)
	r.ReservationDate = r.OriginalDate
	if date.After != date.Before {
		r.ReservationDate = ResolveDate(date.After, ref)
	}
	r.ReservationTime = clock.After
	r.GuestCount = guests.After
	r.ChangesSummary = ChangesSummary(date, clock, guests)
}

func (p *ReservationParser) finishCancelled(r *entity.Reservation, text string, ref time.Time) {
	r.ReservationDate = ResolveDate(r.ReservationDate, ref)
	r.OriginalDate = r.ReservationDate
	r.CoursePlan = entity.CancelledStatus
	r.Table = entity.CancelledStatus
	r.CancellationReason = ExtractCancellationReason(text)
}
