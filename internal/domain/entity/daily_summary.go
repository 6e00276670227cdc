package entity

import "time"

// DailySummaryEntry is one line of the "today's net reservations" digest
type DailySummaryEntry struct {
	ParsedAt        time.Time `json:"parsedAt"`
	ReservationDate string    `json:"reservationDate"`
	ReservationTime string    `json:"reservationTime"`
	GuestCount      string    `json:"guestCount"`
	DinerName       string    `json:"dinerName"`
}
