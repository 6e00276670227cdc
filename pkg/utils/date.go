package utils

import (
	"fmt"
	"strconv"
	"time"

	"tabelog-sync-service/internal/domain/entity"
)

// ResolveYear infers the year of a bare MM/DD. A January reservation seen in
// December belongs to the following year; every other month keeps the
// reference year.
func ResolveYear(monthDay string, ref time.Time) int {
	year := ref.Year()
	if len(monthDay) < 2 {
		return year
	}

	month, err := strconv.Atoi(monthDay[:2])
	if err != nil {
		return year
	}

	if ref.Month() == time.December && month == 1 {
		return year + 1
	}
	return year
}

// ResolveDate prefixes MM/DD with its inferred year, or returns N/A
func ResolveDate(monthDay string, ref time.Time) string {
	if monthDay == "" || monthDay == entity.NotAvailable {
		return entity.NotAvailable
	}
	return fmt.Sprintf("%d/%s", ResolveYear(monthDay, ref), monthDay)
}

// ScheduleStart parses a resolved YYYY/MM/DD date and HH:MM time in loc
func ScheduleStart(date, clock string, loc *time.Location) (time.Time, error) {
	if date == entity.NotAvailable || clock == entity.NotAvailable {
		return time.Time{}, fmt.Errorf("%w: date=%q time=%q", ErrInvalidSchedule, date, clock)
	}
	start, err := time.ParseInLocation(SCHEDULE_LAYOUT, date+" "+PadTime(clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q: %v", ErrInvalidSchedule, date, clock, err)
	}
	return start, nil
}
