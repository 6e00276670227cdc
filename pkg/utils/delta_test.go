package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tabelog-sync-service/internal/domain/entity"
)

func TestParseDelta(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		shape Shape
		want  Delta
	}{
		{
			name:  "time change",
			raw:   "18:00 → 19:30",
			shape: TimeShape,
			want:  Delta{Label: "Time", Before: "18:00", After: "19:30", Changed: true},
		},
		{
			name:  "single digit hour padded",
			raw:   "9:00→10:30",
			shape: TimeShape,
			want:  Delta{Label: "Time", Before: "09:00", After: "10:30", Changed: true},
		},
		{
			name:  "unchanged time padded",
			raw:   "9:30",
			shape: TimeShape,
			want:  Delta{Label: "Time", Before: "09:30", After: "09:30"},
		},
		{
			name:  "date change",
			raw:   "01/15 → 01/20",
			shape: DateShape,
			want:  Delta{Label: "Date", Before: "01/15", After: "01/20", Changed: true},
		},
		{
			name:  "unchanged date loses weekday",
			raw:   "01/15（水）",
			shape: DateShape,
			want:  Delta{Label: "Date", Before: "01/15", After: "01/15"},
		},
		{
			name:  "guest change with unit on the left",
			raw:   "2名 → 4",
			shape: GuestShape,
			want:  Delta{Label: "Guests", Before: "2", After: "4", Changed: true},
		},
		{
			name:  "full-width spaces around arrow",
			raw:   "2　→　3",
			shape: GuestShape,
			want:  Delta{Label: "Guests", Before: "2", After: "3", Changed: true},
		},
		{
			name:  "not available passes through",
			raw:   entity.NotAvailable,
			shape: DateShape,
			want:  Delta{Label: "Date", Before: entity.NotAvailable, After: entity.NotAvailable},
		},
		{
			name:  "nothing of the shape left",
			raw:   "未定",
			shape: TimeShape,
			want:  Delta{Label: "Time", Before: entity.NotAvailable, After: entity.NotAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDelta(tt.raw, tt.shape))
		})
	}
}

func TestParseDeltaOnlyRecognisesArrowGlyph(t *testing.T) {
	d := ParseDelta("18:00 -> 19:30", TimeShape)

	assert.False(t, d.Changed)
	assert.Equal(t, d.Before, d.After)
}

func TestChangesSummary(t *testing.T) {
	date := ParseDelta("01/15", DateShape)
	clock := ParseDelta("18:00 → 19:30", TimeShape)
	guests := ParseDelta("2 → 4", GuestShape)

	assert.Equal(t, "Time: 18:00 -> 19:30; Guests: 2 -> 4", ChangesSummary(date, clock, guests))
	assert.Equal(t, entity.NoChanges, ChangesSummary(date))
	assert.Equal(t, entity.NoChanges, ChangesSummary())
}

func TestPadTime(t *testing.T) {
	assert.Equal(t, "09:05", PadTime("9:05"))
	assert.Equal(t, "18:00", PadTime(" 18:00 "))
	assert.Equal(t, entity.NotAvailable, PadTime(entity.NotAvailable))
}
