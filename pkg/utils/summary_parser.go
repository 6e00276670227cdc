package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tabelog-sync-service/internal/domain/entity"
)

// DailySummaryListTag opens the reservation list of the daily digest
const DailySummaryListTag = "＜本日の食べログネット予約一覧＞"

var (
	ErrSummaryDateNotFound = errors.New("daily summary: date header not found")
	ErrSummaryListNotFound = errors.New("daily summary: reservation list not found")

	summaryDatePattern    = regexp.MustCompile(`本日[（(](\d{1,2}/\d{1,2})[）)]`)
	summaryTrailerPattern = regexp.MustCompile(`\*(\d{1,2})月(\d{1,2})日(\d{1,2}:\d{2}) 時点`)
	summaryLineFilter     = regexp.MustCompile(`\d{1,2}:\d{2}～`)
	summaryLinePattern    = regexp.MustCompile(`(\d{1,2}:\d{2})～[\s\x{3000}]+(\d+)名[\s\x{3000}]+(.+)[\s\x{3000}]+様`)
)

// ParseDailySummary reads the "today's reservations" digest. The digest date
// always lies in the reference year.
func (p *ReservationParser) ParseDailySummary(text string, ref time.Time) ([]entity.DailySummaryEntry, error) {
	header := summaryDatePattern.FindStringSubmatch(text)
	if header == nil {
		return nil, ErrSummaryDateNotFound
	}
	date := fmt.Sprintf("%d/%s", ref.Year(), header[1])

	start := strings.Index(text, DailySummaryListTag)
	if start == -1 {
		return nil, ErrSummaryListNotFound
	}
	block := text[start+len(DailySummaryListTag):]
	if loc := summaryTrailerPattern.FindStringIndex(block); loc != nil {
		block = block[:loc[0]]
	}

	var entries []entity.DailySummaryEntry
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !summaryLineFilter.MatchString(line) {
			continue
		}
		m := summaryLinePattern.FindStringSubmatch(line)
		if m == nil {
			p.logger.Debug("Skipping unrecognised summary line", "line", line)
			continue
		}
		entries = append(entries, entity.DailySummaryEntry{
			ParsedAt:        ref,
			ReservationDate: date,
			ReservationTime: m[1],
			GuestCount:      m[2],
			DinerName:       strings.TrimSpace(m[3]),
		})
	}

	p.logger.Info("Parsed daily summary", "date", date, "count", len(entries))
	return entries, nil
}
