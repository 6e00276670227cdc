package utils

import (
	"regexp"
	"strings"

	"tabelog-sync-service/internal/domain/entity"
)

// Transform is one cleanup step applied to a captured field value
type Transform func(string) string

// Chain composes transforms left to right
func Chain(transforms ...Transform) Transform {
	return func(s string) string {
		for _, t := range transforms {
			s = t(s)
		}
		return s
	}
}

var (
	honorificPattern = regexp.MustCompile(`様$|名$|\s*\[.*?\]`)
	bookingIDPattern = regexp.MustCompile(regexp.QuoteMeta(BookingIDPrefix) + `(\d{8})`)
	reasonPattern    = regexp.MustCompile(regexp.QuoteMeta(LabelCancellationReason) + `[\t \x{00a0}\x{3000}：:]*([^\r\n]+)`)
)

// TrimSpace trims unicode whitespace, including full-width spaces
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}

// StripHonorifics removes a trailing 様 or 名 and any [bracketed] annotation
func StripHonorifics(s string) string {
	return honorificPattern.ReplaceAllString(s, "")
}

// StripFullWidthBrackets removes a leading 【 and a trailing 】
func StripFullWidthBrackets(s string) string {
	s = strings.TrimPrefix(s, "【")
	return strings.TrimSuffix(s, "】")
}

// CleanValue is the cleanup every labelled field goes through
var CleanValue = Chain(TrimSpace, StripHonorifics, TrimSpace)

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + wsClass + `*[：:]` + wsClass + `*(.+?)[\r\n]`)
}

// fieldRule binds a body label to the reservation field it fills
type fieldRule struct {
	label     string
	pattern   *regexp.Regexp
	transform Transform
	assign    func(r *entity.Reservation, value string)
}

func newFieldRule(label string, assign func(r *entity.Reservation, value string)) fieldRule {
	return fieldRule{
		label:     label,
		pattern:   labelPattern(label),
		transform: CleanValue,
		assign:    assign,
	}
}

func (f fieldRule) extract(text string) string {
	return matchFirst(f.pattern, text, f.transform)
}

// reservationGrammar lists the labelled fields shared by every notification kind
var reservationGrammar = []fieldRule{
	newFieldRule(LabelDinerName, func(r *entity.Reservation, v string) { r.DinerName = v }),
	newFieldRule(LabelPhone, func(r *entity.Reservation, v string) { r.PhoneNumber = v }),
	newFieldRule(LabelDate, func(r *entity.Reservation, v string) { r.ReservationDate = v }),
	newFieldRule(LabelTime, func(r *entity.Reservation, v string) { r.ReservationTime = v }),
	newFieldRule(LabelGuestCount, func(r *entity.Reservation, v string) { r.GuestCount = v }),
	newFieldRule(LabelCourse, func(r *entity.Reservation, v string) { r.CoursePlan = v }),
	newFieldRule(LabelTable, func(r *entity.Reservation, v string) { r.Table = v }),
}

func matchFirst(pattern *regexp.Regexp, text string, transform Transform) string {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 || match[1] == "" {
		return entity.NotAvailable
	}
	value := transform(match[1])
	if value == "" {
		return entity.NotAvailable
	}
	return value
}

// ExtractField returns the cleaned value of the first "label：value" line, or N/A
func ExtractField(text, label string) string {
	return matchFirst(labelPattern(label), text, CleanValue)
}

// ExtractBookingID returns the 8 digit booking id from the owner console link, or N/A
func ExtractBookingID(text string) string {
	return matchFirst(bookingIDPattern, text, TrimSpace)
}

// ExtractCancellationReason returns the text after the cancellation reason label
// up to the end of its line, without the 【】 wrapper, or N/A
func ExtractCancellationReason(text string) string {
	return matchFirst(reasonPattern, text, Chain(TrimSpace, StripFullWidthBrackets, TrimSpace))
}
