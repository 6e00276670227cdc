package utils

import "errors"

// Labels used by the reservation notification body
const (
	LabelDinerName          = "お名前"
	LabelPhone              = "電話番号"
	LabelDate               = "日付"
	LabelTime               = "来店時刻"
	LabelGuestCount         = "人数"
	LabelCourse             = "コース"
	LabelTable              = "卓"
	LabelCancellationReason = "キャンセル理由"
)

// BookingIDPrefix precedes the 8 digit booking id in the owner console link
const BookingIDPrefix = "bookingId=net:"

// Calendar description and title markers
const (
	BookingIDLabel       = "Tabelog Booking ID"
	UpdatedTitlePrefix   = "[Updated]"
	CancelledTitlePrefix = "[Cancelled]"
)

// Render-time defaults for fields the diner left empty
const (
	DefaultCoursePlan = "お席のみ"
	DefaultTable      = "未定"
)

// Constants
const (
	SCHEDULE_LAYOUT = "2006/1/2 15:04"
	LOG_TIME_LAYOUT = "2006-01-02 15:04:05"

	// horizontal whitespace tolerated around labels, arrows and colons; never
	// a line break, so an empty field cannot swallow the next line
	wsClass = `[\t \x{00a0}\x{3000}]`
)

var (
	ErrUnknownEventKind = errors.New("unknown event kind")
	ErrInvalidSchedule  = errors.New("invalid reservation schedule")
)
