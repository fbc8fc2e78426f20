package gigs

import (
	"time"

	"gigmap-server/models/event"
)

const dateLayout = event.DateLayout

// DISPLAY_DATE_LAYOUT renders dates as "Thursday, August 1".
const DISPLAY_DATE_LAYOUT = "Monday, January 2"

const (
	LABEL_TONIGHT   = "Tonight"
	LABEL_TOMORROW  = "Tomorrow"
	LABEL_THIS_WEEK = "This Week"
	LABEL_NEXT_WEEK = "Next Week"

	PLACEHOLDER_TIME   = "TBA"
	PLACEHOLDER_ARTIST = "Unknown Artist"
)

// RelativeLabel names a date relative to today using the day-distance bands.
// Past dates and dates beyond next week get the plain formatted date.
func RelativeLabel(date, today time.Time) string {
	days := DayDistance(date, today)
	switch {
	case days == 0:
		return LABEL_TONIGHT
	case days == 1:
		return LABEL_TOMORROW
	case days >= 2 && days <= 7:
		return LABEL_THIS_WEEK
	case days >= 8 && days <= 14:
		return LABEL_NEXT_WEEK
	default:
		return FormatDay(date)
	}
}

// FormatDay formats a date for display.
func FormatDay(date time.Time) string {
	return date.Format(DISPLAY_DATE_LAYOUT)
}
