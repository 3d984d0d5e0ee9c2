package analysis

import (
	"strings"
	"time"
)

// Layouts tried by the best-effort date parser, most specific first.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"1/2/2006",
	"02/01/2006 15:04",
	"2006-01",
	"Jan-06",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"2006 Jan",
}

// Layouts for month labels that had a synthetic day-of-month prepended.
var prefixedMonthLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2-January 2006",
	"2-01-2006",
	"2-1-2006",
	"2-2006-01",
	"2-2006/01",
	"2-01/2006",
}

// ParseDate attempts a best-effort calendar-date parse of a text cell.
// Unparseable input returns ok == false; the owning row is dropped later.
func ParseDate(c Cell) (time.Time, bool) {
	if c.Kind != CellText {
		return time.Time{}, false
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMonth parses a period label from a P&L sheet using a fallback chain:
// direct date parse, then a retry with a synthetic day-of-month prepended
// (covers labels like "Jan-24" that only carry month and year), then gives up
// permissively with ok == false.
func ParseMonth(c Cell) (time.Time, bool) {
	if t, ok := ParseDate(c); ok {
		return t, true
	}
	if c.Kind != CellText {
		return time.Time{}, false
	}
	s := "1-" + strings.TrimSpace(c.Text)
	for _, layout := range prefixedMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthOf anchors a date to the first instant of its calendar month in UTC.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
