package timesheet

import (
	"fmt"
	"time"
)

// DefaultWeekOffset is the default lag, in days, of the reported week.
const DefaultWeekOffset = 14

// Week is a Monday to Sunday reporting window.
type Week struct {
	Start Date
	End   Date
}

// ReportingWeek returns the week containing ref minus offsetDays.
func ReportingWeek(ref time.Time, offsetDays int) Week {
	anchor := NewDate(ref).AddDate(0, 0, -offsetDays)
	// time.Weekday counts from Sunday.
	back := (int(anchor.Weekday()) + 6) % 7
	start := anchor.AddDate(0, 0, -back)
	return Week{Start: Date{start}, End: Date{start.AddDate(0, 0, 6)}}
}

// Number is the ISO week number of the week.
func (w Week) Number() int {
	_, n := w.Start.ISOWeek()
	return n
}

// Label is the human readable week label, e.g. "KW 35 (2025-08-25 – 2025-08-31)".
func (w Week) Label() string {
	return fmt.Sprintf("KW %d (%s – %s)", w.Number(), w.Start, w.End)
}

// Contains reports whether d falls inside the week.
func (w Week) Contains(d Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}
