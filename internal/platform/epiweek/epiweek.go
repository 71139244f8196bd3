// Package epiweek computes ISO-8601 epidemiological weeks as used by the
// national public-health surveillance calendar (weeks start on Monday; week 1
// is the week containing the year's first Thursday).
package epiweek

import (
	"fmt"
	"time"
)

// Week identifies an epidemiological week. Year is the week-numbering year,
// which near year boundaries may differ from the calendar year of the date.
type Week struct {
	Number int
	Year   int
}

// Of returns the epidemiological week containing t. The computation uses the
// UTC calendar date only, so two times on the same date always land in the
// same week regardless of their zone offsets.
func Of(t time.Time) Week {
	u := t.UTC()
	date := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	// Shift to the Thursday of this date's Monday-started week. The Thursday
	// decides both the week number and the week-numbering year.
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	thursday := date.AddDate(0, 0, 4-weekday)

	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	ordinal := int(thursday.Sub(jan1).Hours()/24) + 1

	return Week{
		Number: (ordinal + 6) / 7,
		Year:   thursday.Year(),
	}
}

// Label renders the week in "YYYY-Www" form, e.g. "2025-W01".
func (w Week) Label() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}
