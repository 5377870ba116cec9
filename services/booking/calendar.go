package booking

import (
	"fmt"
	"time"

	"motorbook/models"
)

// ISODate formats t as YYYY-MM-DD using its local calendar fields. No
// timezone conversion is applied beyond reading the local date.
func ISODate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// AddDays returns t shifted by n whole days. Time-of-day fields carry over
// unchanged.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextNDays produces the n consecutive calendar days starting at base
// (inclusive), in ascending order, each with its ISO form and a short weekday
// label. Days come back unblocked; the reconciler marks them.
func NextNDays(base time.Time, n int) []models.CalendarDay {
	days := make([]models.CalendarDay, 0, n)
	for i := 0; i < n; i++ {
		d := AddDays(base, i)
		days = append(days, models.CalendarDay{
			ISO:     ISODate(d),
			Weekday: d.Format("Mon"),
		})
	}
	return days
}
