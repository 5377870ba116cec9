package models

// TimeSlot is a derived candidate appointment window within a working day.
// Slots are never persisted; they are regenerated whenever the selected date
// or the blackout snapshot changes.
type TimeSlot struct {
	Time      string `json:"time"` // "HH:MM", 24-hour
	Available bool   `json:"available"`
}

// BlackoutRange is an administrator-defined interval during which no bookings
// may be made. A range spanning 00:00-23:59 closes the whole date.
type BlackoutRange struct {
	ID        string `json:"_id"`
	Date      string `json:"date"` // "YYYY-MM-DD"
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FullDayStart and FullDayEnd mark a blackout that closes an entire date.
const (
	FullDayStart = "00:00"
	FullDayEnd   = "23:59"
)

// IsFullDay reports whether the range closes its whole date.
func (b BlackoutRange) IsFullDay() bool {
	return b.StartTime == FullDayStart && b.EndTime == FullDayEnd
}

// CalendarDay is one entry of the selectable date window offered to the
// customer.
type CalendarDay struct {
	ISO     string `json:"iso"`     // "YYYY-MM-DD"
	Weekday string `json:"weekday"` // short label, e.g. "Mon"
	Blocked bool   `json:"blocked"`
}

// AvailabilitySnapshot bundles the server-reported exhaustion and blackout
// state the reconciler works from. Either collection may be empty when the
// corresponding fetch has not resolved (or failed under the fail-open policy).
type AvailabilitySnapshot struct {
	ExhaustedDates []string        `json:"exhaustedDates"`
	Blackouts      []BlackoutRange `json:"blackouts"`
}

// BlackoutsFor returns the blackout ranges recorded for the given ISO date.
func (s AvailabilitySnapshot) BlackoutsFor(date string) []BlackoutRange {
	var out []BlackoutRange
	for _, b := range s.Blackouts {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out
}
