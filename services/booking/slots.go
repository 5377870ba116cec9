package booking

import (
	"fmt"
	"strconv"
	"strings"

	"motorbook/models"
)

// GenerateDailySlots produces the one-hour candidate grid over the half-open
// working window [startHour, endHour), every slot initially available.
func GenerateDailySlots(startHour, endHour int) []models.TimeSlot {
	var slots []models.TimeSlot
	for hour := startHour; hour < endHour; hour++ {
		slots = append(slots, models.TimeSlot{
			Time:      fmt.Sprintf("%02d:00", hour),
			Available: true,
		})
	}
	return slots
}

// IsDateBlocked reports whether a date is unselectable outright: either the
// backend marked it exhausted, or a blackout spans the full day. A partial-day
// blackout never blocks the date, only its overlapping slots.
func IsDateBlocked(date string, exhausted []string, blackouts []models.BlackoutRange) bool {
	for _, d := range exhausted {
		if d == date {
			return true
		}
	}
	for _, b := range blackouts {
		if b.Date == date && b.IsFullDay() {
			return true
		}
	}
	return false
}

// SlotsWithAvailability returns a copy of slots with each one's availability
// reconciled against the blackout ranges for the selected date. A slot is
// blocked only when its start instant falls inside a range (half-open: a slot
// starting exactly at a range's end is available). The input is not mutated.
func SlotsWithAvailability(slots []models.TimeSlot, blackouts []models.BlackoutRange) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	for i, slot := range slots {
		start, err := minutesOfDay(slot.Time)
		if err != nil {
			out[i] = slot
			continue
		}
		blocked := false
		for _, b := range blackouts {
			bStart, err := minutesOfDay(b.StartTime)
			if err != nil {
				continue
			}
			bEnd, err := minutesOfDay(b.EndTime)
			if err != nil {
				continue
			}
			if start >= bStart && start < bEnd {
				blocked = true
				break
			}
		}
		out[i] = models.TimeSlot{Time: slot.Time, Available: !blocked}
	}
	return out
}

// minutesOfDay converts an "HH:MM" label to minutes since midnight.
func minutesOfDay(label string) (int, error) {
	h, m, ok := strings.Cut(label, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time label %q", label)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("malformed time label %q", label)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("malformed time label %q", label)
	}
	return hour*60 + minute, nil
}
