package booking

import "errors"

var (
	// ErrUnknownService means the requested service identifier is not in the
	// catalogue.
	ErrUnknownService = errors.New("unknown service")

	// ErrDateBlocked means the requested date is exhausted or fully blacked
	// out and may not be selected.
	ErrDateBlocked = errors.New("date is not available")

	// ErrSlotUnavailable means the requested time does not exist in the grid
	// or overlaps a blackout range.
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrNoDateSelected means a slot was requested before any date was
	// chosen; a time is only meaningful relative to its date.
	ErrNoDateSelected = errors.New("no date selected")
)
