package booking

import (
	"errors"

	"motorbook/models"
)

// ErrDraftIncomplete means the draft fails the submission preconditions:
// service, date, time, customer name and phone must all be present.
var ErrDraftIncomplete = errors.New("booking draft is incomplete")

// The wizard's draft transitions are pure functions: each takes a draft value
// and returns the next one. The presentation layer validates selections
// against the reconciler before dispatching; the transitions themselves only
// enforce the step-gating invariants.

// SelectService records the chosen service and moves straight to the
// date/time step. This is the combined select-and-advance action, deliberately
// unguarded.
func SelectService(d models.BookingDraft, svc models.Service) models.BookingDraft {
	d.Service = &svc
	d.Step = models.StepDateTime
	return d
}

// SelectDate records the chosen date. A previously selected time is always
// cleared; a time is only meaningful relative to its date.
func SelectDate(d models.BookingDraft, iso string) models.BookingDraft {
	d.Date = iso
	d.Time = ""
	return d
}

// SelectTime records the chosen slot label. The caller must already have
// checked the slot against the reconciled grid.
func SelectTime(d models.BookingDraft, label string) models.BookingDraft {
	d.Time = label
	return d
}

// Advance moves to the next step when the current one is satisfied, and is a
// no-op otherwise. Step 0 needs a service, step 1 a date and time, step 2 a
// customer name. Capped at the confirm step.
func Advance(d models.BookingDraft) models.BookingDraft {
	switch d.Step {
	case models.StepService:
		if d.Service == nil {
			return d
		}
	case models.StepDateTime:
		if d.Date == "" || d.Time == "" {
			return d
		}
	case models.StepVehicleContact:
		if d.Customer.Name == "" {
			return d
		}
	default:
		return d
	}
	d.Step++
	return d
}

// Retreat moves one step back, floored at the service step.
func Retreat(d models.BookingDraft) models.BookingDraft {
	if d.Step > models.StepService {
		d.Step--
	}
	return d
}

// ApplyVehiclePatch merges the set fields of p into the draft's vehicle
// record. Legal at any step so early-entered data survives navigation.
func ApplyVehiclePatch(d models.BookingDraft, p models.VehiclePatch) models.BookingDraft {
	if p.Make != nil {
		d.Vehicle.Make = *p.Make
	}
	if p.Model != nil {
		d.Vehicle.Model = *p.Model
	}
	if p.Year != nil {
		d.Vehicle.Year = *p.Year
	}
	if p.Color != nil {
		d.Vehicle.Color = *p.Color
	}
	if p.Plate != nil {
		d.Vehicle.Plate = *p.Plate
	}
	return d
}

// ApplyCustomerPatch merges the set fields of p into the draft's customer
// record.
func ApplyCustomerPatch(d models.BookingDraft, p models.CustomerPatch) models.BookingDraft {
	if p.Name != nil {
		d.Customer.Name = *p.Name
	}
	if p.Phone != nil {
		d.Customer.Phone = *p.Phone
	}
	if p.Email != nil {
		d.Customer.Email = *p.Email
	}
	return d
}

// SubmitPayload assembles the draft into the backend's booking request. It
// returns ErrDraftIncomplete unless service, date, time, customer name and
// phone are all present. (Only the name gates the step transition; phone is
// additionally required here.)
func SubmitPayload(d models.BookingDraft) (models.BookingRequest, error) {
	if d.Service == nil || d.Date == "" || d.Time == "" || d.Customer.Name == "" || d.Customer.Phone == "" {
		return models.BookingRequest{}, ErrDraftIncomplete
	}
	return models.BookingRequest{
		ServiceID: d.Service.ID,
		Date:      d.Date,
		Time:      d.Time,
		Vehicle:   d.Vehicle,
		Customer:  d.Customer,
	}, nil
}
