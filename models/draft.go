package models

// Steps of the reservation wizard. Linear, bidirectional, no skipping.
const (
	StepService = iota
	StepDateTime
	StepVehicleContact
	StepConfirm
)

// Vehicle holds the customer's vehicle details. All fields are optional free
// text.
type Vehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Year  string `json:"year,omitempty"`
	Color string `json:"color,omitempty"`
	Plate string `json:"plate,omitempty"`
}

// Customer holds contact details for the person booking. Name gates the
// vehicle/contact step; phone is additionally required at submission.
type Customer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// VehiclePatch carries a partial vehicle update. Nil fields are left alone so
// data entered early survives back-and-forth navigation.
type VehiclePatch struct {
	Make  *string `json:"make,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *string `json:"year,omitempty"`
	Color *string `json:"color,omitempty"`
	Plate *string `json:"plate,omitempty"`
}

// CustomerPatch carries a partial customer update.
type CustomerPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// BookingDraft is the in-progress reservation being assembled by the wizard.
// It is treated as an immutable value: every transition produces a new draft.
type BookingDraft struct {
	Step     int      `json:"step"`
	Service  *Service `json:"service,omitempty"`
	Date     string   `json:"date,omitempty"` // "YYYY-MM-DD", empty until chosen
	Time     string   `json:"time,omitempty"` // "HH:MM", empty until chosen
	Vehicle  Vehicle  `json:"vehicle"`
	Customer Customer `json:"customer"`
}

// EmptyDraft returns the initial draft: step 0, nothing selected.
func EmptyDraft() BookingDraft {
	return BookingDraft{Step: StepService}
}
