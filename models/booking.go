package models

// BookingRequest is the payload submitted to the backend when the customer
// confirms the reservation.
type BookingRequest struct {
	ServiceID string   `json:"serviceId"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Vehicle   Vehicle  `json:"vehicle"`
	Customer  Customer `json:"customer"`
}

// Booking is the persisted record the backend returns once a reservation is
// accepted. The gateway never invents these; the backend assigns ID and
// status.
type Booking struct {
	ID        string   `json:"_id"`
	ServiceID string   `json:"serviceId"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Vehicle   Vehicle  `json:"vehicle"`
	Customer  Customer `json:"customer"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt,omitempty"`
}
