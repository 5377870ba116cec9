package models

// CustomerRecord is a back-office view of a customer, as listed by the
// backend. Bookings are included when the export endpoint asks for them.
type CustomerRecord struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Bookings []Booking `json:"bookings,omitempty"`
}

// AdminCredentials is the login payload forwarded to the backend.
type AdminCredentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// BookingStatusUpdate changes a booking's status from the back office.
type BookingStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
