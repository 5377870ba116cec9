package models

// Service is a bookable customization service as published by the backend.
// The booking flow only ever reads these; the admin side owns mutation.
type Service struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`    // display currency units
	Duration    int     `json:"duration"` // minutes
}
