package models

// BookingSession hosts one customer's in-progress draft between wizard
// requests. Stored with a TTL; an expired session simply restarts the flow.
type BookingSession struct {
	SessionID string       `json:"sessionId"`
	Draft     BookingDraft `json:"draft"`
	// ServerSlots is the backend's own verdict for the currently selected
	// service+date pair. Corroborating data only; the locally reconciled grid
	// stays authoritative.
	ServerSlots []TimeSlot `json:"serverSlots,omitempty"`
}
