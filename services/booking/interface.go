package booking

import (
	"context"
	"errors"
	"time"

	"motorbook/models"
)

// Backend is the slice of the upstream REST API the booking flow consumes.
type Backend interface {
	Services(ctx context.Context) ([]models.Service, error)
	ExhaustedDates(ctx context.Context, from, to string) ([]string, error)
	UnavailableRanges(ctx context.Context) ([]models.BlackoutRange, error)
	SlotsForDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
}

// ErrSessionNotFound means the session is unknown or has expired.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// SessionStore persists in-progress booking sessions. Server slots live
// apart from the session document so the background refresh never writes
// draft fields; PutServerSlots with a nil slice clears them.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Put(ctx context.Context, session *models.BookingSession, ttl time.Duration) error
	PutServerSlots(ctx context.Context, sessionID string, slots []models.TimeSlot, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// FlowService drives the reservation wizard: it hosts drafts, applies the
// step transitions, and submits the finished reservation.
type FlowService interface {
	Open(ctx context.Context, preselectServiceID string) (*models.BookingSession, error)
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error)
	SelectTime(ctx context.Context, sessionID, label string) (*models.BookingSession, error)
	PatchVehicle(ctx context.Context, sessionID string, p models.VehiclePatch) (*models.BookingSession, error)
	PatchCustomer(ctx context.Context, sessionID string, p models.CustomerPatch) (*models.BookingSession, error)
	Next(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Back(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Confirm(ctx context.Context, sessionID string) (*models.Booking, error)
	Cancel(ctx context.Context, sessionID string) error
}

// AvailabilityService produces the reconciled calendar and slot grids the
// wizard renders.
type AvailabilityService interface {
	Snapshot(ctx context.Context) (models.AvailabilitySnapshot, error)
	Calendar(ctx context.Context) ([]models.CalendarDay, error)
	SlotsFor(ctx context.Context, date string) ([]models.TimeSlot, error)
	Refresh(ctx context.Context) error
}
