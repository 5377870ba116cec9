package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"motorbook/models"
	"motorbook/services/tasks"
)

// DefaultFlowService hosts booking drafts in the session store and drives the
// wizard's step transitions. Draft transitions themselves are the pure
// functions in draft.go; this service is the shell that loads a session,
// applies one, and stores the result.
type DefaultFlowService struct {
	Store        SessionStore
	Catalog      *CatalogService
	Availability AvailabilityService
	Backend      Backend
	TaskClient   *asynq.Client // optional, nil disables follow-up tasks
	Logger       *zap.Logger
	SessionTTL   time.Duration
}

// Open starts a new session with an empty draft. A referring page may hand
// over a service identifier; when it matches a catalogue entry the service is
// pre-populated, but the draft stays on step 0.
func (s *DefaultFlowService) Open(ctx context.Context, preselectServiceID string) (*models.BookingSession, error) {
	draft := models.EmptyDraft()

	if preselectServiceID != "" {
		svc, err := s.Catalog.Find(ctx, preselectServiceID)
		if err != nil {
			// Pre-seeding is best effort; the customer can still pick by hand.
			s.Logger.Warn("could not resolve preselected service",
				zap.String("serviceID", preselectServiceID), zap.Error(err))
		} else if svc != nil {
			draft.Service = svc
		}
	}

	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		Draft:     draft,
	}
	if err := s.Store.Put(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the current session state.
func (s *DefaultFlowService) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// SelectService records the chosen service and advances to the date/time
// step.
func (s *DefaultFlowService) SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	svc, err := s.Catalog.Find(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}
	if svc == nil {
		return nil, ErrUnknownService
	}

	session.Draft = SelectService(session.Draft, *svc)
	session.ServerSlots = nil
	if err := s.Store.Put(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	s.clearServerSlots(ctx, sessionID)

	s.spawnServerSlotRefresh(session)
	return session, nil
}

// SelectDate records the chosen date after checking it against the reconciled
// calendar. Any previously selected time is cleared.
func (s *DefaultFlowService) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	snap, err := s.Availability.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if IsDateBlocked(date, snap.ExhaustedDates, snap.Blackouts) {
		return nil, ErrDateBlocked
	}

	session.Draft = SelectDate(session.Draft, date)
	session.ServerSlots = nil
	if err := s.Store.Put(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	s.clearServerSlots(ctx, sessionID)

	s.spawnServerSlotRefresh(session)
	return session, nil
}

// SelectTime records the chosen slot after validating it against the
// reconciled grid for the selected date.
func (s *DefaultFlowService) SelectTime(ctx context.Context, sessionID, label string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Draft.Date == "" {
		return nil, ErrNoDateSelected
	}

	slots, err := s.Availability.SlotsFor(ctx, session.Draft.Date)
	if err != nil {
		return nil, err
	}
	valid := false
	for _, slot := range slots {
		if slot.Time == label && slot.Available {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrSlotUnavailable
	}

	session.Draft = SelectTime(session.Draft, label)
	if err := s.Store.Put(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// PatchVehicle merges vehicle fields into the draft.
func (s *DefaultFlowService) PatchVehicle(ctx context.Context, sessionID string, p models.VehiclePatch) (*models.BookingSession, error) {
	return s.apply(ctx, sessionID, func(d models.BookingDraft) models.BookingDraft {
		return ApplyVehiclePatch(d, p)
	})
}

// PatchCustomer merges customer fields into the draft.
func (s *DefaultFlowService) PatchCustomer(ctx context.Context, sessionID string, p models.CustomerPatch) (*models.BookingSession, error) {
	return s.apply(ctx, sessionID, func(d models.BookingDraft) models.BookingDraft {
		return ApplyCustomerPatch(d, p)
	})
}

// Next applies the guarded advance. An unmet step gate leaves the draft
// unchanged; the caller sees that as the step not moving.
func (s *DefaultFlowService) Next(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.apply(ctx, sessionID, Advance)
}

// Back retreats one step.
func (s *DefaultFlowService) Back(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.apply(ctx, sessionID, Retreat)
}

// Confirm submits the draft. On success the session is destroyed and the
// persisted record returned; on failure the session is left exactly as it
// was so the customer can retry.
func (s *DefaultFlowService) Confirm(ctx context.Context, sessionID string) (*models.Booking, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payload, err := SubmitPayload(session.Draft)
	if err != nil {
		return nil, err
	}

	record, err := s.Backend.CreateBooking(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("booking submission failed: %w", err)
	}

	if err := s.Store.Delete(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to delete session after confirmation",
			zap.String("sessionID", sessionID), zap.Error(err))
	}

	if s.TaskClient != nil {
		task, opts := tasks.NewAvailabilityRefreshTask(5 * time.Second)
		if _, err := s.TaskClient.Enqueue(task, opts...); err != nil {
			s.Logger.Warn("failed to enqueue availability refresh", zap.Error(err))
		}
	}

	s.Logger.Info("booking confirmed",
		zap.String("bookingID", record.ID),
		zap.String("date", record.Date),
		zap.String("time", record.Time))
	return record, nil
}

// Cancel discards the session.
func (s *DefaultFlowService) Cancel(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// RefreshServerSlots fetches the backend's own slot verdicts for the given
// service+date pair. The pair is captured before the fetch; if the session
// points at a different pair by the time the response arrives, the result is
// stale and gets discarded instead of overwriting newer state. Only the
// server-slot key is written, never the session document, so a draft write
// landing mid-refresh survives.
func (s *DefaultFlowService) RefreshServerSlots(ctx context.Context, sessionID, serviceID, date string) error {
	if serviceID == "" || date == "" {
		return nil
	}

	slots, err := s.Backend.SlotsForDate(ctx, serviceID, date)
	if err != nil {
		// Corroborating data only; the reconciled grid carries the flow.
		s.Logger.Debug("server slot fetch failed", zap.String("date", date), zap.Error(err))
		return nil
	}

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil
	}
	if session.Draft.Service == nil || session.Draft.Service.ID != serviceID || session.Draft.Date != date {
		return nil // superseded by a newer selection
	}

	return s.Store.PutServerSlots(ctx, sessionID, slots, s.SessionTTL)
}

func (s *DefaultFlowService) clearServerSlots(ctx context.Context, sessionID string) {
	if err := s.Store.PutServerSlots(ctx, sessionID, nil, s.SessionTTL); err != nil {
		s.Logger.Warn("failed to clear server slots", zap.String("sessionID", sessionID), zap.Error(err))
	}
}

func (s *DefaultFlowService) spawnServerSlotRefresh(session *models.BookingSession) {
	if session.Draft.Service == nil || session.Draft.Date == "" {
		return
	}
	sessionID := session.SessionID
	serviceID := session.Draft.Service.ID
	date := session.Draft.Date
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.RefreshServerSlots(ctx, sessionID, serviceID, date); err != nil {
			s.Logger.Debug("server slot refresh failed", zap.Error(err))
		}
	}()
}

func (s *DefaultFlowService) apply(ctx context.Context, sessionID string, transition func(models.BookingDraft) models.BookingDraft) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Draft = transition(session.Draft)
	if err := s.Store.Put(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}
