package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorbook/models"
	"motorbook/services/booking"
)

// stubFlow answers every flow call with the configured session or error.
type stubFlow struct {
	session *models.BookingSession
	record  *models.Booking
	err     error
}

func (s *stubFlow) Open(ctx context.Context, preselect string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) Get(ctx context.Context, id string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) SelectService(ctx context.Context, id, serviceID string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) SelectDate(ctx context.Context, id, date string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) SelectTime(ctx context.Context, id, label string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) PatchVehicle(ctx context.Context, id string, p models.VehiclePatch) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) PatchCustomer(ctx context.Context, id string, p models.CustomerPatch) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) Next(ctx context.Context, id string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) Back(ctx context.Context, id string) (*models.BookingSession, error) {
	return s.session, s.err
}
func (s *stubFlow) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	return s.record, s.err
}
func (s *stubFlow) Cancel(ctx context.Context, id string) error {
	return s.err
}

type stubAvailability struct {
	days  []models.CalendarDay
	slots []models.TimeSlot
	snap  models.AvailabilitySnapshot
}

func (s *stubAvailability) Snapshot(ctx context.Context) (models.AvailabilitySnapshot, error) {
	return s.snap, nil
}
func (s *stubAvailability) Calendar(ctx context.Context) ([]models.CalendarDay, error) {
	return s.days, nil
}
func (s *stubAvailability) SlotsFor(ctx context.Context, date string) ([]models.TimeSlot, error) {
	return s.slots, nil
}
func (s *stubAvailability) Refresh(ctx context.Context) error { return nil }

func newTestRouter(flow booking.FlowService, avail booking.AvailabilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(flow, avail, zap.NewNop())
	r := gin.New()
	api := r.Group("/api/booking")
	api.POST("/session", h.OpenSession)
	api.GET("/session/:sessionID", h.GetSession)
	api.POST("/session/:sessionID/service", h.SelectService)
	api.POST("/session/:sessionID/date", h.SelectDate)
	api.POST("/session/:sessionID/time", h.SelectTime)
	api.POST("/session/:sessionID/next", h.Next)
	api.GET("/session/:sessionID/calendar", h.Calendar)
	api.POST("/session/:sessionID/confirm", h.Confirm)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSelectDate_BlockedDateAnswersConflict(t *testing.T) {
	r := newTestRouter(&stubFlow{err: booking.ErrDateBlocked}, &stubAvailability{})

	w := doRequest(r, http.MethodPost, "/api/booking/session/s1/date", `{"date":"2024-06-13"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSelectService_UnknownServiceAnswersBadRequest(t *testing.T) {
	r := newTestRouter(&stubFlow{err: booking.ErrUnknownService}, &stubAvailability{})

	w := doRequest(r, http.MethodPost, "/api/booking/session/s1/service", `{"serviceId":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetSession_UnknownSessionAnswersNotFound(t *testing.T) {
	r := newTestRouter(&stubFlow{err: booking.ErrSessionNotFound}, &stubAvailability{})

	w := doRequest(r, http.MethodGet, "/api/booking/session/gone", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNext_GateNoOpStillAnswersOK(t *testing.T) {
	session := &models.BookingSession{SessionID: "s1", Draft: models.EmptyDraft()}
	r := newTestRouter(&stubFlow{session: session}, &stubAvailability{})

	w := doRequest(r, http.MethodPost, "/api/booking/session/s1/next", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got models.BookingSession
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Draft.Step != models.StepService {
		t.Fatalf("expected the unchanged draft back, got step %d", got.Draft.Step)
	}
}

func TestCalendar_NeutralStateWithoutDate(t *testing.T) {
	session := &models.BookingSession{SessionID: "s1", Draft: models.EmptyDraft()}
	avail := &stubAvailability{
		days: []models.CalendarDay{{ISO: "2024-06-10", Weekday: "Mon"}},
	}
	r := newTestRouter(&stubFlow{session: session}, avail)

	w := doRequest(r, http.MethodGet, "/api/booking/session/s1/calendar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := got["selectDate"]; !ok {
		t.Fatal("expected neutral selectDate marker without a chosen date")
	}
	if _, ok := got["slots"]; ok {
		t.Fatal("expected no slot grid without a chosen date")
	}
}

func TestCalendar_GridWithDate(t *testing.T) {
	draft := models.EmptyDraft()
	draft.Date = "2024-06-12"
	session := &models.BookingSession{SessionID: "s1", Draft: draft}
	avail := &stubAvailability{
		days:  []models.CalendarDay{{ISO: "2024-06-12", Weekday: "Wed"}},
		slots: []models.TimeSlot{{Time: "08:00", Available: true}},
		snap: models.AvailabilitySnapshot{
			Blackouts: []models.BlackoutRange{
				{ID: "b1", Date: "2024-06-12", StartTime: "09:00", EndTime: "10:00"},
				{ID: "b2", Date: "2024-06-13", StartTime: "09:00", EndTime: "10:00"},
			},
		},
	}
	r := newTestRouter(&stubFlow{session: session}, avail)

	w := doRequest(r, http.MethodGet, "/api/booking/session/s1/calendar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got struct {
		Slots             []models.TimeSlot      `json:"slots"`
		UnavailableRanges []models.BlackoutRange `json:"unavailableRanges"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Slots) != 1 || got.Slots[0].Time != "08:00" {
		t.Fatalf("unexpected slots: %+v", got.Slots)
	}
	if len(got.UnavailableRanges) != 1 || got.UnavailableRanges[0].ID != "b1" {
		t.Fatalf("expected only the selected date's ranges, got %+v", got.UnavailableRanges)
	}
}

func TestConfirm_UpstreamFailureAnswersBadGateway(t *testing.T) {
	r := newTestRouter(&stubFlow{err: context.DeadlineExceeded}, &stubAvailability{})

	w := doRequest(r, http.MethodPost, "/api/booking/session/s1/confirm", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestConfirm_IncompleteDraftAnswersUnprocessable(t *testing.T) {
	r := newTestRouter(&stubFlow{err: booking.ErrDraftIncomplete}, &stubAvailability{})

	w := doRequest(r, http.MethodPost, "/api/booking/session/s1/confirm", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}
