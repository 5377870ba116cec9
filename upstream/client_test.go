package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"motorbook/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func TestServices_ParsesCatalog(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/services" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"S1","title":"Window Tint","description":"Full tint","price":1500,"duration":60}]`))
	}))
	defer srv.Close()

	services, err := client.Services(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch services: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(services))
	}
	svc := services[0]
	if svc.ID != "S1" || svc.Title != "Window Tint" || svc.Price != 1500 || svc.Duration != 60 {
		t.Fatalf("unexpected service: %+v", svc)
	}
}

func TestExhaustedDates_SendsWindow(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "2024-06-10" || q.Get("to") != "2024-06-17" {
			t.Errorf("unexpected window: from=%s to=%s", q.Get("from"), q.Get("to"))
		}
		w.Write([]byte(`["2024-06-12","2024-06-15"]`))
	}))
	defer srv.Close()

	dates, err := client.ExhaustedDates(context.Background(), "2024-06-10", "2024-06-17")
	if err != nil {
		t.Fatalf("failed to fetch exhausted dates: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2024-06-12" {
		t.Fatalf("unexpected dates: %v", dates)
	}
}

func TestUnavailableRanges_NormalizesTimestampDates(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"b1","date":"2024-06-10T00:00:00.000Z","startTime":"00:00","endTime":"23:59"},
			{"_id":"b2","date":"2024-06-11","startTime":"09:00","endTime":"11:00"}
		]`))
	}))
	defer srv.Close()

	ranges, err := client.UnavailableRanges(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch blackouts: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if ranges[0].Date != "2024-06-10" {
		t.Fatalf("timestamp not trimmed to day: %q", ranges[0].Date)
	}
	if !ranges[0].IsFullDay() {
		t.Fatal("expected 00:00-23:59 range to report full day")
	}
	if ranges[1].Date != "2024-06-11" || ranges[1].IsFullDay() {
		t.Fatalf("unexpected second range: %+v", ranges[1])
	}
}

func TestCreateBooking_RoundTrip(t *testing.T) {
	var got models.BookingRequest
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"bk-9","serviceId":"S1","date":"2024-06-12","time":"09:00","status":"Pending"}`))
	}))
	defer srv.Close()

	req := models.BookingRequest{
		ServiceID: "S1",
		Date:      "2024-06-12",
		Time:      "09:00",
		Vehicle:   models.Vehicle{Make: "Toyota", Model: "Hilux"},
		Customer:  models.Customer{Name: "Jane", Phone: "0821234567"},
	}
	record, err := client.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	if record.ID != "bk-9" || record.Status != "Pending" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if got != req {
		t.Fatalf("payload mangled in flight:\n got %+v\nwant %+v", got, req)
	}
}

func TestSend_DecodesBackendErrorMessage(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"slot already taken"}`))
	}))
	defer srv.Close()

	_, err := client.CreateBooking(context.Background(), models.BookingRequest{})
	if err == nil {
		t.Fatal("expected error from 409 response")
	}
	if !strings.Contains(err.Error(), "slot already taken") {
		t.Fatalf("backend message missing from error: %v", err)
	}
	if !strings.Contains(err.Error(), "status=409") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestSend_StatusOnlyErrorWithoutMessage(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.Services(context.Background())
	if err == nil {
		t.Fatal("expected error from 500 response")
	}
	if !strings.Contains(err.Error(), "status=500") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestSlotsForDate_SendsPair(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("serviceId") != "S1" || q.Get("date") != "2024-06-12" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`[{"time":"08:00","available":true},{"time":"09:00","available":false}]`))
	}))
	defer srv.Close()

	slots, err := client.SlotsForDate(context.Background(), "S1", "2024-06-12")
	if err != nil {
		t.Fatalf("failed to fetch slots: %v", err)
	}
	if len(slots) != 2 || slots[0].Time != "08:00" || !slots[0].Available || slots[1].Available {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestAdminLogin_RejectsEmptyToken(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := client.AdminLogin(context.Background(), models.AdminCredentials{Email: "a@b.c", Password: "x"}); err == nil {
		t.Fatal("expected error when backend returns no token")
	}
}

func TestSend_LogsBackendErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := New(srv.URL, 5*time.Second, zap.New(core))

	if _, err := client.Services(context.Background()); err == nil {
		t.Fatal("expected error from 503 response")
	}

	entries := logs.FilterMessage("backend answered an error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning logged, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(503) || fields["path"] != "/api/services" {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}

func TestUpdateBookingStatus_EscapesID(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.EscapedPath() != "/api/bookings/bk%2F1/status" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		var body models.BookingStatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status != "Completed" {
			t.Errorf("unexpected body: %+v err=%v", body, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := client.UpdateBookingStatus(context.Background(), "bk/1", "Completed"); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}
}
