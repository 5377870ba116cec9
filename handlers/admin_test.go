package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorbook/config"
	"motorbook/upstream"
	"motorbook/utils"
)

func newAdminRouter(backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	backend := upstream.New(backendURL, 5*time.Second, zap.NewNop())
	h := NewAdminHandler(backend, zap.NewNop())
	r := gin.New()
	r.POST("/api/admin/login", h.Login)
	r.GET("/api/admin/customers/export", h.ExportCustomersCSV)
	return r
}

func TestExportCustomersCSV_HeaderAndRowPerBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/customers":
			w.Write([]byte(`[
				{"_id":"c1","name":"Jane","email":"jane@example.com","phone":"0821234567","bookings":[
					{"_id":"b1","date":"2024-06-12","time":"09:00"},
					{"_id":"b2","date":"2024-06-13","time":"10:00"}
				]},
				{"_id":"c2","name":"Bob","email":"bob@example.com","phone":"0829999999"}
			]`))
		case "/api/customers/c2/bookings":
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	r := newAdminRouter(srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/customers/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "customers.csv") {
		t.Fatalf("expected a csv attachment disposition, got %q", cd)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	want := [][]string{
		{"Name", "Email", "Phone", "Booking Date", "Booking Time"},
		{"Jane", "jane@example.com", "0821234567", "2024-06-12", "09:00"},
		{"Jane", "jane@example.com", "0821234567", "2024-06-13", "10:00"},
		{"Bob", "bob@example.com", "0829999999", "", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected csv rows:\n got %v\nwant %v", rows, want)
	}
}

func TestAdminLogin_MintsGatewayToken(t *testing.T) {
	config.AppConfig.JWTSecret = "admin-test-secret"
	config.AppConfig.JWTTTLHours = 1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"upstream-token"}`))
	}))
	defer srv.Close()
	r := newAdminRouter(srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@example.com","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// The answered token is gateway-signed, not the upstream's.
	if out.Token == "" || out.Token == "upstream-token" {
		t.Fatalf("expected a freshly minted token, got %q", out.Token)
	}
	subject, err := utils.ExtractAdminSubject(out.Token)
	if err != nil {
		t.Fatalf("minted token failed validation: %v", err)
	}
	if subject != "admin@example.com" {
		t.Fatalf("expected the login email as subject, got %q", subject)
	}
}

func TestAdminLogin_RejectedUpstreamAnswersUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()
	r := newAdminRouter(srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}
