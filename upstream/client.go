// Package upstream is the typed client for the backend REST service that owns
// services, bookings, customers, and availability. The gateway is a client
// reflecting that server's state, never the source of truth.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"motorbook/models"
)

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

// New returns a Client rooted at baseURL (no trailing slash required).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Services lists the bookable services.
func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.getJSON(ctx, "/api/services", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	return out, nil
}

// ExhaustedDates returns the ISO dates in [from, to] with no bookable
// capacity left, as computed by the backend.
func (c *Client) ExhaustedDates(ctx context.Context, from, to string) ([]string, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	var out []string
	if err := c.getJSON(ctx, "/api/bookings/exhausted", q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch exhausted dates: %w", err)
	}
	return out, nil
}

// UnavailableRanges returns all administrator-defined blackout ranges. Dates
// are normalized to plain ISO days; the backend sometimes reports them as full
// timestamps.
func (c *Client) UnavailableRanges(ctx context.Context) ([]models.BlackoutRange, error) {
	var out []models.BlackoutRange
	if err := c.getJSON(ctx, "/api/availability/unavailable", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch blackout ranges: %w", err)
	}
	for i := range out {
		out[i].Date = isoDay(out[i].Date)
	}
	return out, nil
}

// SlotsForDate fetches the backend's own per-date slot verdicts. Used as a
// corroborating source only; the reconciler remains authoritative.
func (c *Client) SlotsForDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	q := url.Values{}
	q.Set("serviceId", serviceID)
	q.Set("date", date)
	var out []models.TimeSlot
	if err := c.getJSON(ctx, "/api/bookings/slots", q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch slots for %s: %w", date, err)
	}
	return out, nil
}

// CreateBooking submits a completed reservation and returns the persisted
// record with its server-assigned identifier and status.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := c.send(ctx, http.MethodPost, "/api/bookings", nil, req, &out); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &out, nil
}

// Booking fetches one booking record by its identifier.
func (c *Client) Booking(ctx context.Context, id string) (*models.Booking, error) {
	var out models.Booking
	if err := c.getJSON(ctx, "/api/bookings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &out, nil
}

// ListBookings lists bookings for the back office, optionally filtered by
// status and/or date.
func (c *Client) ListBookings(ctx context.Context, status, date string) ([]models.Booking, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if date != "" {
		q.Set("date", date)
	}
	var out []models.Booking
	if err := c.getJSON(ctx, "/api/bookings", q, &out); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return out, nil
}

// UpdateBookingStatus changes a booking's status.
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status string) error {
	body := models.BookingStatusUpdate{Status: status}
	if err := c.send(ctx, http.MethodPatch, "/api/bookings/"+url.PathEscape(id)+"/status", nil, body, nil); err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	return nil
}

// DeleteBooking removes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	if err := c.send(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	return nil
}

// ListCustomers lists customer records.
func (c *Client) ListCustomers(ctx context.Context) ([]models.CustomerRecord, error) {
	var out []models.CustomerRecord
	if err := c.getJSON(ctx, "/api/customers", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return out, nil
}

// CustomerBookings lists the bookings attached to one customer.
func (c *Client) CustomerBookings(ctx context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.getJSON(ctx, "/api/customers/"+url.PathEscape(customerID)+"/bookings", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list bookings for customer %s: %w", customerID, err)
	}
	return out, nil
}

// AdminLogin forwards back-office credentials to the backend. On success it
// returns the backend's token, which the login handler exchanges for a
// gateway JWT.
func (c *Client) AdminLogin(ctx context.Context, creds models.AdminCredentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/admin/login", nil, creds, &out); err != nil {
		return "", fmt.Errorf("admin login failed: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("admin login failed: backend returned no token")
	}
	return out.Token, nil
}

// CreateBlackout records a new blackout range.
func (c *Client) CreateBlackout(ctx context.Context, blk models.BlackoutRange) (*models.BlackoutRange, error) {
	var out models.BlackoutRange
	if err := c.send(ctx, http.MethodPost, "/api/availability/unavailable", nil, blk, &out); err != nil {
		return nil, fmt.Errorf("failed to create blackout: %w", err)
	}
	out.Date = isoDay(out.Date)
	return &out, nil
}

// DeleteBlackout removes a blackout range.
func (c *Client) DeleteBlackout(ctx context.Context, id string) error {
	if err := c.send(ctx, http.MethodDelete, "/api/availability/unavailable/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete blackout %s: %w", id, err)
	}
	return nil
}

// --- internals ---

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("backend answered an error",
			zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		// The backend answers errors with a message field when it has one.
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		if e.Message != "" {
			return fmt.Errorf("%s %s: %s (status=%d)", method, path, e.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status=%d", method, path, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// isoDay trims a timestamp such as "2024-06-10T00:00:00.000Z" down to its
// calendar day.
func isoDay(date string) string {
	if i := strings.IndexByte(date, 'T'); i > 0 {
		return date[:i]
	}
	return date
}
