package handlers

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorbook/config"
	"motorbook/models"
	"motorbook/upstream"
	"motorbook/utils"
)

// AdminHandler fronts the back-office operations: login, booking and customer
// management, blackout maintenance, and the customers CSV export. All of these
// are thin proxies over the backend; the gateway only adds the auth gate and
// the export formatting.
type AdminHandler struct {
	Backend *upstream.Client
	Logger  *zap.Logger
}

func NewAdminHandler(backend *upstream.Client, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Backend: backend, Logger: logger}
}

// Login forwards the credentials to the backend and, when accepted, answers
// with a gateway-signed JWT for the admin routes.
func (h *AdminHandler) Login(c *gin.Context) {
	var creds models.AdminCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if _, err := h.Backend.AdminLogin(c.Request.Context(), creds); err != nil {
		h.Logger.Warn("admin login rejected", zap.String("email", creds.Email), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	ttl := time.Duration(config.AppConfig.JWTTTLHours) * time.Hour
	token, err := utils.GenerateAdminToken(creds.Email, ttl)
	if err != nil {
		h.Logger.Error("failed to mint admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListBookings lists bookings, optionally filtered by status and/or date.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Backend.ListBookings(c.Request.Context(), c.Query("status"), c.Query("date"))
	if err != nil {
		h.Logger.Error("failed to list bookings", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus changes one booking's status.
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var input models.BookingStatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Backend.UpdateBookingStatus(c.Request.Context(), c.Param("id"), input.Status); err != nil {
		h.Logger.Error("failed to update booking status", zap.String("id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to update booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteBooking removes one booking.
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	if err := h.Backend.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		h.Logger.Error("failed to delete booking", zap.String("id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to delete booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListCustomers lists customer records.
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.Backend.ListCustomers(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list customers", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load customers", err.Error())
		return
	}
	c.JSON(http.StatusOK, customers)
}

// ExportCustomersCSV streams the customer list as CSV, one row per booking
// (customers without bookings still get a row with the booking columns
// blank).
func (h *AdminHandler) ExportCustomersCSV(c *gin.Context) {
	ctx := c.Request.Context()
	customers, err := h.Backend.ListCustomers(ctx)
	if err != nil {
		h.Logger.Error("failed to export customers", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load customers", err.Error())
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="customers.csv"`)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{"Name", "Email", "Phone", "Booking Date", "Booking Time"})
	for _, cust := range customers {
		bookings := cust.Bookings
		if bookings == nil {
			bookings, err = h.Backend.CustomerBookings(ctx, cust.ID)
			if err != nil {
				h.Logger.Warn("failed to load customer bookings for export",
					zap.String("customerID", cust.ID), zap.Error(err))
				bookings = nil
			}
		}
		if len(bookings) == 0 {
			_ = w.Write([]string{cust.Name, cust.Email, cust.Phone, "", ""})
			continue
		}
		for _, b := range bookings {
			_ = w.Write([]string{cust.Name, cust.Email, cust.Phone, b.Date, b.Time})
		}
	}
}

// ListBlackouts returns all blackout ranges.
func (h *AdminHandler) ListBlackouts(c *gin.Context) {
	ranges, err := h.Backend.UnavailableRanges(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list blackouts", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load blackouts", err.Error())
		return
	}
	c.JSON(http.StatusOK, ranges)
}

// CreateBlackout records a new blackout range.
func (h *AdminHandler) CreateBlackout(c *gin.Context) {
	var blk models.BlackoutRange
	if err := c.ShouldBindJSON(&blk); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	created, err := h.Backend.CreateBlackout(c.Request.Context(), blk)
	if err != nil {
		h.Logger.Error("failed to create blackout", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to create blackout", err.Error())
		return
	}
	c.JSON(http.StatusOK, created)
}

// DeleteBlackout removes a blackout range.
func (h *AdminHandler) DeleteBlackout(c *gin.Context) {
	if err := h.Backend.DeleteBlackout(c.Request.Context(), c.Param("id")); err != nil {
		h.Logger.Error("failed to delete blackout", zap.String("id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to delete blackout", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
