package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorbook/services/booking"
	"motorbook/upstream"
	"motorbook/utils"
)

// ServicesHandler serves the public catalogue and booking summary lookups.
type ServicesHandler struct {
	Catalog *booking.CatalogService
	Backend *upstream.Client
	Logger  *zap.Logger
}

func NewServicesHandler(catalog *booking.CatalogService, backend *upstream.Client, logger *zap.Logger) *ServicesHandler {
	return &ServicesHandler{Catalog: catalog, Backend: backend, Logger: logger}
}

// ListServices returns the bookable services (cached proxy of the backend).
func (h *ServicesHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.Services(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list services", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to load services", err.Error())
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetBooking looks up one booking record for the summary page.
func (h *ServicesHandler) GetBooking(c *gin.Context) {
	record, err := h.Backend.Booking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Warn("booking lookup failed", zap.String("id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}
