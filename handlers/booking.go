package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motorbook/models"
	"motorbook/services/booking"
	"motorbook/utils"
)

// BookingHandler exposes the reservation wizard over HTTP. Selection
// endpoints validate against the reconciler before dispatching a draft
// transition; the transitions themselves stay pure.
type BookingHandler struct {
	Flow         booking.FlowService
	Availability booking.AvailabilityService
	Logger       *zap.Logger
}

func NewBookingHandler(flow booking.FlowService, avail booking.AvailabilityService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Flow: flow, Availability: avail, Logger: logger}
}

// OpenSession starts a new draft session. A referring page may pass a
// serviceId to pre-populate the service (the draft stays on step 0).
func (h *BookingHandler) OpenSession(c *gin.Context) {
	var input struct {
		ServiceID string `json:"serviceId"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	session, err := h.Flow.Open(c.Request.Context(), input.ServiceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession returns the current draft state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Flow.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectService records the chosen service and advances to the date/time step.
func (h *BookingHandler) SelectService(c *gin.Context) {
	var input struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.SelectService(c.Request.Context(), c.Param("sessionID"), input.ServiceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectDate records the chosen date. Blocked dates are refused; a previously
// chosen time is cleared.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.SelectDate(c.Request.Context(), c.Param("sessionID"), input.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectTime records the chosen slot label after the reconciler check.
func (h *BookingHandler) SelectTime(c *gin.Context) {
	var input struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.SelectTime(c.Request.Context(), c.Param("sessionID"), input.Time)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PatchVehicle merges vehicle fields into the draft.
func (h *BookingHandler) PatchVehicle(c *gin.Context) {
	var patch models.VehiclePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.PatchVehicle(c.Request.Context(), c.Param("sessionID"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PatchCustomer merges customer contact fields into the draft.
func (h *BookingHandler) PatchCustomer(c *gin.Context) {
	var patch models.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Flow.PatchCustomer(c.Request.Context(), c.Param("sessionID"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Next applies the guarded advance. An unmet step gate simply leaves the step
// where it is; the response carries the unchanged draft.
func (h *BookingHandler) Next(c *gin.Context) {
	session, err := h.Flow.Next(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Back retreats one step.
func (h *BookingHandler) Back(c *gin.Context) {
	session, err := h.Flow.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Calendar returns the selectable date window plus, once a date is chosen,
// the reconciled slot grid and the raw unavailable ranges for that day.
// Without a selected date the grid is absent and selectDate is set, so the
// UI shows the neutral "select a date" state rather than an empty grid.
func (h *BookingHandler) Calendar(c *gin.Context) {
	ctx := c.Request.Context()

	session, err := h.Flow.Get(ctx, c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}

	days, err := h.Availability.Calendar(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"sessionId": session.SessionID,
		"days":      days,
	}

	if session.Draft.Date == "" {
		resp["selectDate"] = true
		c.JSON(http.StatusOK, resp)
		return
	}

	slots, err := h.Availability.SlotsFor(ctx, session.Draft.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	snap, err := h.Availability.Snapshot(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp["slots"] = slots
	resp["unavailableRanges"] = snap.BlackoutsFor(session.Draft.Date)
	if session.ServerSlots != nil {
		resp["serverSlots"] = session.ServerSlots
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm submits the draft to the backend. Failure preserves the session so
// the customer retries without re-entering anything.
func (h *BookingHandler) Confirm(c *gin.Context) {
	record, err := h.Flow.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) || errors.Is(err, booking.ErrDraftIncomplete) {
			h.fail(c, err)
			return
		}
		h.Logger.Error("booking confirmation failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to confirm booking. Please try again.", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}

// CancelSession discards the draft.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Flow.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *BookingHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrUnknownService):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrDateBlocked),
		errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrNoDateSelected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrDraftIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("booking flow error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
