package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"motorbook/handlers"
	"motorbook/middleware"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Booking  *handlers.BookingHandler
	Services *handlers.ServicesHandler
	Admin    *handlers.AdminHandler
}

// RegisterBookingRoutes sets up the endpoints of the reservation wizard.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", h.Booking.OpenSession)
		bookingGroup.GET("/session/:sessionID", h.Booking.GetSession)
		bookingGroup.POST("/session/:sessionID/service", h.Booking.SelectService)
		bookingGroup.POST("/session/:sessionID/date", h.Booking.SelectDate)
		bookingGroup.POST("/session/:sessionID/time", h.Booking.SelectTime)
		bookingGroup.PATCH("/session/:sessionID/vehicle", h.Booking.PatchVehicle)
		bookingGroup.PATCH("/session/:sessionID/customer", h.Booking.PatchCustomer)
		bookingGroup.POST("/session/:sessionID/next", h.Booking.Next)
		bookingGroup.POST("/session/:sessionID/back", h.Booking.Back)
		bookingGroup.GET("/session/:sessionID/calendar", h.Booking.Calendar)
		bookingGroup.POST("/session/:sessionID/confirm", h.Booking.Confirm)
		bookingGroup.DELETE("/session/:sessionID", h.Booking.CancelSession)
	}
}

// RegisterPublicRoutes registers the catalogue and summary lookups.
func RegisterPublicRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/services", h.Services.ListServices)
	r.GET("/api/bookings/:id", h.Services.GetBooking)
}

// RegisterAdminRoutes sets up endpoints for back-office operations.
func RegisterAdminRoutes(r *gin.Engine, h *Handlers) {
	r.POST("/api/admin/login", h.Admin.Login)

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/bookings", h.Admin.ListBookings)
		adminGroup.PATCH("/bookings/:id/status", h.Admin.UpdateBookingStatus)
		adminGroup.DELETE("/bookings/:id", h.Admin.DeleteBooking)
		adminGroup.GET("/customers", h.Admin.ListCustomers)
		adminGroup.GET("/customers/export", h.Admin.ExportCustomersCSV)
		adminGroup.GET("/blackouts", h.Admin.ListBlackouts)
		adminGroup.POST("/blackouts", h.Admin.CreateBlackout)
		adminGroup.DELETE("/blackouts/:id", h.Admin.DeleteBlackout)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Motorbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, h)
	RegisterBookingRoutes(r, h)
	RegisterAdminRoutes(r, h)
}
