// File: motorbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"motorbook/config"
	"motorbook/cron"
	"motorbook/handlers"
	"motorbook/middleware"
	"motorbook/routes"
	"motorbook/services/booking"
	"motorbook/upstream"
	"motorbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionStore()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Upstream backend client.
	backend := upstream.New(
		config.AppConfig.BackendBaseURL,
		time.Duration(config.AppConfig.BackendTimeoutSeconds)*time.Second,
		logger,
	)

	// Services.
	cacheTTL := time.Duration(config.AppConfig.AvailabilityCacheSeconds) * time.Second
	catalog := &booking.CatalogService{
		Backend:  backend,
		Cache:    utils.GetCacheClient(),
		Logger:   logger,
		CacheTTL: cacheTTL,
	}
	availability := &booking.DefaultAvailabilityService{
		Backend:      backend,
		Cache:        utils.GetCacheClient(),
		Logger:       logger,
		CacheTTL:     cacheTTL,
		WindowDays:   config.AppConfig.BookingWindowDays,
		DayStartHour: config.AppConfig.BookingDayStartHour,
		DayEndHour:   config.AppConfig.BookingDayEndHour,
		FailOpen:     config.AppConfig.AvailabilityFailOpen,
	}
	flow := &booking.DefaultFlowService{
		Store:        booking.NewRedisSessionStore(utils.GetSessionClient()),
		Catalog:      catalog,
		Availability: availability,
		Backend:      backend,
		TaskClient:   cron.NewTaskClient(),
		Logger:       logger,
		SessionTTL:   time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
	}

	// Background worker for availability snapshot refreshes.
	cron.InitAvailabilityWorker(availability)

	// Handlers and routes.
	h := &routes.Handlers{
		Booking:  handlers.NewBookingHandler(flow, availability, logger),
		Services: handlers.NewServicesHandler(catalog, backend, logger),
		Admin:    handlers.NewAdminHandler(backend, logger),
	}
	routes.RegisterRoutes(router, h)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
