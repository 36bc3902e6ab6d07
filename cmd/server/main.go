package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"slotbook/internal/app"
	"slotbook/internal/config"
	"slotbook/internal/ratelim"
	"slotbook/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	appInstance := &app.App{DB: pool}
	if err := appInstance.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	hostID, err := appInstance.EnsureDefaultHost(ctx, cfg.HostName, cfg.HostTimezone)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	appInstance.HostID = hostID

	router := gin.Default()
	limiter := ratelim.New(cfg.RateRPS, cfg.RateBurst)

	api := router.Group("/api")
	{
		api.GET("/health", appInstance.HealthHandler)

		// Public booking surface.
		public := api.Group("")
		public.Use(limiter.Middleware())
		{
			public.GET("/event-types/:slug", appInstance.GetEventTypeHandler)
			public.GET("/event-types/:slug/slots", appInstance.ListSlotsHandler)
			public.POST("/bookings", appInstance.CreateBookingHandler)
		}

		// Host-facing surface.
		admin := api.Group("")
		admin.Use(app.AuthMiddleware(cfg.JWTSecret, cfg.StaticTokens))
		{
			admin.GET("/availability", appInstance.GetAvailabilityHandler)
			admin.POST("/availability", appInstance.SetAvailabilityHandler)
			admin.GET("/event-types", appInstance.ListEventTypesHandler)
			admin.POST("/event-types", appInstance.CreateEventTypeHandler)
			admin.PUT("/event-types/:id", appInstance.UpdateEventTypeHandler)
			admin.DELETE("/event-types/:id", appInstance.DeleteEventTypeHandler)
			admin.GET("/bookings", appInstance.ListBookingsHandler)
			admin.DELETE("/bookings/:id", appInstance.CancelBookingHandler)
		}
	}

	if err := server.Run(cfg.Addr, cfg.AllowedOrigin, router); err != nil {
		log.Fatalf("server: %v", err)
	}
}
