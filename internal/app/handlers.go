package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrSlugTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// GET /api/health
func (a *App) HealthHandler(c *gin.Context) {
	var one int
	if err := a.DB.QueryRow(c.Request.Context(), `SELECT 1`).Scan(&one); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "db": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "connected"})
}

// GET /api/availability
func (a *App) GetAvailabilityHandler(c *gin.Context) {
	avail, err := a.GetAvailability(c.Request.Context(), a.HostID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// POST /api/availability
// Full replace: the payload's schedule becomes the entire weekly pattern.
func (a *App) SetAvailabilityHandler(c *gin.Context) {
	var payload Availability
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.ReplaceAvailability(c.Request.Context(), a.HostID, payload.Rules, payload.Timezone); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "availability updated"})
}

// GET /api/event-types
func (a *App) ListEventTypesHandler(c *gin.Context) {
	out, err := a.ListEventTypes(c.Request.Context(), a.HostID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/event-types
func (a *App) CreateEventTypeHandler(c *gin.Context) {
	var req EventTypeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	et, err := a.CreateEventType(c.Request.Context(), a.HostID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, et)
}

// PUT /api/event-types/:id
func (a *App) UpdateEventTypeHandler(c *gin.Context) {
	var req EventTypeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	et, err := a.UpdateEventType(c.Request.Context(), a.HostID, c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, et)
}

// DELETE /api/event-types/:id
func (a *App) DeleteEventTypeHandler(c *gin.Context) {
	if err := a.DeleteEventType(c.Request.Context(), a.HostID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event type deleted"})
}

// GET /api/event-types/:slug (public)
func (a *App) GetEventTypeHandler(c *gin.Context) {
	et, err := a.GetEventTypeBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, et)
}

// GET /api/event-types/:slug/slots?date=YYYY-MM-DD (public)
func (a *App) ListSlotsHandler(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	slots, err := a.ListSlots(c.Request.Context(), c.Param("slug"), date)
	if err != nil {
		fail(c, err)
		return
	}
	if slots == nil {
		slots = []Slot{}
	}
	c.JSON(http.StatusOK, slots)
}

// POST /api/bookings (public)
func (a *App) CreateBookingHandler(c *gin.Context) {
	var req BookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := a.ProposeBooking(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/bookings
func (a *App) ListBookingsHandler(c *gin.Context) {
	out, err := a.ListBookings(c.Request.Context(), a.HostID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/bookings/:id
func (a *App) CancelBookingHandler(c *gin.Context) {
	if err := a.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}
