package handlers

import (
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/ports"
	"cab-booking-service/internal/services"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Planner   *services.TripPlanner
	Lifecycle *services.BookingLifecycle
	Bookings  ports.BookingFinder
}

// Calculate quotes a trip for every active cab without reserving anything.
func (h *BookingHandler) Calculate(c *gin.Context) {
	var req dto.QuoteRequest
	if !decodeJSON(c, &req) {
		return
	}

	q, err := h.Planner.Quote(c.Request.Context(), req.Source, req.Destination)
	if err != nil {
		writeServiceError(c, "bookings.Calculate", err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !decodeJSON(c, &req) {
		return
	}

	b, err := h.Lifecycle.Create(c.Request.Context(), services.CreateBookingRequest{
		Source:       req.Source,
		Destination:  req.Destination,
		VehicleID:    req.CabID,
		Start:        req.StartTime,
		RiderContact: req.Email,
	})
	if err != nil {
		writeServiceError(c, "bookings.Create", err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	bs, err := h.Bookings.ListBookings(c.Request.Context())
	if err != nil {
		writeServiceError(c, "bookings.List", err)
		return
	}
	c.JSON(http.StatusOK, toBookingList(bs))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "bookings.Get", notFound(err, "booking %q", id))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	b, err := h.Bookings.FindByHumanCode(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, "bookings.GetByCode", notFound(err, "booking code %q", code))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) ListByContact(c *gin.Context) {
	contact, err := domain.NormalizeContact(c.Param("email"))
	if err != nil {
		writeServiceError(c, "bookings.ListByContact", err)
		return
	}

	bs, err := h.Bookings.FindByContact(c.Request.Context(), contact)
	if err != nil {
		writeServiceError(c, "bookings.ListByContact", err)
		return
	}
	c.JSON(http.StatusOK, toBookingList(bs))
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !decodeJSON(c, &req) {
		return
	}

	b, err := h.Lifecycle.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, "bookings.UpdateStatus", err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// notFound turns a store miss into ErrBookingNotFound.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
