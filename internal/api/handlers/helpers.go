package handlers

import (
	"cab-booking-service/internal/domain"
	"cab-booking-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
func decodeJSON(c *gin.Context, v any) bool {
	dec := json.NewDecoder(c.Request.Body)
	defer c.Request.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(c, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// statusFor maps a domain failure to its HTTP status. Zero means unclassified.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidEdge),
		errors.Is(err, domain.ErrSameLocation),
		errors.Is(err, domain.ErrInvalidContact),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidBooking),
		errors.Is(err, domain.ErrInvalidVehicle),
		errors.Is(err, domain.ErrUnreachableDestination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownLocation),
		errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrEdgeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVehicleUnavailable),
		errors.Is(err, domain.ErrDuplicateEdge),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return 0
	}
}

// writeServiceError reports a classified failure with its message and
// anything else as a logged 500.
func writeServiceError(c *gin.Context, op string, err error) {
	if status := statusFor(err); status != 0 {
		writeError(c, status, err.Error())
		return
	}
	obs.Event(c.Request.Context(), op, "err=%v", err)
	writeError(c, http.StatusInternalServerError, "internal server error")
}
