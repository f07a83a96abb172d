package handlers

import (
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	Planner *services.TripPlanner
}

func (h *LocationHandler) Sources(c *gin.Context) {
	ls, err := h.Planner.Sources(c.Request.Context())
	if err != nil {
		writeServiceError(c, "locations.Sources", err)
		return
	}
	c.JSON(http.StatusOK, dto.LocationsResponse{Locations: locationStrings(ls)})
}

// Destinations lists the locations reachable from the :source path parameter.
func (h *LocationHandler) Destinations(c *gin.Context) {
	ls, err := h.Planner.Destinations(c.Request.Context(), c.Param("source"))
	if err != nil {
		writeServiceError(c, "locations.Destinations", err)
		return
	}
	c.JSON(http.StatusOK, dto.LocationsResponse{Locations: locationStrings(ls)})
}
