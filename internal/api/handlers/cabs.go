package handlers

import (
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CabHandler struct {
	Fleet *services.FleetService
}

func (h *CabHandler) List(c *gin.Context) {
	vs, err := h.Fleet.ListActive(c.Request.Context())
	if err != nil {
		writeServiceError(c, "cabs.List", err)
		return
	}

	res := dto.ListCabResponse{Cabs: make([]dto.CabResponse, 0, len(vs))}
	for _, v := range vs {
		res.Cabs = append(res.Cabs, toCabResponse(v))
	}
	c.JSON(http.StatusOK, res)
}

func (h *CabHandler) Get(c *gin.Context) {
	v, err := h.Fleet.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, "cabs.Get", err)
		return
	}
	c.JSON(http.StatusOK, toCabResponse(v))
}

func (h *CabHandler) Create(c *gin.Context) {
	var req dto.CreateCabRequest
	if !decodeJSON(c, &req) {
		return
	}

	v, err := h.Fleet.Create(c.Request.Context(), req.Name, req.RatePerMinute)
	if err != nil {
		writeServiceError(c, "cabs.Create", err)
		return
	}
	c.JSON(http.StatusCreated, toCabResponse(v))
}

func (h *CabHandler) Update(c *gin.Context) {
	var req dto.UpdateCabRequest
	if !decodeJSON(c, &req) {
		return
	}

	v, err := h.Fleet.Update(c.Request.Context(), c.Param("id"), services.VehicleUpdate{
		Name:          req.Name,
		RatePerMinute: req.RatePerMinute,
		Active:        req.Active,
	})
	if err != nil {
		writeServiceError(c, "cabs.Update", err)
		return
	}
	c.JSON(http.StatusOK, toCabResponse(v))
}

// Delete deactivates the cab; its record and reservations are kept.
func (h *CabHandler) Delete(c *gin.Context) {
	v, err := h.Fleet.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, "cabs.Delete", err)
		return
	}
	c.JSON(http.StatusOK, toCabResponse(v))
}

func (h *CabHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !decodeJSON(c, &req) {
		return
	}

	ok, err := h.Fleet.CheckAvailability(c.Request.Context(), req.CabID, req.Start, req.End)
	if err != nil {
		writeServiceError(c, "cabs.CheckAvailability", err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		CabID:     req.CabID,
		Start:     req.Start,
		End:       req.End,
		Available: ok,
	})
}
