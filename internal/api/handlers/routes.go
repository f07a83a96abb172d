package handlers

import (
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	Routes *services.RouteService
}

func (h *RouteHandler) List(c *gin.Context) {
	edges, err := h.Routes.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, "routes.List", err)
		return
	}

	res := dto.ListRouteResponse{Routes: make([]dto.RouteResponse, 0, len(edges))}
	for _, e := range edges {
		res.Routes = append(res.Routes, toRouteResponse(e))
	}
	c.JSON(http.StatusOK, res)
}

func (h *RouteHandler) Create(c *gin.Context) {
	var req dto.RouteRequest
	if !decodeJSON(c, &req) {
		return
	}

	edge, err := h.Routes.Add(c.Request.Context(), req.From, req.To, req.DurationMinutes)
	if err != nil {
		writeServiceError(c, "routes.Create", err)
		return
	}
	c.JSON(http.StatusCreated, toRouteResponse(edge))
}

func (h *RouteHandler) Update(c *gin.Context) {
	var req dto.RouteDurationRequest
	if !decodeJSON(c, &req) {
		return
	}

	edge, err := h.Routes.UpdateDuration(c.Request.Context(), c.Param("from"), c.Param("to"), req.DurationMinutes)
	if err != nil {
		writeServiceError(c, "routes.Update", err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(edge))
}

func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.Routes.Delete(c.Request.Context(), c.Param("from"), c.Param("to")); err != nil {
		writeServiceError(c, "routes.Delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Initialize replaces the network with the default A..F routes.
func (h *RouteHandler) Initialize(c *gin.Context) {
	if err := h.Routes.Reset(c.Request.Context(), services.DefaultRoutes); err != nil {
		writeServiceError(c, "routes.Initialize", err)
		return
	}
	h.List(c)
}
