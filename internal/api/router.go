package api

import (
	"cab-booking-service/internal/api/handlers"
	"cab-booking-service/internal/ports"
	"cab-booking-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Planner   *services.TripPlanner
	Lifecycle *services.BookingLifecycle
	Routes    *services.RouteService
	Fleet     *services.FleetService
	Bookings  ports.BookingFinder

	// AdminSecret signs admin bearer tokens; empty leaves admin routes open.
	AdminSecret string
}

// NewRouter wires HTTP handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestIDMiddleware(), loggingMiddleware())

	admin := RequireAdmin(d.AdminSecret)

	locations := &handlers.LocationHandler{Planner: d.Planner}
	routes := &handlers.RouteHandler{Routes: d.Routes}
	cabs := &handlers.CabHandler{Fleet: d.Fleet}
	bookings := &handlers.BookingHandler{Planner: d.Planner, Lifecycle: d.Lifecycle, Bookings: d.Bookings}

	r.GET("/health", handlers.Health)

	r.GET("/locations/sources", locations.Sources)
	r.GET("/locations/destinations/:source", locations.Destinations)

	rg := r.Group("/routes")
	{
		rg.GET("", routes.List)
		rg.POST("", admin, routes.Create)
		rg.POST("/initialize", admin, routes.Initialize)
		rg.PUT("/:from/:to", admin, routes.Update)
		rg.DELETE("/:from/:to", admin, routes.Delete)
	}

	cg := r.Group("/cabs")
	{
		cg.GET("", cabs.List)
		cg.POST("", admin, cabs.Create)
		cg.POST("/check-availability", cabs.CheckAvailability)
		cg.GET("/:id", cabs.Get)
		cg.PUT("/:id", admin, cabs.Update)
		cg.DELETE("/:id", admin, cabs.Delete)
	}

	bg := r.Group("/bookings")
	{
		bg.POST("/calculate", bookings.Calculate)
		bg.POST("", bookings.Create)
		bg.GET("", bookings.List)
		bg.GET("/code/:code", bookings.GetByCode)
		bg.GET("/user/:email", bookings.ListByContact)
		bg.GET("/:id", bookings.Get)
		bg.PATCH("/:id/status", bookings.UpdateStatus)
	}

	return r
}
