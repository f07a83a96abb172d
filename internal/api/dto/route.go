package dto

type RouteRequest struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DurationMinutes int    `json:"duration_minutes"`
}

type RouteDurationRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

type RouteResponse struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ListRouteResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type LocationsResponse struct {
	Locations []string `json:"locations"`
}
