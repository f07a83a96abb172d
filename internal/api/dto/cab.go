package dto

import "time"

type CreateCabRequest struct {
	Name          string  `json:"name"`
	RatePerMinute float64 `json:"rate_per_minute"`
}

type UpdateCabRequest struct {
	Name          *string  `json:"name"`
	RatePerMinute *float64 `json:"rate_per_minute"`
	Active        *bool    `json:"active"`
}

type AvailabilityRequest struct {
	CabID string    `json:"cab_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	CabID     string    `json:"cab_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type ReservationResponse struct {
	BookingID string    `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type CabResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	RatePerMinute float64               `json:"rate_per_minute"`
	Active        bool                  `json:"active"`
	Reservations  []ReservationResponse `json:"reservations"`
}

type ListCabResponse struct {
	Cabs []CabResponse `json:"cabs"`
}
