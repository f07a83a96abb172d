package dto

import "time"

type QuoteRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type CabOptionResponse struct {
	CabID         string  `json:"cab_id"`
	Name          string  `json:"name"`
	RatePerMinute float64 `json:"rate_per_minute"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type QuoteResponse struct {
	Source               string              `json:"source"`
	Destination          string              `json:"destination"`
	Path                 []string            `json:"path"`
	TotalDurationMinutes int                 `json:"total_duration_minutes"`
	Options              []CabOptionResponse `json:"options"`
}

type CreateBookingRequest struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	CabID       string    `json:"cab_id"`
	StartTime   time.Time `json:"start_time"`
	Email       string    `json:"email"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type BookingResponse struct {
	ID                   string    `json:"id"`
	BookingCode          string    `json:"booking_code"`
	Email                string    `json:"email,omitempty"`
	Source               string    `json:"source"`
	Destination          string    `json:"destination"`
	CabID                string    `json:"cab_id"`
	Path                 []string  `json:"path"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	EstimatedCost        float64   `json:"estimated_cost"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"`
	NotificationSent     bool      `json:"notification_sent"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ListBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}
