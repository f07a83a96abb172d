package handlers

import (
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/domain"
)

func locationStrings(ls []domain.Location) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.String())
	}
	return out
}

func toRouteResponse(e domain.RouteEdge) dto.RouteResponse {
	return dto.RouteResponse{From: e.From.String(), To: e.To.String(), DurationMinutes: e.DurationMinutes}
}

func toCabResponse(v domain.Vehicle) dto.CabResponse {
	rs := make([]dto.ReservationResponse, 0, len(v.Reservations))
	for _, r := range v.Reservations {
		rs = append(rs, dto.ReservationResponse{BookingID: r.BookingID, Start: r.Start, End: r.End})
	}
	return dto.CabResponse{
		ID:            v.ID,
		Name:          v.Name,
		RatePerMinute: v.RatePerMinute,
		Active:        v.Active,
		Reservations:  rs,
	}
}

func toQuoteResponse(q domain.Quote) dto.QuoteResponse {
	opts := make([]dto.CabOptionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, dto.CabOptionResponse{
			CabID:         o.VehicleID,
			Name:          o.Name,
			RatePerMinute: o.RatePerMinute,
			EstimatedCost: o.EstimatedCost,
		})
	}
	return dto.QuoteResponse{
		Source:               q.Source.String(),
		Destination:          q.Destination.String(),
		Path:                 locationStrings(q.Path),
		TotalDurationMinutes: q.TotalDuration,
		Options:              opts,
	}
}

func toBookingResponse(b domain.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:                   b.ID,
		BookingCode:          b.HumanCode,
		Email:                b.RiderContact,
		Source:               b.Source.String(),
		Destination:          b.Destination.String(),
		CabID:                b.VehicleID,
		Path:                 locationStrings(b.Path),
		TotalDurationMinutes: b.TotalDuration,
		EstimatedCost:        b.EstimatedCost,
		StartTime:            b.Start,
		EndTime:              b.End,
		Status:               b.Status.String(),
		NotificationSent:     b.NotificationSent,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func toBookingList(bs []domain.Booking) dto.ListBookingResponse {
	res := dto.ListBookingResponse{Bookings: make([]dto.BookingResponse, 0, len(bs))}
	for _, b := range bs {
		res.Bookings = append(res.Bookings, toBookingResponse(b))
	}
	return res
}
