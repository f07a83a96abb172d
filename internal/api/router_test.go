package api

import (
	"bytes"
	"cab-booking-service/internal/adapters/store"
	"cab-booking-service/internal/api/dto"
	"cab-booking-service/internal/ports"
	"cab-booking-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

type recordingNotifier struct{ events []string }

func (r *recordingNotifier) Enqueue(_ context.Context, n ports.Notification) bool {
	r.events = append(r.events, string(n.Event))
	return true
}

func newTestRouter(t *testing.T, secret string) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	ctx := context.Background()
	for _, e := range services.DefaultRoutes {
		if err := st.Edges().Upsert(ctx, e.Key(), e); err != nil {
			t.Fatalf("seed edge: %v", err)
		}
	}
	for _, v := range services.DefaultVehicles {
		if err := st.Vehicles().Upsert(ctx, v.ID, v.Clone()); err != nil {
			t.Fatalf("seed vehicle: %v", err)
		}
	}

	locks := services.NewVehicleLocks()
	planner := services.NewTripPlanner(store.NewEdgeRepository(st), store.NewFleetRepository(st))
	lifecycle := services.NewBookingLifecycle(st, planner, locks, &recordingNotifier{})

	r := NewRouter(Deps{
		Planner:     planner,
		Lifecycle:   lifecycle,
		Routes:      services.NewRouteService(st),
		Fleet:       services.NewFleetService(st, store.NewFleetRepository(st), locks),
		Bookings:    store.NewBookingRepository(st),
		AdminSecret: secret,
	})
	return r, st
}

func do(t *testing.T, r http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := do(t, r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCalculateQuote(t *testing.T) {
	r, _ := newTestRouter(t, "")

	rec := do(t, r, http.MethodPost, "/bookings/calculate", dto.QuoteRequest{Source: "a", Destination: "c"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	q := decode[dto.QuoteResponse](t, rec)
	if q.TotalDurationMinutes != 10 || len(q.Path) != 2 || q.Path[0] != "A" || q.Path[1] != "C" {
		t.Fatalf("quote = %+v, want A->C 10", q)
	}
	if len(q.Options) != 5 || q.Options[0].CabID != "1" || q.Options[0].EstimatedCost != 25 {
		t.Fatalf("options = %+v, want Economic Cab first at 25", q.Options)
	}
}

func TestCalculateRejectsSameLocation(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := do(t, r, http.MethodPost, "/bookings/calculate", dto.QuoteRequest{Source: "A", Destination: " a "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCalculateRejectsUnknownFields(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := do(t, r, http.MethodPost, "/bookings/calculate", `{"source":"A","destination":"C","extra":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookingFlow(t *testing.T) {
	r, st := newTestRouter(t, "")
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rec := do(t, r, http.MethodPost, "/bookings", dto.CreateBookingRequest{
		Source: "A", Destination: "C", CabID: "1", StartTime: start, Email: "Rider@Example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	b := decode[dto.BookingResponse](t, rec)
	if b.Status != "confirmed" || b.Email != "rider@example.com" || len(b.BookingCode) != 8 {
		t.Fatalf("booking = %+v", b)
	}

	clash := do(t, r, http.MethodPost, "/bookings", dto.CreateBookingRequest{
		Source: "A", Destination: "C", CabID: "1", StartTime: start.Add(5 * time.Minute),
	})
	if clash.Code != http.StatusConflict {
		t.Fatalf("overlapping create status = %d, want 409", clash.Code)
	}

	byCode := do(t, r, http.MethodGet, "/bookings/code/"+b.BookingCode, nil)
	if byCode.Code != http.StatusOK || decode[dto.BookingResponse](t, byCode).ID != b.ID {
		t.Fatalf("get by code status = %d body=%s", byCode.Code, byCode.Body.String())
	}

	mine := do(t, r, http.MethodGet, "/bookings/user/rider@example.com", nil)
	if got := decode[dto.ListBookingResponse](t, mine); len(got.Bookings) != 1 {
		t.Fatalf("bookings for contact = %d, want 1", len(got.Bookings))
	}

	cancel := do(t, r, http.MethodPatch, "/bookings/"+b.ID+"/status", dto.StatusRequest{Status: "cancelled"})
	if cancel.Code != http.StatusOK {
		t.Fatalf("cancel status = %d body=%s", cancel.Code, cancel.Body.String())
	}

	v, err := st.Vehicles().Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v.HasReservation(b.ID) {
		t.Fatalf("reservation still present after cancel")
	}

	again := do(t, r, http.MethodPatch, "/bookings/"+b.ID+"/status", dto.StatusRequest{Status: "cancelled"})
	if again.Code != http.StatusConflict {
		t.Fatalf("second cancel status = %d, want 409", again.Code)
	}

	bogus := do(t, r, http.MethodPatch, "/bookings/"+b.ID+"/status", dto.StatusRequest{Status: "teleported"})
	if bogus.Code != http.StatusBadRequest {
		t.Fatalf("unknown status = %d, want 400", bogus.Code)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	r, _ := newTestRouter(t, "")
	if rec := do(t, r, http.MethodGet, "/bookings/missing", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/bookings/code/NOPE0000", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("code status = %d, want 404", rec.Code)
	}
}

func TestLocations(t *testing.T) {
	r, _ := newTestRouter(t, "")

	src := decode[dto.LocationsResponse](t, do(t, r, http.MethodGet, "/locations/sources", nil))
	if len(src.Locations) != 6 || src.Locations[0] != "A" || src.Locations[5] != "F" {
		t.Fatalf("sources = %v", src.Locations)
	}

	dst := decode[dto.LocationsResponse](t, do(t, r, http.MethodGet, "/locations/destinations/a", nil))
	if len(dst.Locations) != 5 || dst.Locations[0] != "B" {
		t.Fatalf("destinations = %v, want B..F", dst.Locations)
	}

	if rec := do(t, r, http.MethodGet, "/locations/destinations/Z", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown source status = %d, want 404", rec.Code)
	}
}

func TestRouteManagement(t *testing.T) {
	r, _ := newTestRouter(t, "")

	dup := do(t, r, http.MethodPost, "/routes", dto.RouteRequest{From: "a", To: "b", DurationMinutes: 3})
	if dup.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", dup.Code)
	}

	bad := do(t, r, http.MethodPost, "/routes", dto.RouteRequest{From: "A", To: "G", DurationMinutes: 0})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d, want 400", bad.Code)
	}

	upd := do(t, r, http.MethodPut, "/routes/A/C", dto.RouteDurationRequest{DurationMinutes: 20})
	if upd.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", upd.Code, upd.Body.String())
	}

	q := decode[dto.QuoteResponse](t, do(t, r, http.MethodPost, "/bookings/calculate", dto.QuoteRequest{Source: "A", Destination: "C"}))
	if q.TotalDurationMinutes != 13 {
		t.Fatalf("duration after update = %d, want 13 via B", q.TotalDurationMinutes)
	}

	if rec := do(t, r, http.MethodDelete, "/routes/X/Y", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d, want 404", rec.Code)
	}

	reset := do(t, r, http.MethodPost, "/routes/initialize", nil)
	if reset.Code != http.StatusOK {
		t.Fatalf("initialize status = %d", reset.Code)
	}
	if got := decode[dto.ListRouteResponse](t, reset); len(got.Routes) != 18 {
		t.Fatalf("routes after initialize = %d, want 18", len(got.Routes))
	}
}

func TestCabManagement(t *testing.T) {
	r, _ := newTestRouter(t, "")

	created := do(t, r, http.MethodPost, "/cabs", dto.CreateCabRequest{Name: "Van Cab", RatePerMinute: 4})
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", created.Code, created.Body.String())
	}
	cab := decode[dto.CabResponse](t, created)

	if rec := do(t, r, http.MethodPost, "/cabs", dto.CreateCabRequest{Name: "Free Cab", RatePerMinute: 0}); rec.Code != http.StatusBadRequest {
		t.Fatalf("zero rate status = %d, want 400", rec.Code)
	}

	if rec := do(t, r, http.MethodDelete, "/cabs/"+cab.ID, nil); rec.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d", rec.Code)
	}

	list := decode[dto.ListCabResponse](t, do(t, r, http.MethodGet, "/cabs", nil))
	for _, c := range list.Cabs {
		if c.ID == cab.ID {
			t.Fatalf("deactivated cab still listed")
		}
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	avail := do(t, r, http.MethodPost, "/cabs/check-availability", dto.AvailabilityRequest{CabID: "2", Start: start, End: start.Add(time.Hour)})
	if got := decode[dto.AvailabilityResponse](t, avail); !got.Available {
		t.Fatalf("availability = %+v, want available", got)
	}

	if rec := do(t, r, http.MethodGet, "/cabs/does-not-exist", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing cab status = %d, want 404", rec.Code)
	}
}

func TestAdminGuard(t *testing.T) {
	const secret = "test-secret"
	r, _ := newTestRouter(t, secret)

	if rec := do(t, r, http.MethodPost, "/routes/initialize", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	rider := signToken(t, secret, "rider")
	if rec := do(t, r, http.MethodPost, "/routes/initialize", nil, "Authorization", "Bearer "+rider); rec.Code != http.StatusForbidden {
		t.Fatalf("rider token status = %d, want 403", rec.Code)
	}

	forged := signToken(t, "other-secret", "admin")
	if rec := do(t, r, http.MethodPost, "/routes/initialize", nil, "Authorization", "Bearer "+forged); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d, want 401", rec.Code)
	}

	admin := signToken(t, secret, "admin")
	if rec := do(t, r, http.MethodPost, "/routes/initialize", nil, "Authorization", "Bearer "+admin); rec.Code != http.StatusOK {
		t.Fatalf("admin token status = %d, want 200", rec.Code)
	}

	// Read routes stay public.
	if rec := do(t, r, http.MethodGet, "/routes", nil); rec.Code != http.StatusOK {
		t.Fatalf("public list status = %d, want 200", rec.Code)
	}
}

func signToken(t *testing.T, secret, role string) string {
	t.Helper()
	claims := AdminClaims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
