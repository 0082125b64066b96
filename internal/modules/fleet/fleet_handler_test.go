package fleet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ride-booking/internal/models"

	"github.com/labstack/echo/v4"
)

// fakeRepo keeps the fleet in memory.
type fakeRepo struct {
	vehicles map[string]*models.Vehicle
	held     map[string]bool // vehicles with a live booking
}

func newFakeRepo(vs ...models.Vehicle) *fakeRepo {
	f := &fakeRepo{vehicles: make(map[string]*models.Vehicle)}
	for _, v := range vs {
		cp := v
		f.vehicles[v.ID] = &cp
	}
	return f
}

func (f *fakeRepo) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeRepo) ListAvailable(ctx context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range f.vehicles {
		if v.Available {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	v, ok := f.vehicles[id]
	if !ok {
		return models.ErrNotFound
	}
	if available && f.held[id] {
		return models.ErrConflict
	}
	v.Available = available
	return nil
}

func newTestEcho(repo *fakeRepo) *echo.Echo {
	return newTestEchoAs(repo, "")
}

// newTestEchoAs mounts the routes behind a stand-in for the JWT middleware.
func newTestEchoAs(repo *fakeRepo, role string) *echo.Echo {
	e := echo.New()
	api := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", "user-1")
			c.Set("userRole", role)
			return next(c)
		}
	})
	NewHandler(NewService(repo, 5)).RegisterRoutes(api)
	return e
}

func putAvailability(e *echo.Echo, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/admin/fleet/"+id+"/availability", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecommendEndpoint(t *testing.T) {
	repo := newFakeRepo(
		vehicle("A", models.VehicleEconomy, 4, 200, 50),
		vehicle("B", models.VehicleSUV, 6, 300, 80),
	)
	e := newTestEcho(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/recommend", strings.NewReader(`{"distance":116.5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool                  `json:"success"`
		Data    []models.VehicleQuote `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data) != 2 {
		t.Fatalf("body = %+v; want 2 quotes", body)
	}
	if body.Data[0].ID != "A" || body.Data[0].EstimatedPrice != 6025 {
		t.Errorf("first quote = %s @ %.2f; want A @ 6025.00", body.Data[0].ID, body.Data[0].EstimatedPrice)
	}
}

func TestRecommendEndpointRejectsNegativeDistance(t *testing.T) {
	e := newTestEcho(newFakeRepo())
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/recommend", strings.NewReader(`{"distance":-1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestSetAvailabilityEndpoint(t *testing.T) {
	repo := newFakeRepo(vehicle("A", models.VehicleEconomy, 4, 200, 50))
	e := newTestEchoAs(repo, models.RoleAdmin)

	if rec := putAvailability(e, "A", `{"available":false}`); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want 204", rec.Code)
	}
	if repo.vehicles["A"].Available {
		t.Error("vehicle A still available")
	}
	if rec := putAvailability(e, "missing", `{"available":true}`); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestSetAvailabilityRequiresAdmin(t *testing.T) {
	repo := newFakeRepo(vehicle("V001", models.VehicleEconomy, 4, 200, 50))
	repo.vehicles["V001"].Available = false

	for _, role := range []string{"", "rider"} {
		e := newTestEchoAs(repo, role)
		if rec := putAvailability(e, "V001", `{"available":true}`); rec.Code != http.StatusForbidden {
			t.Errorf("role %q: status = %d; want 403", role, rec.Code)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/fleet", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("role %q: list status = %d; want 403", role, rec.Code)
		}
	}
	if repo.vehicles["V001"].Available {
		t.Error("non-admin released a booked vehicle")
	}
}

func TestSetAvailabilityKeepsBookedVehicle(t *testing.T) {
	repo := newFakeRepo(vehicle("V001", models.VehicleEconomy, 4, 200, 50))
	repo.vehicles["V001"].Available = false
	repo.held = map[string]bool{"V001": true}
	e := newTestEchoAs(repo, models.RoleAdmin)

	if rec := putAvailability(e, "V001", `{"available":true}`); rec.Code != http.StatusConflict {
		t.Errorf("status = %d; want 409", rec.Code)
	}
	if repo.vehicles["V001"].Available {
		t.Error("vehicle with a live booking was made available")
	}
}
