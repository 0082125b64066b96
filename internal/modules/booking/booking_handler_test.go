package booking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ride-booking/internal/models"

	"github.com/labstack/echo/v4"
)

func newTestEcho(svc ServiceInterface, userID string) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", userID)
			c.Set("userEmail", userID+"@example.com")
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(g)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createBody = `{"pickup":{"text":"Colombo","lat":6.9271,"lon":79.8612},
	"dropoff":{"text":"Kandy","lat":7.2906,"lon":80.6337},"vehicleId":"V001","passengerCount":2}`

func TestBookingEndpoints(t *testing.T) {
	svc, repo := newTestService(&recorder{})
	owner := newTestEcho(svc, "u1")
	other := newTestEcho(svc, "u2")

	rec := do(owner, http.MethodPost, "/api/bookings", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body %s", rec.Code, rec.Body.String())
	}
	var id string
	for bid := range repo.bookings {
		id = bid
	}

	if rec := do(owner, http.MethodPost, "/api/bookings", createBody); rec.Code != http.StatusConflict {
		t.Errorf("double booking status = %d; want 409", rec.Code)
	}
	if rec := do(owner, http.MethodPost, "/api/bookings", `{"vehicleId":"V001"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing locations status = %d; want 400", rec.Code)
	}

	if rec := do(owner, http.MethodGet, "/api/bookings/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := do(other, http.MethodGet, "/api/bookings/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("foreign get status = %d; want 404", rec.Code)
	}

	rec = do(owner, http.MethodGet, "/api/bookings/my?status=confirmed&limit=5", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), id) {
		t.Errorf("list status = %d; body %s", rec.Code, rec.Body.String())
	}
	if rec := do(owner, http.MethodGet, "/api/bookings/my?status=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d; want 400", rec.Code)
	}
	if rec := do(owner, http.MethodGet, "/api/bookings/stats", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"totalBookings":1`) {
		t.Errorf("stats = %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(owner, http.MethodPost, "/api/bookings/"+id+"/cancel", ""); rec.Code != http.StatusOK {
		t.Errorf("cancel status = %d", rec.Code)
	}
	if rec := do(owner, http.MethodPost, "/api/bookings/"+id+"/cancel", ""); rec.Code != http.StatusOK {
		t.Errorf("repeat cancel status = %d; want 200", rec.Code)
	}

	repo.bookings[id].Status = models.BookingCompleted
	if rec := do(owner, http.MethodPost, "/api/bookings/"+id+"/cancel", ""); rec.Code != http.StatusConflict {
		t.Errorf("cancel completed status = %d; want 409", rec.Code)
	}
}
