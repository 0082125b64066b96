package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-booking/internal/models"

	"github.com/labstack/echo/v4"
)

// fakeAssistant resolves "from X to Y" into fixed locations and remembers the
// context it was called with.
type fakeAssistant struct {
	seen []models.BookingContext
}

func (f *fakeAssistant) Handle(ctx context.Context, utterance string, bc models.BookingContext) models.HandleResult {
	f.seen = append(f.seen, bc)
	if strings.Contains(utterance, "Colombo") {
		return models.HandleResult{
			Reply:   "Got it: from Colombo to Kandy.",
			Pickup:  &models.Location{Text: "Colombo", Lat: 6.9271, Lon: 79.8612},
			Dropoff: &models.Location{Text: "Kandy", Lat: 7.2906, Lon: 80.6337},
			Route:   &models.Route{Distance: 116.5, Duration: 200},
		}
	}
	return models.HandleResult{Reply: "Where should I pick you up?", NeedsMoreInfo: true}
}

func TestSendPersistsContextAndTurns(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)
	fa := &fakeAssistant{}
	svc := NewService(fa, store)

	first, err := svc.Send(ctx, "u1", models.ChatRequest{Message: "from Colombo to Kandy"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if first.SessionID == "" {
		t.Fatal("no session id assigned")
	}

	if _, err := svc.Send(ctx, "u1", models.ChatRequest{Message: "hello", SessionID: first.SessionID}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if got := fa.seen[1]; got.Pickup == nil || got.Dropoff == nil || got.Route == nil {
		t.Errorf("second turn context = %+v; want the stored trip", got)
	}

	turns, err := svc.History(ctx, "u1", first.SessionID)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(turns) != 4 || turns[0].Role != models.RoleUser || turns[1].Role != models.RoleAssistant {
		t.Errorf("turns = %+v; want user/assistant pairs", turns)
	}

	if _, err := svc.History(ctx, "someone-else", first.SessionID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("foreign history err = %v; want ErrNotFound", err)
	}

	if err := svc.Reset(ctx, "u1", first.SessionID); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	if _, err := svc.History(ctx, "u1", first.SessionID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("history after reset err = %v; want ErrNotFound", err)
	}
}

func TestSendExplicitContextWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)
	fa := &fakeAssistant{}
	svc := NewService(fa, store)

	_ = store.SaveContext(ctx, "u1", "s1", models.BookingContext{Pickup: &models.Location{Text: "Galle", Lat: 6.05, Lon: 80.22}})
	explicit := models.BookingContext{}
	if _, err := svc.Send(ctx, "u1", models.ChatRequest{Message: "hello", SessionID: "s1", Context: &explicit}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if fa.seen[0].Pickup != nil {
		t.Errorf("assistant saw stored pickup %+v; want the explicit empty context", fa.seen[0].Pickup)
	}
}

func newTestEcho(svc ServiceInterface) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", "u1")
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(g)
	return e
}

func TestChatEndpoints(t *testing.T) {
	e := newTestEcho(NewService(&fakeAssistant{}, NewMemorySessionStore(time.Hour)))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"from Colombo to Kandy"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /chat status = %d; body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Message       string           `json:"message"`
			SessionID     string           `json:"sessionId"`
			Pickup        *models.Location `json:"pickup"`
			NeedsMoreInfo bool             `json:"needsMoreInfo"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.SessionID == "" || resp.Data.Pickup == nil || resp.Data.NeedsMoreInfo {
		t.Errorf("response = %+v", resp)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/"+resp.Data.SessionID+"/history", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("history status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/unknown/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown history status = %d; want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d; want 400", rec.Code)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(30 * time.Minute)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	pickup := &models.Location{Text: "Colombo", Lat: 6.9271, Lon: 79.8612}
	_ = store.SaveContext(ctx, "u1", "s1", models.BookingContext{Pickup: pickup})
	_ = store.AppendTurns(ctx, "u1", "s1", models.ConversationTurn{Role: models.RoleUser, Content: "hi"})

	now = now.Add(20 * time.Minute)
	_ = store.AppendTurns(ctx, "u1", "s1", models.ConversationTurn{Role: models.RoleAssistant, Content: "hello"})
	now = now.Add(20 * time.Minute)
	if bc, _ := store.LoadContext(ctx, "u1", "s1"); bc.Pickup == nil {
		t.Error("session expired although written within the ttl")
	}

	now = now.Add(31 * time.Minute)
	if bc, _ := store.LoadContext(ctx, "u1", "s1"); bc.Pickup != nil {
		t.Errorf("context = %+v after ttl; want empty", bc)
	}
	if _, err := store.History(ctx, "u1", "s1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("History err = %v; want ErrNotFound", err)
	}

	_ = store.SaveContext(ctx, "u1", "stale", models.BookingContext{})
	now = now.Add(2 * time.Hour)
	_ = store.SaveContext(ctx, "u1", "fresh", models.BookingContext{})
	if len(store.sessions) != 1 {
		t.Errorf("sessions = %d after sweep; want only the fresh one", len(store.sessions))
	}
}
