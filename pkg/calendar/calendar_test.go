package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestCalendar(fn roundTripFunc) *GoogleCalendar {
	return &GoogleCalendar{
		baseURL:    "https://calendar.test/v3",
		calendarID: "primary",
		httpClient: &http.Client{Transport: fn},
	}
}

func TestCreateEvent(t *testing.T) {
	var sent eventBody
	g := newTestCalendar(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/v3/calendars/primary/events" {
			t.Errorf("request = %s %s", req.Method, req.URL.Path)
		}
		_ = json.NewDecoder(req.Body).Decode(&sent)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"id":"evt42","summary":"Ride"}`)),
			Header:     http.Header{},
		}, nil
	})

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := g.CreateEvent(context.Background(), Event{
		Summary: "Ride to Kandy", Location: "Colombo", Start: start, End: start.Add(200 * time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateEvent error: %v", err)
	}
	if id != "evt42" {
		t.Errorf("id = %q; want evt42", id)
	}
	if sent.Start.DateTime != "2025-03-01T09:00:00Z" || sent.End.DateTime != "2025-03-01T12:20:00Z" {
		t.Errorf("times = %+v / %+v", sent.Start, sent.End)
	}
}

func TestDeleteEventToleratesMissing(t *testing.T) {
	g := newTestCalendar(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusGone, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	})
	if err := g.DeleteEvent(context.Background(), "evt42"); err != nil {
		t.Errorf("DeleteEvent err = %v; want nil for a gone event", err)
	}

	g = newTestCalendar(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	})
	if err := g.DeleteEvent(context.Background(), "evt42"); err == nil {
		t.Error("expected an error for 403")
	}
}

func TestNewGoogleCalendarReadsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	g, err := NewGoogleCalendar(context.Background(), "id", "secret", path)
	if err != nil {
		t.Fatalf("NewGoogleCalendar error: %v", err)
	}
	if g.calendarID != "primary" || g.httpClient == nil {
		t.Errorf("calendar = %+v", g)
	}
	if _, err := NewGoogleCalendar(context.Background(), "id", "secret", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing token file")
	}
}
