package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
	eventsScope    = "https://www.googleapis.com/auth/calendar.events"
)

// Event is a calendar entry for one ride.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Scheduler books and removes calendar events.
type Scheduler interface {
	CreateEvent(ctx context.Context, ev Event) (string, error)
	DeleteEvent(ctx context.Context, id string) error
}

// GoogleCalendar writes to the primary calendar of the account that authorised the token.
type GoogleCalendar struct {
	baseURL    string
	calendarID string
	httpClient *http.Client
}

// NewGoogleCalendar builds a client from OAuth client credentials and a stored token file.
// The oauth2 transport refreshes the access token as needed.
func NewGoogleCalendar(ctx context.Context, clientID, clientSecret, tokenFile string) (*GoogleCalendar, error) {
	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("calendar: read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("calendar: decode token: %w", err)
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{eventsScope},
	}
	return &GoogleCalendar{
		baseURL:    defaultBaseURL,
		calendarID: "primary",
		httpClient: conf.Client(ctx, &tok),
	}, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type eventBody struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
}

func (g *GoogleCalendar) eventsURL() string {
	return fmt.Sprintf("%s/calendars/%s/events", g.baseURL, url.PathEscape(g.calendarID))
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, ev Event) (string, error) {
	payload, err := json.Marshal(eventBody{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       eventTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         eventTime{DateTime: ev.End.Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("calendar: encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.eventsURL(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("calendar: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar: create event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar: create event: status %d", resp.StatusCode)
	}
	var created eventBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("calendar: decode event: %w", err)
	}
	return created.ID, nil
}

// DeleteEvent treats an already deleted event as success.
func (g *GoogleCalendar) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.eventsURL()+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("calendar: build request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: delete event: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil
	default:
		return fmt.Errorf("calendar: delete event %s: status %d", id, resp.StatusCode)
	}
}

// Noop is used when calendar credentials are not configured.
type Noop struct{}

func (Noop) CreateEvent(ctx context.Context, ev Event) (string, error) { return "", nil }
func (Noop) DeleteEvent(ctx context.Context, id string) error          { return nil }
