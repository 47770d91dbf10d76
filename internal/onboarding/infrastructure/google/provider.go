// Package google pushes onboarding calendar events into Google Calendar
// over its REST API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Provider implements services.CalendarProvider against Google Calendar.
// The local event record stays authoritative; the external entry is a
// mirror keyed by the returned Google event id.
type Provider struct {
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
	baseURL     string
	calendarID  string
}

// NewProvider creates a Google Calendar provider.
func NewProvider(tokenSource oauth2.TokenSource, logger *slog.Logger) *Provider {
	return NewProviderWithBaseURL(tokenSource, logger, defaultBaseURL)
}

// NewProviderWithBaseURL creates a Google Calendar provider with a custom
// base URL.
func NewProviderWithBaseURL(tokenSource oauth2.TokenSource, logger *slog.Logger, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		tokenSource: tokenSource,
		logger:      logger,
		baseURL:     baseURL,
		calendarID:  "primary",
	}
}

// WithCalendarID sets the target calendar.
func (p *Provider) WithCalendarID(calendarID string) *Provider {
	if calendarID != "" {
		p.calendarID = calendarID
	}
	return p
}

type googleEvent struct {
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
	ExtendedProperties struct {
		Private map[string]string `json:"private,omitempty"`
	} `json:"extendedProperties,omitempty"`
	Start struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
}

// CreateEvent inserts a calendar entry and returns the Google event id.
func (p *Provider) CreateEvent(ctx context.Context, req services.CreateEventRequest) (string, error) {
	event := googleEvent{
		Summary:     req.Title,
		Description: req.Description,
	}
	event.ExtendedProperties.Private = map[string]string{"joinflow": "1"}
	event.Start.DateTime = req.Start.Format(time.RFC3339)
	event.End.DateTime = req.End.Format(time.RFC3339)
	for _, email := range req.Attendees {
		if email == "" {
			continue
		}
		event.Attendees = append(event.Attendees, struct {
			Email string `json:"email"`
		}{Email: email})
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	insertURL := fmt.Sprintf("%s/calendars/%s/events", p.baseURL, p.calendarID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, insertURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client().Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", responseError(resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateEvent moves an existing entry to a new time window.
func (p *Provider) UpdateEvent(ctx context.Context, externalID string, start, end time.Time) error {
	var patch struct {
		Start struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
	}
	patch.Start.DateTime = start.Format(time.RFC3339)
	patch.End.DateTime = end.Format(time.RFC3339)

	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	updateURL := fmt.Sprintf("%s/calendars/%s/events/%s", p.baseURL, p.calendarID, externalID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, updateURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client().Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	return nil
}

// CancelEvent removes an existing entry. A 404 or 410 means the entry is
// already gone; that is success for cancellation.
func (p *Provider) CancelEvent(ctx context.Context, externalID string) error {
	deleteURL := fmt.Sprintf("%s/calendars/%s/events/%s", p.baseURL, p.calendarID, externalID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.client().Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		p.logger.Warn("calendar entry already removed", "external_id", externalID)
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	return nil
}

func (p *Provider) client() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauthTransport{
			base:   http.DefaultTransport,
			source: p.tokenSource,
		},
	}
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("google calendar request failed: status=%d body=%s", resp.StatusCode, string(body))
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}
