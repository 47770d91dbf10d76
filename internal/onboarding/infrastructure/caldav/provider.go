// Package caldav pushes onboarding calendar events into a CalDAV
// calendar (Apple Calendar, Fastmail, Nextcloud, etc.).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

// Common CalDAV server URLs.
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// PropXJoinflow marks events created by this engine.
const PropXJoinflow = "X-JOINFLOW"

// Provider implements services.CalendarProvider against a CalDAV server.
// The external id it hands back is the event's object path, so updates
// and cancellations address the object directly.
type Provider struct {
	baseURL      string
	username     string
	password     string // App-specific password for Apple
	calendarPath string // Specific calendar path, or empty for default
	logger       *slog.Logger
}

// NewProvider creates a CalDAV calendar provider.
func NewProvider(baseURL, username, password string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:  baseURL,
		username: username,
		password: password,
		logger:   logger,
	}
}

// WithCalendarPath sets the specific calendar path to use.
func (p *Provider) WithCalendarPath(path string) *Provider {
	p.calendarPath = path
	return p
}

// CreateEvent puts a new VEVENT into the calendar and returns its object
// path.
func (p *Provider) CreateEvent(ctx context.Context, req services.CreateEventRequest) (string, error) {
	client, err := p.getClient()
	if err != nil {
		return "", err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar: %w", err)
	}

	uid := uuid.New().String()
	eventPath := fmt.Sprintf("%s%s.ics", calPath, uid)

	cal := toICalendar(uid, req)
	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return "", err
	}
	return eventPath, nil
}

// UpdateEvent moves an existing entry to a new time window.
func (p *Provider) UpdateEvent(ctx context.Context, externalID string, start, end time.Time) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}

	obj, err := client.GetCalendarObject(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar object: %w", err)
	}
	if obj.Data == nil {
		return fmt.Errorf("calendar object %s has no data", externalID)
	}

	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		child.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		child.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
		child.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	}

	_, err = client.PutCalendarObject(ctx, externalID, obj.Data)
	return err
}

// CancelEvent removes an existing entry.
func (p *Provider) CancelEvent(ctx context.Context, externalID string) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}
	return client.RemoveAll(ctx, externalID)
}

func (p *Provider) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client, err := caldav.NewClient(
		webdav.HTTPClientWithBasicAuth(httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Provider) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}

// toICalendar builds a single-VEVENT calendar for the request.
func toICalendar(uid string, req services.CreateEventRequest) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Joinflow//Onboarding//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, req.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, req.End.UTC())
	event.Props.SetText(ical.PropSummary, req.Title)
	if req.Description != "" {
		event.Props.SetText(ical.PropDescription, req.Description)
	}
	for _, email := range req.Attendees {
		if email == "" {
			continue
		}
		attendee := ical.NewProp(ical.PropAttendee)
		attendee.Value = "mailto:" + email
		event.Props[ical.PropAttendee] = append(event.Props[ical.PropAttendee], *attendee)
	}

	joinflowProp := ical.NewProp(PropXJoinflow)
	joinflowProp.Value = "1"
	event.Props[PropXJoinflow] = []ical.Prop{*joinflowProp}

	cal.Children = append(cal.Children, event.Component)

	return cal
}
