package services

import (
	"context"
	"time"
)

// CreateEventRequest describes an entry to create in an external calendar.
type CreateEventRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// CalendarProvider creates and maintains entries in an external calendar.
// The local CalendarEvent record is authoritative; provider failures are
// logged by callers and never propagate past the engine boundary.
type CalendarProvider interface {
	// CreateEvent returns the external correlation id for the created entry.
	CreateEvent(ctx context.Context, req CreateEventRequest) (string, error)

	// UpdateEvent moves an existing entry to a new time window.
	UpdateEvent(ctx context.Context, externalID string, start, end time.Time) error

	// CancelEvent removes an existing entry.
	CancelEvent(ctx context.Context, externalID string) error
}

// OutboundMessage is a fully rendered message ready for dispatch.
type OutboundMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// MessageProvider dispatches rendered messages. A send failure is fatal
// for the triggering step: the step is not complete without its message.
type MessageProvider interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// EmailTemplate is a stored message template with {{field}} placeholders.
type EmailTemplate struct {
	ID      string
	Subject string
	Body    string
}

// TemplateStore resolves email templates by id.
type TemplateStore interface {
	// FindEmailTemplate returns nil when no template has the id.
	FindEmailTemplate(ctx context.Context, id string) (*EmailTemplate, error)
}
