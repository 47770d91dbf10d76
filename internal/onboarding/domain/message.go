package domain

import (
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// MessageType identifies what a message is about. It doubles as the
// dedup signal: the dispatch guard looks for recent messages of the
// same type for the same candidate.
type MessageType string

const (
	MessageTypeOfferLetter     MessageType = "OFFER_LETTER"
	MessageTypeOfferReminder   MessageType = "OFFER_REMINDER"
	MessageTypeDocumentRequest MessageType = "DOCUMENT_REQUEST"
	MessageTypeHRInduction     MessageType = "HR_INDUCTION"
	MessageTypeTeamInduction   MessageType = "TEAM_INDUCTION"
	MessageTypeTraining        MessageType = "TRAINING"
	MessageTypeCheckIn         MessageType = "CHECK_IN"
)

// MessageStatus tracks a message through its delivery lifecycle.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "PENDING"
	MessageStatusSent    MessageStatus = "SENT"
	MessageStatusFailed  MessageStatus = "FAILED"
	MessageStatusOpened  MessageStatus = "OPENED"
	MessageStatusClicked MessageStatus = "CLICKED"
)

// Message records one send attempt for a candidate. It is both an audit
// record and a dedup input for the dispatch guard.
type Message struct {
	sharedDomain.BaseEntity
	candidateID   uuid.UUID
	messageType   MessageType
	status        MessageStatus
	recipient     string
	subject       string
	attachments   []string
	sentAt        *time.Time
	failureReason string
}

// NewMessage creates a pending message for a candidate.
func NewMessage(candidateID uuid.UUID, messageType MessageType, recipient, subject string, attachments []string) *Message {
	return &Message{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		candidateID: candidateID,
		messageType: messageType,
		status:      MessageStatusPending,
		recipient:   recipient,
		subject:     subject,
		attachments: append([]string(nil), attachments...),
	}
}

func (m *Message) CandidateID() uuid.UUID   { return m.candidateID }
func (m *Message) Type() MessageType        { return m.messageType }
func (m *Message) Status() MessageStatus    { return m.status }
func (m *Message) Recipient() string        { return m.recipient }
func (m *Message) Subject() string          { return m.subject }
func (m *Message) Attachments() []string    { return m.attachments }
func (m *Message) SentAt() *time.Time       { return m.sentAt }
func (m *Message) FailureReason() string    { return m.failureReason }

// MarkSent records successful dispatch.
func (m *Message) MarkSent() {
	now := time.Now().UTC()
	m.status = MessageStatusSent
	m.sentAt = &now
	m.Touch()
}

// MarkFailed records a dispatch failure.
func (m *Message) MarkFailed(reason string) {
	m.status = MessageStatusFailed
	m.failureReason = reason
	m.Touch()
}

// MarkOpened records recipient engagement reported by the provider.
func (m *Message) MarkOpened() {
	m.status = MessageStatusOpened
	m.Touch()
}

// MarkClicked records recipient engagement reported by the provider.
func (m *Message) MarkClicked() {
	m.status = MessageStatusClicked
	m.Touch()
}

// WasDelivered returns true once the message left the system.
func (m *Message) WasDelivered() bool {
	switch m.status {
	case MessageStatusSent, MessageStatusOpened, MessageStatusClicked:
		return true
	default:
		return false
	}
}

// RehydrateMessage recreates a message from persisted state.
func RehydrateMessage(
	id uuid.UUID,
	candidateID uuid.UUID,
	messageType MessageType,
	status MessageStatus,
	recipient, subject string,
	attachments []string,
	sentAt *time.Time,
	failureReason string,
	createdAt, updatedAt time.Time,
) *Message {
	return &Message{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		candidateID:   candidateID,
		messageType:   messageType,
		status:        status,
		recipient:     recipient,
		subject:       subject,
		attachments:   attachments,
		sentAt:        sentAt,
		failureReason: failureReason,
	}
}
