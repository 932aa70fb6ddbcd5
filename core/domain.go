package core

import (
	"fmt"
	"strings"
	"time"
)

type AccountStatus string

const (
	AccountStatusActive       AccountStatus = "ACTIVE"
	AccountStatusDeleted      AccountStatus = "DELETED"
	AccountStatusAppleDeleted AccountStatus = "APPLE_DELETED"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusDeleted, AccountStatusAppleDeleted:
		return true
	default:
		return false
	}
}

// Account is keyed externally by AccountKey; ID is an internal surrogate.
// Any handler may overwrite Status, there is no enforced transition graph.
type Account struct {
	ID         string
	AccountKey string
	Email      string
	Status     AccountStatus
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type EventStatus string

const (
	EventStatusReceived   EventStatus = "RECEIVED"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusDone       EventStatus = "DONE"
	EventStatusFailed     EventStatus = "FAILED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusReceived, EventStatusProcessing, EventStatusDone, EventStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further automatic transition happens after s.
func (s EventStatus) Terminal() bool {
	return s == EventStatusDone || s == EventStatusFailed
}

type EventType string

const (
	EventTypeEmailForwardingChanged EventType = "EMAIL_FORWARDING_CHANGED"
	EventTypeAccountDeleted         EventType = "ACCOUNT_DELETED"
	EventTypeAppleAccountDeleted    EventType = "APPLE_ACCOUNT_DELETED"
)

// ParseEventType accepts only the exact upper-case names; the stored payload
// and the event_type column always carry the same spelling.
func ParseEventType(value string) (EventType, error) {
	eventType := EventType(value)
	switch eventType {
	case EventTypeEmailForwardingChanged, EventTypeAccountDeleted, EventTypeAppleAccountDeleted:
		return eventType, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEventType, value)
	}
}

// WebhookEvent is the durable ledger entry for one inbound notification.
// Only Status, ErrorMessage and ProcessedAt change after insertion.
type WebhookEvent struct {
	ID           string
	EventID      string
	EventType    EventType
	Payload      string
	Status       EventStatus
	ErrorMessage string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// WebhookRequest is the decoded body of an account-change notification.
type WebhookRequest struct {
	AccountKey string         `json:"accountKey"`
	EventType  EventType      `json:"eventType"`
	Data       map[string]any `json:"data,omitempty"`
}

func (r WebhookRequest) Validate() error {
	if strings.TrimSpace(r.AccountKey) == "" {
		return newValidationError("accountKey", "account key is required")
	}
	if strings.TrimSpace(string(r.EventType)) == "" {
		return newValidationError("eventType", "event type is required")
	}
	if _, err := ParseEventType(string(r.EventType)); err != nil {
		return newValidationError("eventType", err.Error())
	}
	return nil
}

type CreateAccountRequest struct {
	AccountKey string `json:"accountKey"`
	Email      string `json:"email"`
}

func (r CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.AccountKey) == "" {
		return newValidationError("accountKey", "account key is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return newValidationError("email", "email is required")
	}
	return nil
}

type DispatchStatus string

const (
	DispatchStatusDuplicated DispatchStatus = "duplicated"
	DispatchStatusProcessed  DispatchStatus = "processed"
	DispatchStatusFailed     DispatchStatus = "failed"
)

const (
	MessageEventDuplicated = "event already received"
	MessageEventProcessed  = "event processed"
)

// DispatchResult is the acknowledgement returned for every authenticated delivery.
type DispatchResult struct {
	EventID string         `json:"-"`
	Status  DispatchStatus `json:"status"`
	Message string         `json:"message"`
}

type AccountView struct {
	AccountKey string `json:"accountKey"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

func NewAccountView(account Account) AccountView {
	return AccountView{
		AccountKey: account.AccountKey,
		Email:      account.Email,
		Status:     string(account.Status),
	}
}

type EventView struct {
	EventID     string     `json:"eventId"`
	EventType   string     `json:"eventType"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

func NewEventView(event WebhookEvent) EventView {
	view := EventView{
		EventID:   event.EventID,
		EventType: string(event.EventType),
		Status:    string(event.Status),
		CreatedAt: event.CreatedAt.UTC(),
	}
	if event.ProcessedAt != nil {
		value := event.ProcessedAt.UTC()
		view.ProcessedAt = &value
	}
	return view
}
