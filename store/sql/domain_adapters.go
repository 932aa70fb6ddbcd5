package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-account-webhooks/core"
	"github.com/google/uuid"
)

func newAccountRecord(accountKey string, email string, now time.Time) *accountRecord {
	return &accountRecord{
		ID:         uuid.NewString(),
		AccountKey: strings.TrimSpace(accountKey),
		Email:      strings.TrimSpace(email),
		Status:     string(core.AccountStatusActive),
		CreatedAt:  now,
	}
}

func (r *accountRecord) toDomain() core.Account {
	if r == nil {
		return core.Account{}
	}
	return core.Account{
		ID:         r.ID,
		AccountKey: r.AccountKey,
		Email:      r.Email,
		Status:     core.AccountStatus(r.Status),
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  utcPointer(r.UpdatedAt),
	}
}

func newWebhookEventRecord(eventID string, eventType core.EventType, payload string, now time.Time) *webhookEventRecord {
	return &webhookEventRecord{
		ID:        uuid.NewString(),
		EventID:   strings.TrimSpace(eventID),
		EventType: string(eventType),
		Payload:   payload,
		Status:    string(core.EventStatusReceived),
		CreatedAt: now,
	}
}

func (r *webhookEventRecord) toDomain() core.WebhookEvent {
	if r == nil {
		return core.WebhookEvent{}
	}
	event := core.WebhookEvent{
		ID:          r.ID,
		EventID:     r.EventID,
		EventType:   core.EventType(r.EventType),
		Payload:     r.Payload,
		Status:      core.EventStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		ProcessedAt: utcPointer(r.ProcessedAt),
	}
	if r.ErrorMessage != nil {
		event.ErrorMessage = *r.ErrorMessage
	}
	return event
}

func utcPointer(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	copied := value.UTC()
	return &copied
}
