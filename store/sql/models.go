package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type accountRecord struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID         string     `bun:"id,pk"`
	AccountKey string     `bun:"account_key,notnull"`
	Email      string     `bun:"email,notnull"`
	Status     string     `bun:"status,notnull"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  *time.Time `bun:"updated_at"`
}

type webhookEventRecord struct {
	bun.BaseModel `bun:"table:webhook_events,alias:we"`

	ID           string     `bun:"id,pk"`
	EventID      string     `bun:"event_id,notnull"`
	EventType    string     `bun:"event_type,notnull"`
	Payload      string     `bun:"payload,notnull"`
	Status       string     `bun:"status,notnull"`
	ErrorMessage *string    `bun:"error_message"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ProcessedAt  *time.Time `bun:"processed_at"`
}
