package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-account-webhooks/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type WebhookEventStore struct {
	db   *bun.DB
	repo repository.Repository[*webhookEventRecord]
	now  func() time.Time
}

func NewWebhookEventStore(db *bun.DB) (*WebhookEventStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*webhookEventRecord](db, webhookEventHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid webhook event repository wiring: %w", err)
		}
	}
	return &WebhookEventStore{db: db, repo: repo, now: utcNow}, nil
}

func (s *WebhookEventStore) Save(
	ctx context.Context,
	eventID string,
	eventType core.EventType,
	payload string,
) (core.WebhookEvent, error) {
	if s == nil || s.db == nil {
		return core.WebhookEvent{}, fmt.Errorf("sqlstore: webhook event store is not configured")
	}
	if strings.TrimSpace(eventID) == "" {
		return core.WebhookEvent{}, fmt.Errorf("sqlstore: event id is required")
	}
	record := newWebhookEventRecord(eventID, eventType, payload, s.now())
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.WebhookEvent{}, fmt.Errorf("sqlstore: event %q: %w", record.EventID, core.ErrDuplicateEvent)
		}
		return core.WebhookEvent{}, err
	}
	return record.toDomain(), nil
}

func (s *WebhookEventStore) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: webhook event store is not configured")
	}
	return s.db.NewSelect().
		Model((*webhookEventRecord)(nil)).
		Where("?TableAlias.event_id = ?", strings.TrimSpace(eventID)).
		Exists(ctx)
}

func (s *WebhookEventStore) FindByEventID(ctx context.Context, eventID string) (core.WebhookEvent, bool, error) {
	if s == nil || s.repo == nil {
		return core.WebhookEvent{}, false, fmt.Errorf("sqlstore: webhook event store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("event_id", "=", strings.TrimSpace(eventID)),
	)
	if err != nil {
		return core.WebhookEvent{}, false, err
	}
	if len(records) == 0 {
		return core.WebhookEvent{}, false, nil
	}
	return records[0].toDomain(), true, nil
}

// UpdateStatus always rewrites error_message so a later success clears a
// stale failure text. processed_at is stamped only for terminal statuses.
func (s *WebhookEventStore) UpdateStatus(
	ctx context.Context,
	eventID string,
	status core.EventStatus,
	errorMessage string,
) (core.WebhookEvent, bool, error) {
	if s == nil || s.db == nil {
		return core.WebhookEvent{}, false, fmt.Errorf("sqlstore: webhook event store is not configured")
	}
	if !status.Valid() {
		return core.WebhookEvent{}, false, fmt.Errorf("sqlstore: invalid event status %q", status)
	}
	id := strings.TrimSpace(eventID)
	var message *string
	if trimmed := strings.TrimSpace(errorMessage); trimmed != "" {
		message = &trimmed
	}

	var updated webhookEventRecord
	found := true
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		query := tx.NewUpdate().
			Model((*webhookEventRecord)(nil)).
			Set("status = ?", string(status)).
			Set("error_message = ?", message).
			Where("event_id = ?", id)
		if status.Terminal() {
			query = query.Set("processed_at = ?", s.now())
		}
		result, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			found = false
			return nil
		}
		return tx.NewSelect().
			Model(&updated).
			Where("?TableAlias.event_id = ?", id).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return core.WebhookEvent{}, false, err
	}
	if !found {
		return core.WebhookEvent{}, false, nil
	}
	return updated.toDomain(), true, nil
}
