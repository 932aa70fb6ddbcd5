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

type AccountStore struct {
	db   *bun.DB
	repo repository.Repository[*accountRecord]
	now  func() time.Time
}

func NewAccountStore(db *bun.DB) (*AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*accountRecord](db, accountHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid account repository wiring: %w", err)
		}
	}
	return &AccountStore{db: db, repo: repo, now: utcNow}, nil
}

func (s *AccountStore) Save(ctx context.Context, accountKey string, email string) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	if strings.TrimSpace(accountKey) == "" {
		return core.Account{}, fmt.Errorf("sqlstore: account key is required")
	}
	record := newAccountRecord(accountKey, email, s.now())
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.Account{}, fmt.Errorf("sqlstore: account %q: %w", record.AccountKey, core.ErrDuplicateAccount)
		}
		return core.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) FindByAccountKey(ctx context.Context, accountKey string) (core.Account, bool, error) {
	if s == nil || s.repo == nil {
		return core.Account{}, false, fmt.Errorf("sqlstore: account store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("account_key", "=", strings.TrimSpace(accountKey)),
	)
	if err != nil {
		return core.Account{}, false, err
	}
	if len(records) == 0 {
		return core.Account{}, false, nil
	}
	return records[0].toDomain(), true, nil
}

func (s *AccountStore) ExistsByAccountKey(ctx context.Context, accountKey string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: account store is not configured")
	}
	return s.db.NewSelect().
		Model((*accountRecord)(nil)).
		Where("?TableAlias.account_key = ?", strings.TrimSpace(accountKey)).
		Exists(ctx)
}

func (s *AccountStore) UpdateEmail(ctx context.Context, accountKey string, email string) (core.Account, bool, error) {
	return s.update(ctx, accountKey, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("email = ?", strings.TrimSpace(email))
	})
}

func (s *AccountStore) UpdateStatus(
	ctx context.Context,
	accountKey string,
	status core.AccountStatus,
) (core.Account, bool, error) {
	if !status.Valid() {
		return core.Account{}, false, fmt.Errorf("sqlstore: invalid account status %q", status)
	}
	return s.update(ctx, accountKey, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("status = ?", string(status))
	})
}

func (s *AccountStore) update(
	ctx context.Context,
	accountKey string,
	apply func(*bun.UpdateQuery) *bun.UpdateQuery,
) (core.Account, bool, error) {
	if s == nil || s.db == nil {
		return core.Account{}, false, fmt.Errorf("sqlstore: account store is not configured")
	}
	key := strings.TrimSpace(accountKey)
	var updated accountRecord
	found := true
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		query := tx.NewUpdate().
			Model((*accountRecord)(nil)).
			Set("updated_at = ?", s.now()).
			Where("account_key = ?", key)
		result, err := apply(query).Exec(ctx)
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
			Where("?TableAlias.account_key = ?", key).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return core.Account{}, false, err
	}
	if !found {
		return core.Account{}, false, nil
	}
	return updated.toDomain(), true, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
