package core

import (
	"context"
	"errors"
	"strings"
)

func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (account Account, err error) {
	startedAt := s.clock()
	fields := map[string]any{"account_key": req.AccountKey}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_account", err, fields)
	}()

	if err = req.Validate(); err != nil {
		err = s.mapError(err)
		return Account{}, err
	}
	if err = s.requireAccountStore(); err != nil {
		return Account{}, err
	}

	accountKey := strings.TrimSpace(req.AccountKey)
	exists, err := s.accountStore.ExistsByAccountKey(ctx, accountKey)
	if err != nil {
		err = s.mapError(InternalError("failed to check account", err))
		return Account{}, err
	}
	if exists {
		err = s.mapError(DuplicateAccountError(accountKey))
		return Account{}, err
	}

	account, err = s.accountStore.Save(ctx, accountKey, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			err = s.mapError(DuplicateAccountError(accountKey))
			return Account{}, err
		}
		err = s.mapError(InternalError("failed to create account", err))
		return Account{}, err
	}
	fields["status"] = string(account.Status)
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, accountKey string) (account Account, err error) {
	startedAt := s.clock()
	accountKey = strings.TrimSpace(accountKey)
	fields := map[string]any{"account_key": accountKey}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_account", err, fields)
	}()

	if accountKey == "" {
		err = s.mapError(newValidationError("accountKey", "account key is required"))
		return Account{}, err
	}
	if err = s.requireAccountStore(); err != nil {
		return Account{}, err
	}

	account, found, err := s.accountStore.FindByAccountKey(ctx, accountKey)
	if err != nil {
		err = s.mapError(InternalError("failed to load account", err))
		return Account{}, err
	}
	if !found {
		err = s.mapError(AccountNotFoundError(accountKey))
		return Account{}, err
	}
	return account, nil
}
