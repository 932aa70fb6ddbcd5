package core

import "context"

// accountMutator applies account-change events to the account store.
type accountMutator struct {
	store AccountStore
}

func (m accountMutator) HandleEmailForwardingChanged(ctx context.Context, event EmailForwardingChanged) (HandlerResult, error) {
	account, found, err := m.store.UpdateEmail(ctx, event.AccountKey, event.Email)
	if err != nil {
		return HandlerResult{}, err
	}
	if !found {
		return AccountNotFound(event.AccountKey), nil
	}
	return Succeeded(account), nil
}

func (m accountMutator) HandleAccountDeleted(ctx context.Context, event AccountDeleted) (HandlerResult, error) {
	return m.setStatus(ctx, event.AccountKey, AccountStatusDeleted)
}

func (m accountMutator) HandleAppleAccountDeleted(ctx context.Context, event AppleAccountDeleted) (HandlerResult, error) {
	return m.setStatus(ctx, event.AccountKey, AccountStatusAppleDeleted)
}

func (m accountMutator) setStatus(ctx context.Context, accountKey string, status AccountStatus) (HandlerResult, error) {
	account, found, err := m.store.UpdateStatus(ctx, accountKey, status)
	if err != nil {
		return HandlerResult{}, err
	}
	if !found {
		return AccountNotFound(accountKey), nil
	}
	return Succeeded(account), nil
}
