package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

const testWebhookSecret = "test-secret"

type memoryAccountStore struct {
	mu        sync.Mutex
	next      int
	byKey     map[string]Account
	updateErr error
	now       func() time.Time
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{
		byKey: map[string]Account{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryAccountStore) Save(_ context.Context, accountKey string, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[accountKey]; ok {
		return Account{}, ErrDuplicateAccount
	}
	s.next++
	account := Account{
		ID:         fmt.Sprintf("acct_%d", s.next),
		AccountKey: accountKey,
		Email:      email,
		Status:     AccountStatusActive,
		CreatedAt:  s.now(),
	}
	s.byKey[accountKey] = account
	return account, nil
}

func (s *memoryAccountStore) FindByAccountKey(_ context.Context, accountKey string) (Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byKey[accountKey]
	return account, ok, nil
}

func (s *memoryAccountStore) ExistsByAccountKey(_ context.Context, accountKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byKey[accountKey]
	return ok, nil
}

func (s *memoryAccountStore) UpdateEmail(_ context.Context, accountKey string, email string) (Account, bool, error) {
	return s.mutate(accountKey, func(account *Account) { account.Email = email })
}

func (s *memoryAccountStore) UpdateStatus(_ context.Context, accountKey string, status AccountStatus) (Account, bool, error) {
	return s.mutate(accountKey, func(account *Account) { account.Status = status })
}

func (s *memoryAccountStore) mutate(accountKey string, apply func(*Account)) (Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return Account{}, false, s.updateErr
	}
	account, ok := s.byKey[accountKey]
	if !ok {
		return Account{}, false, nil
	}
	apply(&account)
	updatedAt := s.now()
	account.UpdatedAt = &updatedAt
	s.byKey[accountKey] = account
	return account, true, nil
}

type memoryEventStore struct {
	mu sync.Mutex
	// existsMisses makes ExistsByEventID report false for the first N calls,
	// simulating a concurrent writer that inserted between check and save.
	existsMisses int
	byID         map[string]WebhookEvent
	transitions  map[string][]EventStatus
	saveErr      error
	now          func() time.Time
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{
		byID:        map[string]WebhookEvent{},
		transitions: map[string][]EventStatus{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryEventStore) Save(_ context.Context, eventID string, eventType EventType, payload string) (WebhookEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return WebhookEvent{}, s.saveErr
	}
	if _, ok := s.byID[eventID]; ok {
		return WebhookEvent{}, ErrDuplicateEvent
	}
	event := WebhookEvent{
		ID:        "evt_row_" + eventID,
		EventID:   eventID,
		EventType: eventType,
		Payload:   payload,
		Status:    EventStatusReceived,
		CreatedAt: s.now(),
	}
	s.byID[eventID] = event
	s.transitions[eventID] = append(s.transitions[eventID], EventStatusReceived)
	return event, nil
}

func (s *memoryEventStore) ExistsByEventID(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsMisses > 0 {
		s.existsMisses--
		return false, nil
	}
	_, ok := s.byID[eventID]
	return ok, nil
}

func (s *memoryEventStore) FindByEventID(_ context.Context, eventID string) (WebhookEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.byID[eventID]
	return event, ok, nil
}

func (s *memoryEventStore) UpdateStatus(_ context.Context, eventID string, status EventStatus, errorMessage string) (WebhookEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.byID[eventID]
	if !ok {
		return WebhookEvent{}, false, nil
	}
	event.Status = status
	event.ErrorMessage = errorMessage
	if status.Terminal() {
		processedAt := s.now()
		event.ProcessedAt = &processedAt
	}
	s.byID[eventID] = event
	s.transitions[eventID] = append(s.transitions[eventID], status)
	return event, true, nil
}

func (s *memoryEventStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *memoryEventStore) history(eventID string) []EventStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventStatus(nil), s.transitions[eventID]...)
}

type testStores struct {
	accounts *memoryAccountStore
	events   *memoryEventStore
}

func (s testStores) AccountStore() AccountStore { return s.accounts }

func (s testStores) WebhookEventStore() WebhookEventStore { return s.events }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Webhook.Secret = testWebhookSecret
	return cfg
}

func newTestService(t *testing.T, opts ...Option) (*Service, testStores) {
	t.Helper()
	stores := testStores{accounts: newMemoryAccountStore(), events: newMemoryEventStore()}
	options := append([]Option{
		WithAccountStore(stores.accounts),
		WithWebhookEventStore(stores.events),
	}, opts...)
	svc, err := NewService(testConfig(), options...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, stores
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}
