package core

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestCreateAccount_StartsActive(t *testing.T) {
	svc, _ := newTestService(t)
	account, err := svc.CreateAccount(context.Background(), CreateAccountRequest{AccountKey: " acc-1 ", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if account.AccountKey != "acc-1" {
		t.Fatalf("expected trimmed key, got %q", account.AccountKey)
	}
	if account.Status != AccountStatusActive {
		t.Fatalf("expected ACTIVE, got %q", account.Status)
	}
	if account.UpdatedAt != nil {
		t.Fatalf("expected no updated_at on create")
	}

	view := NewAccountView(account)
	if view != (AccountView{AccountKey: "acc-1", Email: "e@x.com", Status: "ACTIVE"}) {
		t.Fatalf("unexpected view %#v", view)
	}
}

func TestCreateAccount_DuplicateKeyConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if _, err := svc.CreateAccount(ctx, CreateAccountRequest{AccountKey: "acc-1", Email: "e@x.com"}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	_, err := svc.CreateAccount(ctx, CreateAccountRequest{AccountKey: "acc-1", Email: "other@x.com"})
	if !stderrors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected duplicate account error, got %v", err)
	}
	if mapped := MapError(err); mapped.Code != 409 {
		t.Fatalf("expected 409, got %d", mapped.Code)
	}

	account, _ := svc.GetAccount(ctx, "acc-1")
	if account.Email != "e@x.com" {
		t.Fatalf("expected original account untouched, got %q", account.Email)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetAccount(context.Background(), "nope")
	if !stderrors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetAccount(context.Background(), "  "); MapError(err).Code != 400 {
		t.Fatalf("expected blank key to be rejected")
	}
}

func TestEventView_OmitsProcessedAtUntilTerminal(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	view := NewEventView(WebhookEvent{
		EventID:   "evt-1",
		EventType: EventTypeAccountDeleted,
		Status:    EventStatusProcessing,
		CreatedAt: created,
	})
	if view.ProcessedAt != nil {
		t.Fatalf("expected no processed_at")
	}
	if view.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC created_at")
	}

	processed := created.Add(time.Second)
	view = NewEventView(WebhookEvent{EventID: "evt-1", Status: EventStatusDone, CreatedAt: created, ProcessedAt: &processed})
	if view.ProcessedAt == nil || !view.ProcessedAt.Equal(processed) {
		t.Fatalf("expected processed_at, got %#v", view.ProcessedAt)
	}
}
