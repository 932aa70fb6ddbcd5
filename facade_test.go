package accountwebhooks

import (
	"context"
	"testing"

	"github.com/goliatone/go-account-webhooks/adapters/gocommand"
	accountcommand "github.com/goliatone/go-account-webhooks/command"
	"github.com/goliatone/go-account-webhooks/core"
	accountquery "github.com/goliatone/go-account-webhooks/query"
	"github.com/goliatone/go-account-webhooks/webhooks"
)

type stubFacadeService struct {
	lastEventID string
	lastRequest core.WebhookRequest
	accounts    map[string]core.Account
}

func (s *stubFacadeService) CreateAccount(_ context.Context, req core.CreateAccountRequest) (core.Account, error) {
	account := core.Account{AccountKey: req.AccountKey, Email: req.Email, Status: core.AccountStatusActive}
	if s.accounts == nil {
		s.accounts = map[string]core.Account{}
	}
	s.accounts[req.AccountKey] = account
	return account, nil
}

func (s *stubFacadeService) ReceiveWebhook(_ context.Context, eventID string, req core.WebhookRequest) (core.DispatchResult, error) {
	s.lastEventID = eventID
	s.lastRequest = req
	return core.DispatchResult{EventID: eventID, Status: core.DispatchStatusProcessed, Message: core.MessageEventProcessed}, nil
}

func (s *stubFacadeService) GetAccount(_ context.Context, accountKey string) (core.Account, error) {
	account, ok := s.accounts[accountKey]
	if !ok {
		return core.Account{}, core.AccountNotFoundError(accountKey)
	}
	return account, nil
}

func (s *stubFacadeService) GetEvent(_ context.Context, eventID string) (core.WebhookEvent, error) {
	return core.WebhookEvent{EventID: eventID, Status: core.EventStatusDone}, nil
}

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(&stubFacadeService{})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	commands := facade.Commands()
	if commands.CreateAccount == nil || commands.ReceiveWebhook == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.GetAccount == nil || queries.GetEvent == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	if _, err := NewFacade(nil); err == nil {
		t.Fatalf("expected nil service to fail")
	}
	var facade *Facade
	if facade.Service() != nil {
		t.Fatalf("expected nil facade to expose no service")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	ctx := context.Background()
	if err := facade.Commands().CreateAccount.Execute(ctx, accountcommand.CreateAccountMessage{
		Request: core.CreateAccountRequest{AccountKey: "acc-1", Email: "e@x.com"},
	}); err != nil {
		t.Fatalf("execute create account: %v", err)
	}
	view, err := facade.Queries().GetAccount.Query(ctx, accountquery.GetAccountMessage{AccountKey: "acc-1"})
	if err != nil {
		t.Fatalf("query account: %v", err)
	}
	if view.Status != "ACTIVE" || view.Email != "e@x.com" {
		t.Fatalf("unexpected account view %#v", view)
	}
}

func TestFacade_WebhookProcessorVerifiesThenDispatches(t *testing.T) {
	svc := &stubFacadeService{}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	cfg := core.DefaultConfig().Webhook
	cfg.Secret = "s3cret"
	cfg.EventIDHeader = "X-Delivery-Id"
	processor, err := facade.WebhookProcessor(cfg)
	if err != nil {
		t.Fatalf("webhook processor: %v", err)
	}

	body := []byte(`{"accountKey":"acc-1","eventType":"ACCOUNT_DELETED"}`)
	signature := webhooks.NewHMACSignatureVerifier(cfg.SignatureHeader, cfg.Secret).Sign(body)
	result, err := processor.Process(context.Background(), webhooks.InboundRequest{
		Body: body,
		Headers: map[string]string{
			cfg.SignatureHeader: signature,
			"X-Delivery-Id":     "evt-1",
		},
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != core.DispatchStatusProcessed || svc.lastEventID != "evt-1" {
		t.Fatalf("unexpected dispatch %#v (event %q)", result, svc.lastEventID)
	}

	if _, err := facade.WebhookProcessor(core.WebhookConfig{}); err == nil {
		t.Fatalf("expected missing secret to fail")
	}
}

func TestFacade_RegisterOnDispatcher(t *testing.T) {
	svc := &stubFacadeService{}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	subs, err := facade.Register(gocommand.NewRegistryAdapter(nil))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(subs.Unsubscribe)

	result, err := gocommand.ReceiveWebhook(context.Background(), "evt-9", core.WebhookRequest{
		AccountKey: "acc-1",
		EventType:  core.EventTypeAppleAccountDeleted,
	})
	if err != nil {
		t.Fatalf("dispatch receive webhook: %v", err)
	}
	if result.Status != core.DispatchStatusProcessed || svc.lastRequest.EventType != core.EventTypeAppleAccountDeleted {
		t.Fatalf("unexpected dispatch result %#v", result)
	}
}
