package gocommand

import (
	"context"
	"errors"
	"fmt"
	"strings"

	accountcommand "github.com/goliatone/go-account-webhooks/command"
	"github.com/goliatone/go-account-webhooks/core"
	accountquery "github.com/goliatone/go-account-webhooks/query"
	gocmd "github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := gocmd.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(gocmd.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *gocmd.Registry
}

func NewRegistryAdapter(registry *gocmd.Registry) *RegistryAdapter {
	if registry == nil {
		registry = gocmd.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *gocmd.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) register(handler any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

// Handlers groups the account-webhooks commands and queries exposed on the
// go-command dispatcher.
type Handlers struct {
	CreateAccount  *accountcommand.CreateAccountCommand
	ReceiveWebhook *accountcommand.ReceiveWebhookCommand
	GetAccount     *accountquery.GetAccountQuery
	GetEvent       *accountquery.GetEventQuery
}

// Subscriptions releases every dispatcher subscription made by Wire.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// Wire registers every handler with the registry and subscribes it on the
// dispatcher. On failure nothing stays subscribed.
func Wire(adapter *RegistryAdapter, handlers Handlers, runnerOpts ...runner.Option) (Subscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if handlers.CreateAccount == nil || handlers.ReceiveWebhook == nil ||
		handlers.GetAccount == nil || handlers.GetEvent == nil {
		return nil, fmt.Errorf("gocommand: all account-webhooks handlers are required")
	}

	var subs Subscriptions
	steps := []func() (commanddispatcher.Subscription, error){
		func() (commanddispatcher.Subscription, error) {
			return registerCommand[accountcommand.CreateAccountMessage](adapter, handlers.CreateAccount, runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return registerCommand[accountcommand.ReceiveWebhookMessage](adapter, handlers.ReceiveWebhook, runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return registerQuery[accountquery.GetAccountMessage, core.AccountView](adapter, handlers.GetAccount, runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return registerQuery[accountquery.GetEventMessage, core.EventView](adapter, handlers.GetEvent, runnerOpts...)
		},
	}
	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			subs.Unsubscribe()
			return nil, err
		}
		subs = append(subs, subscription)
	}
	return subs, nil
}

func registerCommand[T any](
	adapter *RegistryAdapter,
	cmd gocmd.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	var msg T
	if err := messageTypeContract(msg); err != nil {
		return nil, err
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.register(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func registerQuery[T any, R any](
	adapter *RegistryAdapter,
	qry gocmd.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	var msg T
	if err := messageTypeContract(msg); err != nil {
		return nil, err
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.register(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// messageTypeContract checks the zero message exposes a type. Validate() is
// skipped because zero values are expected to fail it.
func messageTypeContract(msg any) error {
	m, ok := msg.(gocmd.Message)
	if !ok {
		return fmt.Errorf("gocommand: message %T must implement Type() string", msg)
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message %T type is required", msg)
	}
	return nil
}

// CreateAccount dispatches through the go-command mux and returns the
// created account collected from the handler.
func CreateAccount(ctx context.Context, req core.CreateAccountRequest) (core.Account, error) {
	collector := gocmd.NewResult[core.Account]()
	msg := accountcommand.CreateAccountMessage{Request: req}
	if err := commanddispatcher.Dispatch(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return core.Account{}, err
	}
	account, ok := collector.Load()
	if !ok {
		return core.Account{}, errors.New("gocommand: create account produced no result")
	}
	return account, nil
}

func ReceiveWebhook(ctx context.Context, eventID string, req core.WebhookRequest) (core.DispatchResult, error) {
	collector := gocmd.NewResult[core.DispatchResult]()
	msg := accountcommand.ReceiveWebhookMessage{EventID: eventID, Request: req}
	if err := commanddispatcher.Dispatch(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return core.DispatchResult{}, err
	}
	result, ok := collector.Load()
	if !ok {
		return core.DispatchResult{}, errors.New("gocommand: receive webhook produced no result")
	}
	return result, nil
}

func GetAccount(ctx context.Context, accountKey string) (core.AccountView, error) {
	return commanddispatcher.Query[accountquery.GetAccountMessage, core.AccountView](
		ctx,
		accountquery.GetAccountMessage{AccountKey: accountKey},
	)
}

func GetEvent(ctx context.Context, eventID string) (core.EventView, error) {
	return commanddispatcher.Query[accountquery.GetEventMessage, core.EventView](
		ctx,
		accountquery.GetEventMessage{EventID: eventID},
	)
}
