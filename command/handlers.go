package command

import (
	"context"

	"github.com/goliatone/go-account-webhooks/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	CreateAccount(ctx context.Context, req core.CreateAccountRequest) (core.Account, error)
	ReceiveWebhook(ctx context.Context, eventID string, req core.WebhookRequest) (core.DispatchResult, error)
}

type CreateAccountCommand struct {
	service MutatingService
}

func NewCreateAccountCommand(service MutatingService) *CreateAccountCommand {
	return &CreateAccountCommand{service: service}
}

func (c *CreateAccountCommand) Execute(ctx context.Context, msg CreateAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	out, err := c.service.CreateAccount(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ReceiveWebhookCommand struct {
	service MutatingService
}

func NewReceiveWebhookCommand(service MutatingService) *ReceiveWebhookCommand {
	return &ReceiveWebhookCommand{service: service}
}

func (c *ReceiveWebhookCommand) Execute(ctx context.Context, msg ReceiveWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: webhook dispatcher is required")
	}
	out, err := c.service.ReceiveWebhook(ctx, msg.EventID, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// ReceiveWebhook adapts the command to the dispatcher contract used by the
// webhook processor, returning the result collected during Execute.
func (c *ReceiveWebhookCommand) ReceiveWebhook(
	ctx context.Context,
	eventID string,
	req core.WebhookRequest,
) (core.DispatchResult, error) {
	msg := ReceiveWebhookMessage{EventID: eventID, Request: req}
	if err := msg.Validate(); err != nil {
		return core.DispatchResult{}, err
	}
	collector := gocmd.NewResult[core.DispatchResult]()
	if err := c.Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return core.DispatchResult{}, err
	}
	result, _ := collector.Load()
	return result, nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
