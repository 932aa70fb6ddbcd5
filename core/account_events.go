package core

import (
	"context"
	"fmt"
	"strings"
)

// AccountEvent is the closed set of account-change notifications. Each variant
// carries the payload shape its handler needs and routes itself to the matching
// AccountEventHandler method, so adding a variant means adding a handler method.
type AccountEvent interface {
	Type() EventType
	Key() string
	Apply(ctx context.Context, handler AccountEventHandler) (HandlerResult, error)

	sealed()
}

// AccountEventHandler must implement one method per AccountEvent variant.
type AccountEventHandler interface {
	HandleEmailForwardingChanged(ctx context.Context, event EmailForwardingChanged) (HandlerResult, error)
	HandleAccountDeleted(ctx context.Context, event AccountDeleted) (HandlerResult, error)
	HandleAppleAccountDeleted(ctx context.Context, event AppleAccountDeleted) (HandlerResult, error)
}

type EmailForwardingChanged struct {
	AccountKey string
	Email      string
}

func (EmailForwardingChanged) Type() EventType { return EventTypeEmailForwardingChanged }

func (e EmailForwardingChanged) Key() string { return e.AccountKey }

func (e EmailForwardingChanged) Apply(ctx context.Context, handler AccountEventHandler) (HandlerResult, error) {
	return handler.HandleEmailForwardingChanged(ctx, e)
}

func (EmailForwardingChanged) sealed() {}

type AccountDeleted struct {
	AccountKey string
}

func (AccountDeleted) Type() EventType { return EventTypeAccountDeleted }

func (e AccountDeleted) Key() string { return e.AccountKey }

func (e AccountDeleted) Apply(ctx context.Context, handler AccountEventHandler) (HandlerResult, error) {
	return handler.HandleAccountDeleted(ctx, e)
}

func (AccountDeleted) sealed() {}

type AppleAccountDeleted struct {
	AccountKey string
}

func (AppleAccountDeleted) Type() EventType { return EventTypeAppleAccountDeleted }

func (e AppleAccountDeleted) Key() string { return e.AccountKey }

func (e AppleAccountDeleted) Apply(ctx context.Context, handler AccountEventHandler) (HandlerResult, error) {
	return handler.HandleAppleAccountDeleted(ctx, e)
}

func (AppleAccountDeleted) sealed() {}

type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureNotFound   FailureKind = "not_found"
)

// HandlerFailure is a business outcome, recorded on the event rather than raised.
type HandlerFailure struct {
	Kind    FailureKind
	Message string
}

// HandlerResult is the explicit outcome of applying an AccountEvent. Failure is
// nil on success. Infrastructure problems are reported through the error return.
type HandlerResult struct {
	Account Account
	Failure *HandlerFailure
}

func (r HandlerResult) Succeeded() bool {
	return r.Failure == nil
}

func Succeeded(account Account) HandlerResult {
	return HandlerResult{Account: account}
}

func Failed(kind FailureKind, message string) HandlerResult {
	return HandlerResult{Failure: &HandlerFailure{Kind: kind, Message: message}}
}

func ValidationFailed(message string) HandlerResult {
	return Failed(FailureValidation, message)
}

func AccountNotFound(accountKey string) HandlerResult {
	return Failed(FailureNotFound, "account not found: "+accountKey)
}

// DecodeAccountEvent builds the typed variant for req. Payload problems come
// back as a validation failure so the caller can record them on the event.
func DecodeAccountEvent(req WebhookRequest) (AccountEvent, *HandlerFailure) {
	accountKey := strings.TrimSpace(req.AccountKey)
	eventType, err := ParseEventType(string(req.EventType))
	if err != nil {
		return nil, &HandlerFailure{Kind: FailureValidation, Message: err.Error()}
	}

	switch eventType {
	case EventTypeEmailForwardingChanged:
		email, failure := requiredString(req.Data, "email")
		if failure != nil {
			return nil, failure
		}
		return EmailForwardingChanged{AccountKey: accountKey, Email: email}, nil
	case EventTypeAccountDeleted:
		return AccountDeleted{AccountKey: accountKey}, nil
	case EventTypeAppleAccountDeleted:
		return AppleAccountDeleted{AccountKey: accountKey}, nil
	}
	return nil, &HandlerFailure{
		Kind:    FailureValidation,
		Message: fmt.Sprintf("unsupported event type %q", eventType),
	}
}

func requiredString(data map[string]any, field string) (string, *HandlerFailure) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return "", &HandlerFailure{Kind: FailureValidation, Message: field + " is required"}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &HandlerFailure{Kind: FailureValidation, Message: field + " must be a string"}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &HandlerFailure{Kind: FailureValidation, Message: field + " is required"}
	}
	return value, nil
}
