package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-account-webhooks/core"
)

var (
	errEventIDRequired = errors.New("webhooks: event id is required")
	errEmptyBody       = errors.New("webhooks: request body is required")
)

// InboundRequest is a delivery as captured at the boundary: the exact bytes
// the caller sent plus its headers. Signatures are checked against Body.
type InboundRequest struct {
	Body    []byte
	Headers map[string]string
}

// NewInboundRequest flattens HTTP headers, keeping the first value of each.
func NewInboundRequest(body []byte, headers http.Header) InboundRequest {
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		flat[key] = values[0]
	}
	return InboundRequest{Body: body, Headers: flat}
}

type Verifier interface {
	Verify(ctx context.Context, req InboundRequest) error
}

type EventIDExtractor func(req InboundRequest) (string, error)

type Dispatcher interface {
	ReceiveWebhook(ctx context.Context, eventID string, req core.WebhookRequest) (core.DispatchResult, error)
}

type Processor struct {
	Verifier   Verifier
	Dispatcher Dispatcher
	ExtractID  EventIDExtractor
}

func NewProcessor(verifier Verifier, dispatcher Dispatcher) *Processor {
	return &Processor{
		Verifier:   verifier,
		Dispatcher: dispatcher,
		ExtractID:  HeaderEventIDExtractor(core.DefaultEventIDHeader),
	}
}

// Process authenticates req and hands the decoded body to the dispatcher.
// Nothing is decoded or recorded until the signature has been accepted.
func (p *Processor) Process(ctx context.Context, req InboundRequest) (core.DispatchResult, error) {
	if p == nil || p.Dispatcher == nil || p.Verifier == nil {
		return core.DispatchResult{}, core.InternalError(
			"webhook processor is not configured",
			fmt.Errorf("webhooks: processor requires verifier and dispatcher"),
		)
	}

	if err := p.Verifier.Verify(ctx, req); err != nil {
		return core.DispatchResult{}, err
	}

	extractor := p.ExtractID
	if extractor == nil {
		extractor = HeaderEventIDExtractor(core.DefaultEventIDHeader)
	}
	eventID, err := extractor(req)
	if err != nil {
		return core.DispatchResult{}, err
	}

	payload, err := DecodeWebhookRequest(req.Body)
	if err != nil {
		return core.DispatchResult{}, err
	}
	if err := payload.Validate(); err != nil {
		return core.DispatchResult{}, err
	}

	return p.Dispatcher.ReceiveWebhook(ctx, strings.TrimSpace(eventID), payload)
}

// DecodeWebhookRequest parses a delivery body. Unknown fields are ignored.
func DecodeWebhookRequest(body []byte) (core.WebhookRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return core.WebhookRequest{}, core.BadInputError("request body is required", errEmptyBody)
	}
	var payload core.WebhookRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&payload); err != nil {
		return core.WebhookRequest{}, core.BadInputError("malformed webhook payload", err)
	}
	return payload, nil
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
