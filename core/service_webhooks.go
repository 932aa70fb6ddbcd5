package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ReceiveWebhook runs one authenticated delivery through the event ledger:
// duplicate check, insert as RECEIVED, PROCESSING, apply, then DONE or FAILED.
// Business failures are recorded on the event and reported with status
// "failed"; only infrastructure problems come back as errors.
func (s *Service) ReceiveWebhook(ctx context.Context, eventID string, req WebhookRequest) (result DispatchResult, err error) {
	startedAt := s.clock()
	eventID = strings.TrimSpace(eventID)
	fields := map[string]any{
		"event_id":    eventID,
		"event_type":  string(req.EventType),
		"account_key": req.AccountKey,
	}
	defer func() {
		if result.Status != "" {
			fields["status"] = string(result.Status)
		}
		s.observeDispatch(ctx, startedAt, req.EventType, result.Status)
		s.observeOperation(ctx, startedAt, "receive_webhook", err, fields)
	}()

	if eventID == "" {
		err = s.mapError(newValidationError("eventId", "event id is required"))
		return DispatchResult{}, err
	}
	if err = req.Validate(); err != nil {
		err = s.mapError(err)
		return DispatchResult{}, err
	}
	if err = s.requireEventStore(); err != nil {
		return DispatchResult{}, err
	}
	if err = s.requireAccountStore(); err != nil {
		return DispatchResult{}, err
	}

	exists, err := s.eventStore.ExistsByEventID(ctx, eventID)
	if err != nil {
		err = s.mapError(InternalError("failed to check webhook event", err))
		return DispatchResult{}, err
	}
	if exists {
		return duplicatedResult(eventID), nil
	}

	payload, err := json.Marshal(req)
	if err != nil {
		err = s.mapError(InternalError("failed to encode webhook payload", err))
		return DispatchResult{}, err
	}
	eventType, _ := ParseEventType(string(req.EventType))
	if _, err = s.eventStore.Save(ctx, eventID, eventType, string(payload)); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			return duplicatedResult(eventID), nil
		}
		err = s.mapError(InternalError("failed to record webhook event", err))
		return DispatchResult{}, err
	}

	if _, _, updateErr := s.eventStore.UpdateStatus(ctx, eventID, EventStatusProcessing, ""); updateErr != nil {
		s.logWarn(ctx, "webhook event processing transition failed", map[string]any{
			"event_id": eventID,
			"error":    updateErr.Error(),
		})
	}

	outcome, handlerErr := s.applyAccountEvent(ctx, req)
	if handlerErr != nil {
		s.recordFailure(ctx, eventID, handlerErr.Error())
		err = s.mapError(InternalError("failed to apply webhook event", handlerErr))
		return DispatchResult{}, err
	}

	if !outcome.Succeeded() {
		message := outcome.Failure.Message
		fields["failure_kind"] = string(outcome.Failure.Kind)
		if _, _, err = s.eventStore.UpdateStatus(ctx, eventID, EventStatusFailed, message); err != nil {
			err = s.mapError(InternalError("failed to record webhook failure", err))
			return DispatchResult{}, err
		}
		return DispatchResult{EventID: eventID, Status: DispatchStatusFailed, Message: message}, nil
	}

	if _, _, err = s.eventStore.UpdateStatus(ctx, eventID, EventStatusDone, ""); err != nil {
		err = s.mapError(InternalError("failed to complete webhook event", err))
		return DispatchResult{}, err
	}
	return DispatchResult{EventID: eventID, Status: DispatchStatusProcessed, Message: MessageEventProcessed}, nil
}

func (s *Service) applyAccountEvent(ctx context.Context, req WebhookRequest) (HandlerResult, error) {
	event, failure := DecodeAccountEvent(req)
	if failure != nil {
		return HandlerResult{Failure: failure}, nil
	}
	return event.Apply(ctx, accountMutator{store: s.accountStore})
}

// recordFailure marks the event FAILED after an infrastructure error. The
// original error is what the caller sees, so a second failure is only logged.
func (s *Service) recordFailure(ctx context.Context, eventID string, message string) {
	if _, _, err := s.eventStore.UpdateStatus(ctx, eventID, EventStatusFailed, message); err != nil {
		s.logError(ctx, "webhook event failure transition failed", map[string]any{
			"event_id": eventID,
			"error":    err.Error(),
		})
	}
}

func duplicatedResult(eventID string) DispatchResult {
	return DispatchResult{EventID: eventID, Status: DispatchStatusDuplicated, Message: MessageEventDuplicated}
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (event WebhookEvent, err error) {
	startedAt := s.clock()
	eventID = strings.TrimSpace(eventID)
	fields := map[string]any{"event_id": eventID}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_event", err, fields)
	}()

	if eventID == "" {
		err = s.mapError(newValidationError("eventId", "event id is required"))
		return WebhookEvent{}, err
	}
	if err = s.requireEventStore(); err != nil {
		return WebhookEvent{}, err
	}

	event, found, err := s.eventStore.FindByEventID(ctx, eventID)
	if err != nil {
		err = s.mapError(InternalError("failed to load webhook event", err))
		return WebhookEvent{}, err
	}
	if !found {
		err = s.mapError(EventNotFoundError(eventID))
		return WebhookEvent{}, err
	}
	fields["status"] = string(event.Status)
	return event, nil
}
