package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput        = "ACCOUNT_WEBHOOKS_BAD_INPUT"
	ErrorUnauthorized    = "ACCOUNT_WEBHOOKS_UNAUTHORIZED"
	ErrorAccountNotFound = "ACCOUNT_WEBHOOKS_ACCOUNT_NOT_FOUND"
	ErrorEventNotFound   = "ACCOUNT_WEBHOOKS_EVENT_NOT_FOUND"
	ErrorConflict        = "ACCOUNT_WEBHOOKS_CONFLICT"
	ErrorPayloadTooLarge = "ACCOUNT_WEBHOOKS_PAYLOAD_TOO_LARGE"
	ErrorInternal        = "ACCOUNT_WEBHOOKS_INTERNAL_ERROR"
)

var (
	ErrAccountNotFound      = errors.New("core: account not found")
	ErrEventNotFound        = errors.New("core: webhook event not found")
	ErrDuplicateAccount     = errors.New("core: account key already exists")
	ErrDuplicateEvent       = errors.New("core: webhook event already received")
	ErrUnsupportedEventType = errors.New("core: unsupported event type")
	ErrSignatureMissing     = errors.New("core: signature header is required")
	ErrSignatureInvalid     = errors.New("core: signature verification failed")
)

func NewError(message string, category goerrors.Category, code int, textCode string, metadata map[string]any) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func WrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return NewError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func newValidationError(field string, message string) error {
	return goerrors.NewValidation("validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func AccountNotFoundError(accountKey string) error {
	return WrapError(
		ErrAccountNotFound,
		goerrors.CategoryNotFound,
		"account not found: "+accountKey,
		http.StatusNotFound,
		ErrorAccountNotFound,
		map[string]any{"account_key": accountKey},
	)
}

func EventNotFoundError(eventID string) error {
	return WrapError(
		ErrEventNotFound,
		goerrors.CategoryNotFound,
		"webhook event not found: "+eventID,
		http.StatusNotFound,
		ErrorEventNotFound,
		map[string]any{"event_id": eventID},
	)
}

func DuplicateAccountError(accountKey string) error {
	return WrapError(
		ErrDuplicateAccount,
		goerrors.CategoryConflict,
		"account key already exists: "+accountKey,
		http.StatusConflict,
		ErrorConflict,
		map[string]any{"account_key": accountKey},
	)
}

func UnauthorizedError(source error) error {
	return WrapError(
		source,
		goerrors.CategoryAuth,
		"webhook authentication failed",
		http.StatusUnauthorized,
		ErrorUnauthorized,
		nil,
	)
}

func BadInputError(message string, source error) error {
	return WrapError(source, goerrors.CategoryBadInput, message, http.StatusBadRequest, ErrorBadInput, nil)
}

func InternalError(message string, source error) error {
	return WrapError(source, goerrors.CategoryInternal, message, http.StatusInternalServerError, ErrorInternal, nil)
}

// MapError normalizes any error into a go-errors envelope carrying an HTTP code.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrAccountNotFound):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).WithTextCode(ErrorAccountNotFound))
	case errors.Is(err, ErrEventNotFound):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).WithTextCode(ErrorEventNotFound))
	case errors.Is(err, ErrDuplicateAccount), errors.Is(err, ErrDuplicateEvent):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryConflict, err.Error()))
	case errors.Is(err, ErrSignatureMissing), errors.Is(err, ErrSignatureInvalid):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryAuth, err.Error()))
	case errors.Is(err, ErrUnsupportedEventType):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = httpStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryNotFound:
		return ErrorAccountNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ErrorUnauthorized
	case goerrors.CategoryConflict:
		return ErrorConflict
	default:
		return ErrorInternal
	}
}

func httpStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
