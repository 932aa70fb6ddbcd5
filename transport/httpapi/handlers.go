package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	accountcommand "github.com/goliatone/go-account-webhooks/command"
	"github.com/goliatone/go-account-webhooks/core"
	accountquery "github.com/goliatone/go-account-webhooks/query"
	"github.com/goliatone/go-account-webhooks/webhooks"
	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

var errPayloadTooLarge = errors.New("httpapi: request body exceeds limit")

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req core.CreateAccountRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		s.writeError(w, r, core.BadInputError("malformed account payload", err))
		return
	}

	msg := accountcommand.CreateAccountMessage{Request: req}
	if err := msg.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	collector := gocmd.NewResult[core.Account]()
	if err := s.handlers.CreateAccount.Execute(gocmd.ContextWithResult(r.Context(), collector), msg); err != nil {
		s.writeError(w, r, err)
		return
	}
	account, _ := collector.Load()
	writeJSON(w, http.StatusCreated, core.NewAccountView(account))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	view, err := s.handlers.GetAccount.Query(r.Context(), accountquery.GetAccountMessage{
		AccountKey: chi.URLParam(r, "accountKey"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	view, err := s.handlers.GetEvent.Query(r.Context(), accountquery.GetEventMessage{
		EventID: chi.URLParam(r, "eventId"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// receiveWebhook captures the raw body once; the same bytes feed signature
// verification and decoding.
func (s *Server) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.handlers.Webhooks.Process(r.Context(), webhooks.NewInboundRequest(body, r.Header))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.PingContext(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, core.WrapError(
				errPayloadTooLarge,
				goerrors.CategoryBadInput,
				"request body too large",
				http.StatusRequestEntityTooLarge,
				core.ErrorPayloadTooLarge,
				map[string]any{"limit_bytes": maxErr.Limit},
			)
		}
		return nil, core.BadInputError("failed to read request body", err)
	}
	return body, nil
}

type errorResponse struct {
	Error    string `json:"error"`
	TextCode string `json:"text_code"`
	Category string `json:"category"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := core.MapError(err)
	if mapped == nil {
		mapped = core.MapError(core.InternalError("unexpected error", err))
	}
	fields := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", mapped.Code,
		"text_code", mapped.TextCode,
		"request_id", middleware.GetReqID(r.Context()),
	}
	if mapped.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed", append(fields, "error", fmt.Sprint(err))...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	writeJSON(w, mapped.Code, errorResponse{
		Error:    mapped.Message,
		TextCode: mapped.TextCode,
		Category: mapped.Category.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
