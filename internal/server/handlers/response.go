package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/server/session"
	"github.com/iudanet/gophtodo/pkg/api"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

// Коды ошибок в поле error ответа
const (
	CodeInvalidInput     = "invalid_input"
	CodeDuplicateEmail   = "duplicate_email"
	CodeAuthFailed       = "auth_failed"
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidAssertion = "invalid_assertion"
	CodeMissingEmail     = "missing_email"
	CodeMissingToken     = "missing_token"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)

// ErrorStatus maps a use-case error to HTTP status and error code
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, session.ErrMissingEmail):
		return http.StatusBadRequest, CodeMissingEmail
	case errors.Is(err, session.ErrMissingToken):
		return http.StatusBadRequest, CodeMissingToken
	case errors.Is(err, session.ErrDuplicateEmail):
		return http.StatusConflict, CodeDuplicateEmail
	case errors.Is(err, session.ErrAuthFailed):
		return http.StatusUnauthorized, CodeAuthFailed
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, session.ErrInvalidAssertion):
		return http.StatusUnauthorized, CodeInvalidAssertion
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// responder содержит общие методы формирования ответов
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, code, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   code,
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}

// sendServiceError maps err to a status. Internal details never reach the client.
func (h responder) sendServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		h.sendError(w, code, "internal server error", status)
		return
	}
	h.sendError(w, code, err.Error(), status)
}

// decodeJSON читает тело запроса с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
