package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/pkg/api"
)

// writeError отправляет JSON ошибку в формате API
func writeError(w http.ResponseWriter, logger *slog.Logger, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.ErrorResponse{Error: code, Message: message}); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
