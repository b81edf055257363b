package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/session"
)

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware создает middleware для проверки bearer токена.
// Отозванный или просроченный токен дает 401, пользователь попадает в контекст.
func AuthMiddleware(logger *slog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Извлекаем токен из заголовка Authorization
			token, err := session.ExtractBearer(r.Header.Get("Authorization"))
			if err != nil {
				logger.DebugContext(ctx, "missing bearer token")
				writeError(w, logger, handlers.CodeMissingToken, "authentication required", http.StatusUnauthorized)
				return
			}

			user, err := auth.Authenticate(ctx, token)
			if err != nil {
				// Для защищенных маршрутов любой отказ в доступе - 401, сбой - 500
				status, code := handlers.ErrorStatus(err)
				switch {
				case status == http.StatusInternalServerError:
					logger.ErrorContext(ctx, "authentication failed", slog.Any("error", err))
					writeError(w, logger, code, "internal server error", status)
				case errors.Is(err, session.ErrNotFound):
					writeError(w, logger, handlers.CodeUnauthenticated, "user no longer exists", http.StatusUnauthorized)
				default:
					logger.DebugContext(ctx, "token rejected", slog.Any("error", err))
					writeError(w, logger, code, err.Error(), http.StatusUnauthorized)
				}
				return
			}

			logger.DebugContext(ctx, "user authenticated", slog.String("user_id", user.ID))

			// Передаем запрос дальше с пользователем в контексте
			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, user)))
		})
	}
}
