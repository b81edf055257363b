package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/metrics"
	"github.com/iudanet/gophtodo/internal/server/session"
	"github.com/iudanet/gophtodo/pkg/api"
)

// Методы аутентификации для метрик
const (
	authMethodPassword = "password"
	authMethodGoogle   = "google"
)

// SessionService is the part of session.Service used by the handlers
type SessionService interface {
	Register(ctx context.Context, in session.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*session.LoginResult, error)
	LoginWithIdentity(ctx context.Context, assertion string) (*session.LoginResult, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// AuthHandler обрабатывает запросы пользователей и авторизации
type AuthHandler struct {
	responder
	sessions SessionService
	metrics  metrics.Recorder
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, sessions SessionService, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		sessions:  sessions,
		metrics:   recorder,
	}
}

// Register обрабатывает POST /api/v1/user/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, CodeInvalidInput, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.sessions.Register(ctx, session.RegisterInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		ProfileLink: req.ProfileLink,
	})
	if err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.Response{
		Message: "User registered successfully",
		Data:    toProfile(user),
	}, http.StatusCreated)
}

// Login обрабатывает POST /api/v1/user/login
// Аутентификация по email и паролю
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, CodeInvalidInput, "invalid request body", http.StatusBadRequest)
		return
	}

	// Проверка обязательных полей
	if req.Email == "" || req.Password == "" {
		h.sendError(w, CodeInvalidInput, "email and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.recordAuth(authMethodPassword, err)
		h.sendServiceError(ctx, w, err)
		return
	}
	h.recordAuth(authMethodPassword, nil)

	h.sendLoginResult(w, res)
}

// GoogleAuth обрабатывает POST /api/v1/user/auth/google
// Вход по ID token от Google
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.GoogleAuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode google auth request", slog.Any("error", err))
		h.sendError(w, CodeInvalidInput, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.sessions.LoginWithIdentity(ctx, req.IDToken)
	if err != nil {
		h.recordAuth(authMethodGoogle, err)
		h.sendServiceError(ctx, w, err)
		return
	}
	h.recordAuth(authMethodGoogle, nil)

	h.sendLoginResult(w, res)
}

// Profile обрабатывает GET /api/v1/user/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := session.ExtractBearer(r.Header.Get("Authorization"))
	if err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}

	user, err := h.sessions.Profile(ctx, token)
	if err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.Response{
		Message: "Profile retrieved successfully",
		Data:    toProfile(user),
	}, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/user/logout
// Отзывает переданный токен. Валидность токена не проверяется.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := session.ExtractBearer(r.Header.Get("Authorization"))
	if err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}

	if err := h.sessions.Logout(ctx, token); err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}
	h.metrics.RecordRevocation()

	h.sendJSON(w, api.Response{Message: "Logged out successfully"}, http.StatusOK)
}

// ListUsers обрабатывает GET /api/v1/user/users
// Требует аутентификации через middleware
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := UserFromContext(ctx); !ok {
		h.sendError(w, CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return
	}

	users, err := h.sessions.ListUsers(ctx)
	if err != nil {
		h.sendServiceError(ctx, w, err)
		return
	}

	profiles := make([]api.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfile(u))
	}

	h.sendJSON(w, api.Response{
		Message: "Users retrieved successfully",
		Data:    profiles,
	}, http.StatusOK)
}

func (h *AuthHandler) sendLoginResult(w http.ResponseWriter, res *session.LoginResult) {
	expiresIn := int64(time.Until(res.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	h.sendJSON(w, api.Response{
		Message:   "Login successful",
		Data:      toProfile(res.User),
		Token:     res.Token,
		ExpiresIn: expiresIn,
	}, http.StatusOK)
}

// recordAuth учитывает попытку входа. Сбои инфраструктуры не считаются отказом в доступе.
func (h *AuthHandler) recordAuth(method string, err error) {
	switch {
	case err == nil:
		h.metrics.RecordAuth(method, metrics.OutcomeSuccess)
	case errors.Is(err, session.ErrInternal):
	default:
		h.metrics.RecordAuth(method, metrics.OutcomeFailure)
	}
}

func toProfile(u *models.User) api.UserProfile {
	return api.UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		ProfileLink: u.ProfileLink,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}
