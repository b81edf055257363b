package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/validation"
	pkgapi "github.com/iudanet/gophtodo/pkg/api"
)

var (
	// ErrNotLoggedIn возвращается, когда локальной сессии нет
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired возвращается, когда срок токена истек
	ErrSessionExpired = errors.New("session expired")
)

//go:generate moq -out api_mock.go . APIClient

// APIClient is the subset of the server API used for authentication
type APIClient interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.UserProfile, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*api.LoginResponse, error)
	LoginGoogle(ctx context.Context, idToken string) (*api.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// Service предоставляет функции авторизации и хранит сессию локально
type Service struct {
	logger    *slog.Logger
	apiClient APIClient
	sessions  storage.SessionStorage
	serverURL string
	now       func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(logger *slog.Logger, apiClient APIClient, sessions storage.SessionStorage, serverURL string) *Service {
	return &Service{
		logger:    logger,
		apiClient: apiClient,
		sessions:  sessions,
		serverURL: serverURL,
		now:       time.Now,
	}
}

// Register регистрирует нового пользователя
// Сессия не создается: после регистрации нужен Login
func (s *Service) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.UserProfile, error) {
	req.Email = validation.NormalizeEmail(req.Email)

	// Проверяем данные до обращения к серверу
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	if err := validation.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("invalid name: %w", err)
	}
	if err := validation.ValidateProfileLink(req.ProfileLink); err != nil {
		return nil, fmt.Errorf("invalid profile link: %w", err)
	}

	profile, err := s.apiClient.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return profile, nil
}

// Login выполняет вход по email и паролю и сохраняет сессию
func (s *Service) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// LoginGoogle обменивает Google ID token на токен сервера и сохраняет сессию
func (s *Service) LoginGoogle(ctx context.Context, idToken string) (*storage.Session, error) {
	if idToken == "" {
		return nil, fmt.Errorf("id token is required")
	}

	resp, err := s.apiClient.LoginGoogle(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("google login failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// Logout отзывает токен на сервере и удаляет локальную сессию
func (s *Service) Logout(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Уведомляем сервер (best effort), просроченный токен отзывать незачем
	if !session.Expired(s.now()) {
		if logoutErr := s.apiClient.Logout(ctx, session.Token); logoutErr != nil {
			s.logger.WarnContext(ctx, "failed to logout on server", slog.Any("error", logoutErr))
		}
	}

	// Локальные данные удаляются всегда, даже если сервер недоступен
	if err := s.Forget(ctx); err != nil {
		return err
	}

	return nil
}

// Forget удаляет локальную сессию без обращения к серверу
func (s *Service) Forget(ctx context.Context) error {
	err := s.sessions.DeleteSession(ctx)
	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	return nil
}

// Session возвращает сохраненную сессию, в том числе просроченную
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Token возвращает действующий bearer token
func (s *Service) Token(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	if session.Expired(s.now()) {
		return "", ErrSessionExpired
	}
	return session.Token, nil
}

func (s *Service) saveSession(ctx context.Context, resp *api.LoginResponse) (*storage.Session, error) {
	session := &storage.Session{
		ServerURL: s.serverURL,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Token:     resp.Token,
		ExpiresAt: s.now().Unix() + resp.ExpiresIn,
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
