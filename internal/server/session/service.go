// Package session implements the authentication use cases: registration,
// password login, federated login, profile lookup and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/identity"
	"github.com/iudanet/gophtodo/internal/server/jwt"
	"github.com/iudanet/gophtodo/internal/server/revocation"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
)

// TokenService issues and validates session tokens
type TokenService interface {
	Issue(email string) (string, time.Time, error)
	Validate(token string) (*jwt.Claims, error)
	ExpiresAt(token string) (time.Time, error)
	TTL() time.Duration
}

// RegisterInput содержит данные для регистрации
type RegisterInput struct {
	Email       string
	Name        string
	Password    string
	ProfileLink string
}

// LoginResult содержит выпущенный токен и пользователя
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Service composes credential store, password hasher, token service,
// revocation list and identity verifier. All of them are passed explicitly.
type Service struct {
	logger      *slog.Logger
	users       storage.UserStorage
	hasher      crypto.PasswordHasher
	tokens      TokenService
	revocations revocation.List
	verifier    identity.Verifier
	now         func() time.Time
}

// NewService creates a new session service
func NewService(
	logger *slog.Logger,
	users storage.UserStorage,
	hasher crypto.PasswordHasher,
	tokens TokenService,
	revocations revocation.List,
	verifier identity.Verifier,
) *Service {
	return &Service{
		logger:      logger,
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		verifier:    verifier,
		now:         time.Now,
	}
}

// Register creates a new user with a hashed password
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidateProfileLink(in.ProfileLink); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password: %w", ErrInternal, err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
		ProfileLink:  in.ProfileLink,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Уникальность обеспечивает хранилище, без блокировок в приложении
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: failed to create user: %w", ErrInternal, err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Login authenticates by email and password and issues a session token
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrAuthFailed
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Тратим столько же времени, сколько на настоящую проверку
			s.hasher.SpendDummy(password)
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrAuthFailed
	}

	return s.issue(ctx, user)
}

// LoginWithIdentity authenticates by a third-party identity assertion.
// Unknown users are created on first login with a placeholder credential
// that never passes password verification.
func (s *Service) LoginWithIdentity(ctx context.Context, assertion string) (*LoginResult, error) {
	if assertion == "" {
		return nil, fmt.Errorf("%w: identity token is required", ErrInvalidInput)
	}

	claims, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		s.logger.WarnContext(ctx, "identity token rejected", slog.Any("error", err))
		return nil, ErrInvalidAssertion
	}

	email := validation.NormalizeEmail(claims.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		user, err = s.createFederatedUser(ctx, email, claims)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	default:
		if err := s.syncProfile(ctx, user, claims); err != nil {
			return nil, err
		}
	}

	return s.issue(ctx, user)
}

// Authenticate validates token, checks revocation and loads its user
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token validation failed", slog.Any("error", err))
		return nil, ErrUnauthenticated
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	return user, nil
}

// Profile returns the user the token was issued for
func (s *Service) Profile(ctx context.Context, token string) (*models.User, error) {
	return s.Authenticate(ctx, token)
}

// Logout revokes the token. Any non-empty token is accepted, valid or not.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	// Запись нужна только до естественного истечения токена.
	// exp читается без проверки подписи, поэтому срок ограничен TTL:
	// выданный нами токен не живет дольше.
	limit := s.now().Add(s.tokens.TTL())
	expiresAt, err := s.tokens.ExpiresAt(token)
	if err != nil || expiresAt.After(limit) {
		expiresAt = limit
	}

	if err := s.revocations.Revoke(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.logger.InfoContext(ctx, "token revoked")

	return nil
}

// ListUsers returns all registered users
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %w", ErrInternal, err)
	}
	return users, nil
}

func (s *Service) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue token: %w", ErrInternal, err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		s.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	} else {
		user.LastLogin = &now
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) createFederatedUser(ctx context.Context, email string, claims *identity.Claims) (*models.User, error) {
	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         claims.Name,
		PasswordHash: crypto.FederatedPasswordHash,
		ProfileLink:  claims.PictureURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrUserAlreadyExists) {
		// Параллельный federated login создал пользователя раньше нас
		existing, getErr := s.users.GetUserByEmail(ctx, email)
		if getErr != nil {
			return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %w", ErrInternal, err)
	}

	s.logger.InfoContext(ctx, "user created via federated login", slog.String("user_id", user.ID))

	return user, nil
}

// syncProfile обновляет имя (и пустую ссылку на аватар) из проверенных claims
func (s *Service) syncProfile(ctx context.Context, user *models.User, claims *identity.Claims) error {
	changed := false
	if claims.Name != "" && claims.Name != user.Name {
		user.Name = claims.Name
		changed = true
	}
	if user.ProfileLink == "" && claims.PictureURL != "" {
		user.ProfileLink = claims.PictureURL
		changed = true
	}
	if !changed {
		return nil
	}

	user.UpdatedAt = s.now()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("%w: failed to update user: %w", ErrInternal, err)
	}

	return nil
}
