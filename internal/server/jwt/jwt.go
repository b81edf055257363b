package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer записывается в claim iss каждого токена
const Issuer = "gophtodo"

// Ошибки валидации токена
var (
	// ErrInvalidSignature - подпись не сходится, неизвестный алгоритм или чужой issuer
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired - срок действия токена истек
	ErrExpired = errors.New("token expired")

	// ErrMalformed - строка не является JWT
	ErrMalformed = errors.New("malformed token")
)

// Claims represents session token claims.
// Subject (sub) holds the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Email returns the subject the token was issued for
func (c *Claims) Email() string {
	return c.Subject
}

// Service provides session token issuance and validation.
// It is stateless: tokens are verified by signature only.
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewService creates a new token service
// secret should be a cryptographically secure random string loaded once at startup
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns lifetime of issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the subject email
func (s *Service) Issue(email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			// jti делает токены уникальными даже если выпущены в одну секунду
			ID: uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate verifies signature and expiry and returns the claims.
// Errors wrap ErrInvalidSignature, ErrExpired or ErrMalformed.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

// ExpiresAt reads exp claim without verifying the signature.
// Used only to decide how long a revoked token must be remembered.
func (s *Service) ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: exp claim is missing", ErrMalformed)
	}
	return claims.ExpiresAt.Time, nil
}
