package crypto

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost фиксированный work factor для хеширования паролей
	DefaultBcryptCost = 12

	// MaxPasswordBytes - bcrypt игнорирует всё после 72 байт
	MaxPasswordBytes = 72

	// FederatedPasswordHash ставится пользователям, созданным через federated login.
	// Это не bcrypt хеш, поэтому локальный вход с любым паролем невозможен.
	FederatedPasswordHash = "!federated-login-only"
)

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate
	ErrPasswordTooLong = fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
)

// PasswordHasher provides password hashing and verification
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the password
	Hash(password string) (string, error)

	// Verify reports whether password matches the stored hash.
	// A malformed hash is a mismatch, never an error.
	Verify(password, hash string) bool

	// SpendDummy burns the same work as a real Verify
	SpendDummy(password string)
}

// BcryptHasher implements PasswordHasher using bcrypt
type BcryptHasher struct {
	dummyHash []byte
	dummyOnce sync.Once
	cost      int
}

// NewPasswordHasher creates a bcrypt hasher with the given cost.
// Out of range cost falls back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a bcrypt hash of the password
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify checks password against the stored bcrypt hash
func (h *BcryptHasher) Verify(password, hash string) bool {
	if password == "" || hash == "" || hash == FederatedPasswordHash {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SpendDummy выполняет сравнение с заранее вычисленным хешем той же стоимости,
// чтобы ответ для несуществующего email занимал столько же времени
func (h *BcryptHasher) SpendDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), h.cost)
	})
	if h.dummyHash == nil {
		return
	}
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
