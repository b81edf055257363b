package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken хеширует строку session token с использованием SHA256.
// Список отзыва хранит только хеш, сам токен нигде не сохраняется.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
