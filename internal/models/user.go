package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string     `json:"id"`                    // UUID пользователя
	Email        string     `json:"email"`                 // уникальный email, ключ для обоих видов логина
	Name         string     `json:"name"`                  // отображаемое имя
	PasswordHash string     `json:"-"`                     // bcrypt хеш пароля или плейсхолдер для federated пользователей
	ProfileLink  string     `json:"profile_link"`          // ссылка на аватар
	CreatedAt    time.Time  `json:"created_at"`            // время создания
	UpdatedAt    time.Time  `json:"updated_at"`            // время последнего обновления
	LastLogin    *time.Time `json:"last_login,omitempty"` // время последнего входа
}

// RevokedToken представляет отозванный (logout) session token
type RevokedToken struct {
	TokenHash string    `json:"token_hash"` // SHA256 hex от строки токена
	ExpiresAt time.Time `json:"expires_at"` // естественное истечение токена, после него запись можно удалить
	RevokedAt time.Time `json:"revoked_at"` // время отзыва
}
