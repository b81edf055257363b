package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Password    string `json:"password"`
	ProfileLink string `json:"profileLink,omitempty"` // ссылка на аватар
}

// LoginRequest представляет запрос на аутентификацию по паролю
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest содержит ID token, выданный Google Sign-In
type GoogleAuthRequest struct {
	IDToken string `json:"idToken"`
}

// UserProfile - публичное представление пользователя, без хеша пароля
type UserProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	ProfileLink string     `json:"profileLink,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// Response - общий конверт успешного ответа
type Response struct {
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int64  `json:"expires_in,omitempty"` // время жизни токена в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // машиночитаемый код ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
