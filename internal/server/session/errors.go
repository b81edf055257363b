package session

import "errors"

// Ошибки use-case слоя. Handlers мапят их в HTTP статусы через errors.Is.
var (
	// ErrDuplicateEmail - email уже зарегистрирован
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrAuthFailed - неверный email или пароль.
	// Не различает "нет пользователя" и "неверный пароль".
	ErrAuthFailed = errors.New("invalid email or password")

	// ErrUnauthenticated - токен невалиден, истек или отозван
	ErrUnauthenticated = errors.New("invalid or expired token")

	// ErrInvalidAssertion - внешний identity token не прошел проверку
	ErrInvalidAssertion = errors.New("invalid identity token")

	// ErrMissingEmail - проверенный identity token не содержит email
	ErrMissingEmail = errors.New("email is missing in the identity token")

	// ErrMissingToken - нет bearer токена
	ErrMissingToken = errors.New("token is missing")

	// ErrNotFound - пользователь из валидного токена больше не существует
	ErrNotFound = errors.New("user not found")

	// ErrInvalidInput - входные данные не прошли валидацию
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal - сбой инфраструктуры, детали не отдаются клиенту
	ErrInternal = errors.New("internal error")
)
