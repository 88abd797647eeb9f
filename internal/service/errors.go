package service

import "errors"

// Ошибки бизнес-логики. Репозитории и сервисы оборачивают их через %w,
// хендлеры сопоставляют их с HTTP статусами через errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)
