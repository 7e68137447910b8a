package domain

import (
	"errors"
	"fmt"
)

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrRoleNotFound            = errors.New("role not found")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrManagerNotFound         = errors.New("manager not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrDuplicateDepartmentName = errors.New("department with this name already exists")
	ErrDuplicateUsername       = errors.New("user with this username already exists")
	ErrDeleteConflict          = errors.New("dependent record appeared during delete")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenExpired       = errors.New("token expired")
)

// ValidationError - некорректное значение поля, обнаруженное сервисом
// (пустая строка после обрезки пробелов, ссылка на несуществующую запись и т.п.)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError создаёт ошибку валидации поля
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
