// Package apperr содержит общую таксономию ошибок приложения.
// Сервисы возвращают *Error, HTTP-обработчики отображают его в статус ответа.
package apperr

import (
	"errors"
	"fmt"
)

// Коды ошибок приложения
const (
	CodeNotFound         = "not_found"
	CodePermissionDenied = "permission_denied"
	CodeConflict         = "conflict"
	CodeInvalidInput     = "invalid_input"
)

// Error представляет ошибку бизнес-правила с HTTP-статусом и кодом
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "application error"
}

func (e *Error) Unwrap() error { return e.Err }

// New создает ошибку с произвольным статусом и кодом
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// NotFound — запрошенная сущность не существует
func NotFound(format string, args ...any) *Error {
	return &Error{Status: 404, Code: CodeNotFound, Err: fmt.Errorf(format, args...)}
}

// PermissionDenied — нарушено правило владения или статуса
func PermissionDenied(format string, args ...any) *Error {
	return &Error{Status: 403, Code: CodePermissionDenied, Err: fmt.Errorf(format, args...)}
}

// Conflict — повторный или конкурирующий переход состояния
func Conflict(format string, args ...any) *Error {
	return &Error{Status: 409, Code: CodeConflict, Err: fmt.Errorf(format, args...)}
}

// InvalidInput — некорректные данные запроса
func InvalidInput(format string, args ...any) *Error {
	return &Error{Status: 400, Code: CodeInvalidInput, Err: fmt.Errorf(format, args...)}
}

// StatusOf возвращает HTTP-статус ошибки, 500 для неизвестных
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 500
}

// CodeOf возвращает код ошибки, пустую строку для неизвестных
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsCode проверяет, что ошибка несет указанный код
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
