package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: NotFound("объявление %d не найдено", 7), wantStatus: 404, wantCode: CodeNotFound},
		{name: "permission denied", err: PermissionDenied("нет доступа"), wantStatus: 403, wantCode: CodePermissionDenied},
		{name: "conflict", err: Conflict("уже существует"), wantStatus: 409, wantCode: CodeConflict},
		{name: "invalid input", err: InvalidInput("пустое название"), wantStatus: 400, wantCode: CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, tt.err.Status)
			}
			if tt.err.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.Error() == "" {
				t.Fatal("expected non-empty message")
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NotFound("нет")); got != 404 {
		t.Fatalf("expected 404, got %d", got)
	}
	// Обернутая ошибка тоже распознается
	wrapped := fmt.Errorf("контекст: %w", Conflict("занято"))
	if got := StatusOf(wrapped); got != 409 {
		t.Fatalf("expected 409 for wrapped error, got %d", got)
	}
	if got := StatusOf(errors.New("что-то сломалось")); got != 500 {
		t.Fatalf("expected 500 for unknown error, got %d", got)
	}
	if got := StatusOf(nil); got != 500 {
		t.Fatalf("expected 500 for nil, got %d", got)
	}
}

func TestIsCode(t *testing.T) {
	err := PermissionDenied("нет доступа")
	if !IsCode(err, CodePermissionDenied) {
		t.Fatal("expected code match")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("expected code mismatch")
	}
	if IsCode(errors.New("обычная ошибка"), CodeConflict) {
		t.Fatal("expected no match for plain error")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("исходная причина")
	err := New(500, "internal", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}
