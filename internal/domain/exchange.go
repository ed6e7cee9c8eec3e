package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExchangeStatus представляет статус предложения обмена
type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "pending"
	ExchangeStatusAccepted ExchangeStatus = "accepted"
	ExchangeStatusRejected ExchangeStatus = "rejected"
)

// ParseExchangeStatus разбирает статус обмена из строки
func ParseExchangeStatus(s string) (ExchangeStatus, error) {
	switch ExchangeStatus(s) {
	case ExchangeStatusPending:
		return ExchangeStatusPending, nil
	case ExchangeStatusAccepted:
		return ExchangeStatusAccepted, nil
	case ExchangeStatusRejected:
		return ExchangeStatusRejected, nil
	default:
		return "", &InvalidEnumError{Enum: "exchange status", Value: s}
	}
}

func (s ExchangeStatus) String() string { return string(s) }

// IsTerminal сообщает, что из статуса нет дальнейших переходов
func (s ExchangeStatus) IsTerminal() bool {
	return s == ExchangeStatusAccepted || s == ExchangeStatusRejected
}

// ErrExchangeNotPending возвращается при попытке перехода из терминального статуса
var ErrExchangeNotPending = errors.New("предложение обмена уже рассмотрено")

// Exchange представляет предложение обмена одного объявления на другое.
// Владельцы участников определяются через владельцев указанных объявлений.
type Exchange struct {
	ID           uuid.UUID
	AdSenderID   uuid.UUID
	AdReceiverID uuid.UUID
	Comment      string
	Status       ExchangeStatus
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewExchange создает новое предложение обмена со статусом pending
func NewExchange(adSenderID, adReceiverID uuid.UUID, comment string, now time.Time) (*Exchange, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации ID обмена: %w", err)
	}
	return &Exchange{
		ID:           id,
		AdSenderID:   adSenderID,
		AdReceiverID: adReceiverID,
		Comment:      comment,
		Status:       ExchangeStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Accept переводит предложение из pending в accepted
func (e *Exchange) Accept(now time.Time) error {
	if e.Status != ExchangeStatusPending {
		return ErrExchangeNotPending
	}
	e.Status = ExchangeStatusAccepted
	e.UpdatedAt = now
	return nil
}

// Reject переводит предложение из pending в rejected
func (e *Exchange) Reject(now time.Time) error {
	if e.Status != ExchangeStatusPending {
		return ErrExchangeNotPending
	}
	e.Status = ExchangeStatusRejected
	e.UpdatedAt = now
	return nil
}
