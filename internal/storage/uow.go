package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Количество попыток транзакции при сбоях сериализации
const txAttempts = 3

// PgUnitOfWork выполняет функции в рамках одной транзакции PostgreSQL
type PgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork создает единицу работы поверх пула соединений
func NewUnitOfWork(pool *pgxpool.Pool) *PgUnitOfWork {
	return &PgUnitOfWork{pool: pool}
}

// Within выполняет fn в транзакции. При сбое сериализации транзакция
// повторяется целиком; частично примененных записей не остается.
func (u *PgUnitOfWork) Within(ctx context.Context, fn func(s Stores) error) error {
	var lastErr error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		lastErr = u.attempt(ctx, fn)
		if lastErr == nil || !isSerializationFailure(lastErr) {
			return lastErr
		}
		log.Printf("Повтор транзакции после сбоя сериализации (попытка %d): %v", attempt, lastErr)
	}
	return lastErr
}

func (u *PgUnitOfWork) attempt(ctx context.Context, fn func(s Stores) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	stores := Stores{
		Ads:       NewAdStore(tx),
		Exchanges: NewExchangeStore(tx),
	}

	if err := fn(stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure и deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
