package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User представляет пользователя в системе
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// PgUserStore реализует хранилище пользователей поверх PostgreSQL
type PgUserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore создает хранилище пользователей
func NewUserStore(pool *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{pool: pool}
}

// FindByID возвращает пользователя по ID или nil, если его нет
func (s *PgUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := s.pool.QueryRow(ctx, `
        SELECT id, username, first_name, last_name, avatar_url, created_at, last_login_at
        FROM users
        WHERE id = $1
    `, id).Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.AvatarURL, &user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка запроса пользователя: %w", err)
	}
	return &user, nil
}

// CreateOrUpdateTelegramUser создает нового пользователя через Telegram
// или обновляет существующего
func (s *PgUserStore) CreateOrUpdateTelegramUser(ctx context.Context, telegramID int64,
	username, firstName, lastName, photoURL string, isPremium bool, languageCode string) (*User, error) {

	// Начинаем транзакцию
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем, существует ли пользователь Telegram
	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
        SELECT user_id FROM telegram_users WHERE telegram_id = $1
    `, telegramID).Scan(&userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка при проверке существования пользователя Telegram: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		// Создаем запись в users
		newID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("ошибка генерации ID пользователя: %w", err)
		}
		err = tx.QueryRow(ctx, `
            INSERT INTO users (id, username, first_name, last_name, avatar_url, last_login_at)
            VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
            RETURNING id
        `, newID, username, firstName, lastName, photoURL).Scan(&userID)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
		}

		// Создаем запись в telegram_users
		_, err = tx.Exec(ctx, `
            INSERT INTO telegram_users (user_id, telegram_id, username, first_name, last_name, photo_url, is_premium, language_code)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        `, userID, telegramID, username, firstName, lastName, photoURL, isPremium, languageCode)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании Telegram пользователя: %w", err)
		}
	} else {
		// Обновляем данные существующего пользователя
		_, err = tx.Exec(ctx, `
            UPDATE users
            SET username = $2, first_name = $3, last_name = $4, avatar_url = $5,
                last_login_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
            WHERE id = $1
        `, userID, username, firstName, lastName, photoURL)
		if err != nil {
			return nil, fmt.Errorf("ошибка при обновлении пользователя: %w", err)
		}

		_, err = tx.Exec(ctx, `
            UPDATE telegram_users
            SET username = $2, first_name = $3, last_name = $4, photo_url = $5,
                is_premium = $6, language_code = $7, updated_at = CURRENT_TIMESTAMP
            WHERE telegram_id = $1
        `, telegramID, username, firstName, lastName, photoURL, isPremium, languageCode)
		if err != nil {
			return nil, fmt.Errorf("ошибка при обновлении Telegram пользователя: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return s.FindByID(ctx, userID)
}
