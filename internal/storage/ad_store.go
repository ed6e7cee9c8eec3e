package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/barter-api/internal/domain"
)

// Querier — общий интерфейс пула соединений и транзакции
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgAdStore реализует AdStore поверх PostgreSQL
type PgAdStore struct {
	q Querier
}

// NewAdStore создает хранилище объявлений
func NewAdStore(q Querier) *PgAdStore {
	return &PgAdStore{q: q}
}

const adColumns = `a.id, a.user_id, u.username, a.title, a.description, a.image_url,
       a.category, a.condition, a.status, a.version, a.created_at, a.updated_at`

// Create сохраняет новое объявление
func (s *PgAdStore) Create(ctx context.Context, ad *domain.Ad) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO ads (id, user_id, title, description, image_url, category, condition, status, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, ad.ID, ad.UserID, ad.Title, ad.Description, ad.ImageURL,
		ad.Category.String(), ad.Condition.String(), ad.Status.String(),
		ad.Version, ad.CreatedAt, ad.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения объявления: %w", err)
	}
	return nil
}

// FindByID возвращает объявление по ID или nil, если его нет
func (s *PgAdStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error) {
	row := s.q.QueryRow(ctx, `
        SELECT `+adColumns+`
        FROM ads a
        JOIN users u ON u.id = a.user_id
        WHERE a.id = $1
    `, id)

	ad, err := scanAd(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка запроса объявления: %w", err)
	}
	return ad, nil
}

// Update сохраняет контентные поля объявления с проверкой версии
func (s *PgAdStore) Update(ctx context.Context, ad *domain.Ad) error {
	tag, err := s.q.Exec(ctx, `
        UPDATE ads
        SET title = $2, description = $3, image_url = $4, category = $5,
            condition = $6, version = version + 1, updated_at = $7
        WHERE id = $1 AND version = $8
    `, ad.ID, ad.Title, ad.Description, ad.ImageURL,
		ad.Category.String(), ad.Condition.String(), ad.UpdatedAt, ad.Version)
	if err != nil {
		return fmt.Errorf("ошибка обновления объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	ad.Version++
	return nil
}

// UpdateStatus сохраняет статус объявления с проверкой версии.
// Статус traded этим путем выставляет только координатор обменов.
func (s *PgAdStore) UpdateStatus(ctx context.Context, ad *domain.Ad) error {
	tag, err := s.q.Exec(ctx, `
        UPDATE ads
        SET status = $2, version = version + 1, updated_at = $3
        WHERE id = $1 AND version = $4
    `, ad.ID, ad.Status.String(), ad.UpdatedAt, ad.Version)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	ad.Version++
	return nil
}

// Delete удаляет объявление, возвращает false, если его не было
func (s *PgAdStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления объявления: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindUserAds возвращает все объявления пользователя
func (s *PgAdStore) FindUserAds(ctx context.Context, userID uuid.UUID) ([]domain.Ad, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+adColumns+`
        FROM ads a
        JOIN users u ON u.id = a.user_id
        WHERE a.user_id = $1
        ORDER BY a.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса объявлений пользователя: %w", err)
	}
	defer rows.Close()
	return collectAds(rows)
}

// Search выполняет поиск объявлений с фильтрами и пагинацией,
// возвращает страницу результатов и общее количество
func (s *PgAdStore) Search(ctx context.Context, filter AdFilter) ([]domain.Ad, int, error) {
	var conditions []string
	var args []any

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if filter.Category != "" {
		addCondition("a.category = $%d", filter.Category)
	}
	if filter.Condition != "" {
		addCondition("a.condition = $%d", filter.Condition)
	}
	if filter.Status != "" {
		addCondition("a.status = $%d", filter.Status)
	}
	if filter.UserID != uuid.Nil {
		addCondition("a.user_id = $%d", filter.UserID)
	}
	if filter.Keyword != "" {
		addCondition("(a.title ILIKE '%%' || $%d || '%%' OR a.description ILIKE '%%' || $%[1]d || '%%')", filter.Keyword)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM ads a `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета объявлений: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	query := fmt.Sprintf(`
        SELECT `+adColumns+`
        FROM ads a
        JOIN users u ON u.id = a.user_id
        %s
        ORDER BY a.created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка поиска объявлений: %w", err)
	}
	defer rows.Close()

	ads, err := collectAds(rows)
	if err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

func scanAd(row pgx.Row) (*domain.Ad, error) {
	var ad domain.Ad
	var category, condition, status string
	err := row.Scan(
		&ad.ID, &ad.UserID, &ad.OwnerUsername, &ad.Title, &ad.Description, &ad.ImageURL,
		&category, &condition, &status, &ad.Version, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ad.Category, err = domain.ParseItemCategory(category); err != nil {
		return nil, err
	}
	if ad.Condition, err = domain.ParseItemCondition(condition); err != nil {
		return nil, err
	}
	if ad.Status, err = domain.ParseItemStatus(status); err != nil {
		return nil, err
	}
	return &ad, nil
}

func collectAds(rows pgx.Rows) ([]domain.Ad, error) {
	var ads []domain.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования объявления: %w", err)
		}
		ads = append(ads, *ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения объявлений: %w", err)
	}
	return ads, nil
}
