package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/barter-api/internal/domain"
)

// PgExchangeStore реализует ExchangeStore поверх PostgreSQL
type PgExchangeStore struct {
	q Querier
}

// NewExchangeStore создает хранилище предложений обмена
func NewExchangeStore(q Querier) *PgExchangeStore {
	return &PgExchangeStore{q: q}
}

const exchangeColumns = `e.id, e.ad_sender_id, e.ad_receiver_id, e.comment, e.status,
       e.version, e.created_at, e.updated_at`

const proposalViewQuery = `
    SELECT e.id, e.ad_sender_id, e.ad_receiver_id, e.comment, e.status, e.created_at,
           su.username, ru.username, sa.title, ra.title
    FROM exchanges e
    JOIN ads sa ON sa.id = e.ad_sender_id
    JOIN ads ra ON ra.id = e.ad_receiver_id
    JOIN users su ON su.id = sa.user_id
    JOIN users ru ON ru.id = ra.user_id
`

// Create сохраняет новое предложение обмена
func (s *PgExchangeStore) Create(ctx context.Context, exchange *domain.Exchange) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO exchanges (id, ad_sender_id, ad_receiver_id, comment, status, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, exchange.ID, exchange.AdSenderID, exchange.AdReceiverID, exchange.Comment,
		exchange.Status.String(), exchange.Version, exchange.CreatedAt, exchange.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения предложения обмена: %w", err)
	}
	return nil
}

// FindByID возвращает предложение обмена по ID или nil, если его нет
func (s *PgExchangeStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Exchange, error) {
	row := s.q.QueryRow(ctx, `
        SELECT `+exchangeColumns+`
        FROM exchanges e
        WHERE e.id = $1
    `, id)

	exchange, err := scanExchange(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка запроса предложения обмена: %w", err)
	}
	return exchange, nil
}

// UpdateStatus сохраняет статус предложения с проверкой версии
func (s *PgExchangeStore) UpdateStatus(ctx context.Context, exchange *domain.Exchange) error {
	tag, err := s.q.Exec(ctx, `
        UPDATE exchanges
        SET status = $2, version = version + 1, updated_at = $3
        WHERE id = $1 AND version = $4
    `, exchange.ID, exchange.Status.String(), exchange.UpdatedAt, exchange.Version)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса предложения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	exchange.Version++
	return nil
}

// Delete удаляет предложение обмена, возвращает false, если его не было
func (s *PgExchangeStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM exchanges WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления предложения обмена: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindBySenderAdID возвращает предложения, где объявление выступает отправителем
func (s *PgExchangeStore) FindBySenderAdID(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error) {
	return s.findWhere(ctx, `e.ad_sender_id = $1`, adID)
}

// FindByReceiverAdID возвращает предложения, где объявление выступает получателем
func (s *PgExchangeStore) FindByReceiverAdID(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error) {
	return s.findWhere(ctx, `e.ad_receiver_id = $1`, adID)
}

// FindByParticipantAdIDs возвращает предложения, затрагивающие любое из объявлений
func (s *PgExchangeStore) FindByParticipantAdIDs(ctx context.Context, adIDs []uuid.UUID) ([]domain.Exchange, error) {
	if len(adIDs) == 0 {
		return nil, nil
	}
	return s.findWhere(ctx, `e.ad_sender_id = ANY($1) OR e.ad_receiver_id = ANY($1)`, adIDs)
}

// FindUserProposals возвращает предложения, затрагивающие объявления пользователя
// с любой стороны
func (s *PgExchangeStore) FindUserProposals(ctx context.Context, userID uuid.UUID) ([]domain.Exchange, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+exchangeColumns+`
        FROM exchanges e
        JOIN ads sa ON sa.id = e.ad_sender_id
        JOIN ads ra ON ra.id = e.ad_receiver_id
        WHERE sa.user_id = $1 OR ra.user_id = $1
        ORDER BY e.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса предложений пользователя: %w", err)
	}
	defer rows.Close()
	return collectExchanges(rows)
}

// ExistsPending проверяет, есть ли уже ожидающее предложение между парой объявлений
func (s *PgExchangeStore) ExistsPending(ctx context.Context, adSenderID, adReceiverID uuid.UUID) (bool, error) {
	var count int
	err := s.q.QueryRow(ctx, `
        SELECT COUNT(*) FROM exchanges
        WHERE ad_sender_id = $1 AND ad_receiver_id = $2 AND status = 'pending'
    `, adSenderID, adReceiverID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существующих предложений: %w", err)
	}
	return count > 0, nil
}

// HasPendingForAd проверяет, участвует ли объявление в ожидающем предложении
func (s *PgExchangeStore) HasPendingForAd(ctx context.Context, adID uuid.UUID) (bool, error) {
	var count int
	err := s.q.QueryRow(ctx, `
        SELECT COUNT(*) FROM exchanges
        WHERE (ad_sender_id = $1 OR ad_receiver_id = $1) AND status = 'pending'
    `, adID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки предложений объявления: %w", err)
	}
	return count > 0, nil
}

// ProposalViewByID возвращает денормализованное представление обмена
func (s *PgExchangeStore) ProposalViewByID(ctx context.Context, id uuid.UUID) (*ProposalView, error) {
	row := s.q.QueryRow(ctx, proposalViewQuery+` WHERE e.id = $1`, id)
	view, err := scanProposalView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка запроса представления обмена: %w", err)
	}
	return view, nil
}

// ProposalViewsByUser возвращает представления всех обменов пользователя
func (s *PgExchangeStore) ProposalViewsByUser(ctx context.Context, userID uuid.UUID) ([]ProposalView, error) {
	rows, err := s.q.Query(ctx, proposalViewQuery+`
        WHERE sa.user_id = $1 OR ra.user_id = $1
        ORDER BY e.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса представлений обменов: %w", err)
	}
	defer rows.Close()

	var views []ProposalView
	for rows.Next() {
		view, err := scanProposalView(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования представления обмена: %w", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения представлений обменов: %w", err)
	}
	return views, nil
}

func (s *PgExchangeStore) findWhere(ctx context.Context, condition string, arg any) ([]domain.Exchange, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+exchangeColumns+`
        FROM exchanges e
        WHERE `+condition+`
        ORDER BY e.created_at DESC
    `, arg)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса предложений обмена: %w", err)
	}
	defer rows.Close()
	return collectExchanges(rows)
}

func scanExchange(row pgx.Row) (*domain.Exchange, error) {
	var exchange domain.Exchange
	var status string
	err := row.Scan(
		&exchange.ID, &exchange.AdSenderID, &exchange.AdReceiverID, &exchange.Comment,
		&status, &exchange.Version, &exchange.CreatedAt, &exchange.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if exchange.Status, err = domain.ParseExchangeStatus(status); err != nil {
		return nil, err
	}
	return &exchange, nil
}

func collectExchanges(rows pgx.Rows) ([]domain.Exchange, error) {
	var exchanges []domain.Exchange
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования предложения обмена: %w", err)
		}
		exchanges = append(exchanges, *exchange)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения предложений обмена: %w", err)
	}
	return exchanges, nil
}

func scanProposalView(row pgx.Row) (*ProposalView, error) {
	var view ProposalView
	err := row.Scan(
		&view.ID, &view.AdSenderID, &view.AdReceiverID, &view.Comment, &view.Status,
		&view.CreatedAt, &view.SenderUsername, &view.ReceiverUsername,
		&view.SenderItem, &view.ReceiverItem,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
