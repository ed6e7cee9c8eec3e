// Package storage содержит контракты хранилищ и их реализацию поверх pgx.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/domain"
)

// ErrVersionConflict возвращается при нарушении оптимистической блокировки:
// запись была изменена конкурирующим запросом
var ErrVersionConflict = errors.New("запись изменена конкурирующим запросом")

// AdFilter задает параметры поиска объявлений
type AdFilter struct {
	Category  string
	Condition string
	Status    string
	Keyword   string
	UserID    uuid.UUID
	Page      int
	PageSize  int
}

// ProposalView — денормализованное представление обмена для выдачи:
// названия объявлений и имена владельцев подтянуты из связанных таблиц
type ProposalView struct {
	ID               uuid.UUID `json:"id"`
	AdSenderID       uuid.UUID `json:"ad_sender_id"`
	AdReceiverID     uuid.UUID `json:"ad_receiver_id"`
	Comment          string    `json:"comment"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverUsername string    `json:"receiver_username"`
	SenderItem       string    `json:"sender_item"`
	ReceiverItem     string    `json:"receiver_item"`
}

// AdStore — контракт хранилища объявлений
type AdStore interface {
	Create(ctx context.Context, ad *domain.Ad) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error)
	Update(ctx context.Context, ad *domain.Ad) error
	UpdateStatus(ctx context.Context, ad *domain.Ad) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindUserAds(ctx context.Context, userID uuid.UUID) ([]domain.Ad, error)
	Search(ctx context.Context, filter AdFilter) ([]domain.Ad, int, error)
}

// ExchangeStore — контракт хранилища предложений обмена
type ExchangeStore interface {
	Create(ctx context.Context, exchange *domain.Exchange) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Exchange, error)
	UpdateStatus(ctx context.Context, exchange *domain.Exchange) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindBySenderAdID(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error)
	FindByReceiverAdID(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error)
	FindByParticipantAdIDs(ctx context.Context, adIDs []uuid.UUID) ([]domain.Exchange, error)
	FindUserProposals(ctx context.Context, userID uuid.UUID) ([]domain.Exchange, error)
	ExistsPending(ctx context.Context, adSenderID, adReceiverID uuid.UUID) (bool, error)
	HasPendingForAd(ctx context.Context, adID uuid.UUID) (bool, error)
	ProposalViewByID(ctx context.Context, id uuid.UUID) (*ProposalView, error)
	ProposalViewsByUser(ctx context.Context, userID uuid.UUID) ([]ProposalView, error)
}

// Stores — набор хранилищ, привязанных к одной транзакции
type Stores struct {
	Ads       AdStore
	Exchanges ExchangeStore
}

// UnitOfWork выполняет функцию в рамках одной транзакции: либо все записи
// внутри fn становятся видимыми, либо ни одна
type UnitOfWork interface {
	Within(ctx context.Context, fn func(s Stores) error) error
}
