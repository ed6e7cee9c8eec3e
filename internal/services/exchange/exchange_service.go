// Package exchange содержит координатор обменов — единственный компонент
// с логикой записи сразу в два агрегата: принятие предложения атомарно
// переводит оба объявления в статус traded.
package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/authz"
	"github.com/rajivgeraev/barter-api/internal/domain"
	"github.com/rajivgeraev/barter-api/internal/storage"
)

// Service — координатор предложений обмена
type Service struct {
	uow       storage.UnitOfWork
	exchanges storage.ExchangeStore
	ads       storage.AdStore
	now       func() time.Time
}

// NewService создает координатор обменов
func NewService(uow storage.UnitOfWork, exchanges storage.ExchangeStore, ads storage.AdStore) *Service {
	return &Service{
		uow:       uow,
		exchanges: exchanges,
		ads:       ads,
		now:       time.Now,
	}
}

// CreateProposalInput — данные для создания предложения обмена
type CreateProposalInput struct {
	AdSenderID   uuid.UUID
	AdReceiverID uuid.UUID
	Comment      string
}

// CreateProposal создает предложение обмена со статусом pending.
// Отправитель должен владеть своим объявлением, объявление получателя
// должно быть активным, повторные pending-предложения между той же парой
// объявлений не допускаются. Объявления при создании не меняются.
func (s *Service) CreateProposal(ctx context.Context, userID uuid.UUID, input CreateProposalInput) (*domain.Exchange, error) {
	var created *domain.Exchange

	err := s.uow.Within(ctx, func(st storage.Stores) error {
		adSender, err := st.Ads.FindByID(ctx, input.AdSenderID)
		if err != nil {
			return err
		}
		if adSender == nil {
			return apperr.NotFound("объявление отправителя %s не найдено", input.AdSenderID)
		}

		if err := authz.RequireOwner(adSender, userID); err != nil {
			return err
		}

		adReceiver, err := st.Ads.FindByID(ctx, input.AdReceiverID)
		if err != nil {
			return err
		}
		if adReceiver == nil {
			return apperr.NotFound("объявление получателя %s не найдено", input.AdReceiverID)
		}

		if adReceiver.IsOwner(userID) {
			return apperr.InvalidInput("нельзя предложить обмен самому себе")
		}

		if err := authz.RequireActiveAd(adReceiver); err != nil {
			return err
		}

		exists, err := st.Exchanges.ExistsPending(ctx, input.AdSenderID, input.AdReceiverID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("такое предложение обмена уже существует")
		}

		exchange, err := domain.NewExchange(input.AdSenderID, input.AdReceiverID, input.Comment, s.now())
		if err != nil {
			return err
		}
		if err := st.Exchanges.Create(ctx, exchange); err != nil {
			return err
		}

		created = exchange
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProposalStatus принимает или отклоняет предложение обмена.
// Решение принимает только владелец объявления-получателя. При принятии
// статус обмена и статусы обоих объявлений записываются в одной транзакции;
// частичное применение невозможно. Отклонение объявления не затрагивает.
func (s *Service) UpdateProposalStatus(ctx context.Context, exchangeID, userID uuid.UUID, target domain.ExchangeStatus) (*domain.Exchange, error) {
	if target != domain.ExchangeStatusAccepted && target != domain.ExchangeStatusRejected {
		return nil, apperr.InvalidInput("недопустимый статус предложения обмена: %s", target)
	}

	var updated *domain.Exchange

	err := s.uow.Within(ctx, func(st storage.Stores) error {
		exchange, err := st.Exchanges.FindByID(ctx, exchangeID)
		if err != nil {
			return err
		}
		if exchange == nil {
			return apperr.NotFound("предложение обмена %s не найдено", exchangeID)
		}

		adReceiver, err := st.Ads.FindByID(ctx, exchange.AdReceiverID)
		if err != nil {
			return err
		}
		if adReceiver == nil {
			return apperr.NotFound("объявление получателя %s не найдено", exchange.AdReceiverID)
		}

		if err := authz.RequireOwner(adReceiver, userID); err != nil {
			return err
		}

		if exchange.Status.IsTerminal() {
			return apperr.Conflict("предложение обмена уже рассмотрено")
		}

		now := s.now()

		if target == domain.ExchangeStatusAccepted {
			if err := exchange.Accept(now); err != nil {
				return apperr.Conflict("%v", err)
			}

			adSender, err := st.Ads.FindByID(ctx, exchange.AdSenderID)
			if err != nil {
				return err
			}
			if adSender == nil {
				return apperr.NotFound("объявление отправителя %s не найдено", exchange.AdSenderID)
			}

			if err := adSender.MarkTraded(now); err != nil {
				return apperr.Conflict("%v", err)
			}
			if err := adReceiver.MarkTraded(now); err != nil {
				return apperr.Conflict("%v", err)
			}

			if err := st.Ads.UpdateStatus(ctx, adSender); err != nil {
				return mapVersionConflict(err)
			}
			if err := st.Ads.UpdateStatus(ctx, adReceiver); err != nil {
				return mapVersionConflict(err)
			}
		} else {
			if err := exchange.Reject(now); err != nil {
				return apperr.Conflict("%v", err)
			}
		}

		if err := st.Exchanges.UpdateStatus(ctx, exchange); err != nil {
			return mapVersionConflict(err)
		}

		updated = exchange
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteExchange удаляет предложение обмена. Отменить предложение может
// только владелец объявления отправителя и только пока оно в статусе pending.
func (s *Service) DeleteExchange(ctx context.Context, exchangeID, userID uuid.UUID) (bool, error) {
	var deleted bool

	err := s.uow.Within(ctx, func(st storage.Stores) error {
		exchange, err := st.Exchanges.FindByID(ctx, exchangeID)
		if err != nil {
			return err
		}
		if exchange == nil {
			return apperr.NotFound("предложение обмена %s не найдено", exchangeID)
		}

		adSender, err := st.Ads.FindByID(ctx, exchange.AdSenderID)
		if err != nil {
			return err
		}
		if adSender == nil {
			return apperr.NotFound("объявление отправителя %s не найдено", exchange.AdSenderID)
		}

		if err := authz.RequireOwner(adSender, userID); err != nil {
			return err
		}

		if exchange.Status != domain.ExchangeStatusPending {
			return apperr.PermissionDenied("удалить можно только ожидающее предложение")
		}

		deleted, err = st.Exchanges.Delete(ctx, exchangeID)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// GetExchange возвращает предложение обмена по ID
func (s *Service) GetExchange(ctx context.Context, exchangeID uuid.UUID) (*domain.Exchange, error) {
	exchange, err := s.exchanges.FindByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange == nil {
		return nil, apperr.NotFound("предложение обмена %s не найдено", exchangeID)
	}
	return exchange, nil
}

// ListUserProposals возвращает предложения, затрагивающие объявления
// пользователя с любой стороны
func (s *Service) ListUserProposals(ctx context.Context, userID uuid.UUID) ([]domain.Exchange, error) {
	return s.exchanges.FindUserProposals(ctx, userID)
}

// ListBySenderAd возвращает предложения по объявлению-отправителю
func (s *Service) ListBySenderAd(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error) {
	return s.exchanges.FindBySenderAdID(ctx, adID)
}

// ListByReceiverAd возвращает предложения по объявлению-получателю
func (s *Service) ListByReceiverAd(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error) {
	return s.exchanges.FindByReceiverAdID(ctx, adID)
}

// GetProposalView возвращает денормализованное представление обмена
func (s *Service) GetProposalView(ctx context.Context, exchangeID uuid.UUID) (*storage.ProposalView, error) {
	view, err := s.exchanges.ProposalViewByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperr.NotFound("предложение обмена %s не найдено", exchangeID)
	}
	return view, nil
}

// ListUserProposalViews возвращает представления всех обменов пользователя
func (s *Service) ListUserProposalViews(ctx context.Context, userID uuid.UUID) ([]storage.ProposalView, error) {
	return s.exchanges.ProposalViewsByUser(ctx, userID)
}

// GetExchangeParticipants возвращает оба объявления обмена. Доступ имеют
// только владельцы участвующих объявлений.
func (s *Service) GetExchangeParticipants(ctx context.Context, exchangeID, userID uuid.UUID) (*domain.Ad, *domain.Ad, error) {
	exchange, err := s.GetExchange(ctx, exchangeID)
	if err != nil {
		return nil, nil, err
	}

	adSender, err := s.ads.FindByID(ctx, exchange.AdSenderID)
	if err != nil {
		return nil, nil, err
	}
	if adSender == nil {
		return nil, nil, apperr.NotFound("объявление отправителя %s не найдено", exchange.AdSenderID)
	}

	adReceiver, err := s.ads.FindByID(ctx, exchange.AdReceiverID)
	if err != nil {
		return nil, nil, err
	}
	if adReceiver == nil {
		return nil, nil, apperr.NotFound("объявление получателя %s не найдено", exchange.AdReceiverID)
	}

	if err := authz.RequireParticipant(adSender, adReceiver, userID); err != nil {
		return nil, nil, err
	}
	return adSender, adReceiver, nil
}

func mapVersionConflict(err error) error {
	if errors.Is(err, storage.ErrVersionConflict) {
		return apperr.Conflict("%v", err)
	}
	return err
}
