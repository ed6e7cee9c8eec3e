// Package ad содержит сервис объявлений: CRUD, поиск и правила удаления.
package ad

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/authz"
	"github.com/rajivgeraev/barter-api/internal/domain"
	"github.com/rajivgeraev/barter-api/internal/storage"
)

// ImageRemover удаляет изображение из внешнего хранилища
type ImageRemover interface {
	Destroy(ctx context.Context, publicID string) error
}

// Service — сервис объявлений
type Service struct {
	ads       storage.AdStore
	exchanges storage.ExchangeStore
	images    ImageRemover
	now       func() time.Time
}

// NewService создает сервис объявлений. images может быть nil,
// тогда изображения из внешнего хранилища не удаляются.
func NewService(ads storage.AdStore, exchanges storage.ExchangeStore, images ImageRemover) *Service {
	return &Service{
		ads:       ads,
		exchanges: exchanges,
		images:    images,
		now:       time.Now,
	}
}

// CreateAdInput — данные для создания объявления
type CreateAdInput struct {
	Title       string
	Description string
	ImageURL    string
	Category    string
	Condition   string
}

// UpdateAdInput — данные для обновления объявления. Пустые поля не меняются.
type UpdateAdInput struct {
	Title       string
	Description string
	ImageURL    string
	Category    string
	Condition   string
}

// CreateAd создает новое объявление. Значения перечислений проверяются
// на границе: неизвестная категория или состояние отклоняются.
func (s *Service) CreateAd(ctx context.Context, userID uuid.UUID, input CreateAdInput) (*domain.Ad, error) {
	if input.Title == "" {
		return nil, apperr.InvalidInput("название обязательно")
	}

	category, err := domain.ParseItemCategory(input.Category)
	if err != nil {
		return nil, invalidEnum(err)
	}
	condition, err := domain.ParseItemCondition(input.Condition)
	if err != nil {
		return nil, invalidEnum(err)
	}

	ad, err := domain.NewAd(userID, input.Title, input.Description, input.ImageURL, category, condition, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// UpdateAd обновляет контентные поля объявления. Менять объявление может
// только его владелец; статус этим путем не меняется никогда.
func (s *Service) UpdateAd(ctx context.Context, adID, userID uuid.UUID, input UpdateAdInput) (*domain.Ad, error) {
	ad, err := s.findAd(ctx, adID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwner(ad, userID); err != nil {
		return nil, err
	}

	var category domain.ItemCategory
	if input.Category != "" {
		if category, err = domain.ParseItemCategory(input.Category); err != nil {
			return nil, invalidEnum(err)
		}
	}
	var condition domain.ItemCondition
	if input.Condition != "" {
		if condition, err = domain.ParseItemCondition(input.Condition); err != nil {
			return nil, invalidEnum(err)
		}
	}

	ad.ApplyUpdate(input.Title, input.Description, input.ImageURL, category, condition, s.now())

	if err := s.ads.Update(ctx, ad); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil, apperr.Conflict("%v", err)
		}
		return nil, err
	}
	return ad, nil
}

// DeleteAd удаляет объявление. Удалить его может только владелец и только
// пока оно не участвует в ожидающем предложении обмена.
func (s *Service) DeleteAd(ctx context.Context, adID, userID uuid.UUID) (bool, error) {
	ad, err := s.findAd(ctx, adID)
	if err != nil {
		return false, err
	}

	if err := authz.RequireOwner(ad, userID); err != nil {
		return false, err
	}

	pending, err := s.exchanges.HasPendingForAd(ctx, adID)
	if err != nil {
		return false, err
	}
	if pending {
		return false, apperr.Conflict("объявление участвует в ожидающем предложении обмена")
	}

	deleted, err := s.ads.Delete(ctx, adID)
	if err != nil {
		return false, err
	}

	// Удаляем изображение из внешнего хранилища, сбой не считаем фатальным
	if deleted && s.images != nil && ad.ImageURL != "" {
		if err := s.images.Destroy(ctx, ad.ImageURL); err != nil {
			log.Printf("Ошибка удаления изображения объявления %s: %v", adID, err)
		}
	}
	return deleted, nil
}

// GetAd возвращает объявление по ID
func (s *Service) GetAd(ctx context.Context, adID uuid.UUID) (*domain.Ad, error) {
	return s.findAd(ctx, adID)
}

// GetUserAds возвращает все объявления пользователя
func (s *Service) GetUserAds(ctx context.Context, userID uuid.UUID) ([]domain.Ad, error) {
	return s.ads.FindUserAds(ctx, userID)
}

// AdPage — страница результатов поиска объявлений
type AdPage struct {
	Ads        []domain.Ad `json:"ads"`
	PageSize   int         `json:"page_size"`
	TotalItems int         `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

// ListAds выполняет поиск объявлений с фильтрами и пагинацией
func (s *Service) ListAds(ctx context.Context, filter storage.AdFilter) (*AdPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	// Значения фильтров проверяются на границе, как и при создании
	if filter.Category != "" {
		if _, err := domain.ParseItemCategory(filter.Category); err != nil {
			return nil, invalidEnum(err)
		}
	}
	if filter.Condition != "" {
		if _, err := domain.ParseItemCondition(filter.Condition); err != nil {
			return nil, invalidEnum(err)
		}
	}
	if filter.Status != "" {
		if _, err := domain.ParseItemStatus(filter.Status); err != nil {
			return nil, invalidEnum(err)
		}
	}

	ads, total, err := s.ads.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize
	return &AdPage{
		Ads:        ads,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) findAd(ctx context.Context, adID uuid.UUID) (*domain.Ad, error) {
	ad, err := s.ads.FindByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, apperr.NotFound("объявление %s не найдено", adID)
	}
	return ad, nil
}

func invalidEnum(err error) error {
	return apperr.InvalidInput("%v", err)
}
