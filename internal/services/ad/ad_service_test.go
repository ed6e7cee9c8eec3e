package ad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/domain"
	"github.com/rajivgeraev/barter-api/internal/storage"
)

type memAdStore struct {
	ads map[uuid.UUID]*domain.Ad

	updateErr    error
	searchResult []domain.Ad
	searchTotal  int
	lastFilter   storage.AdFilter
}

var _ storage.AdStore = (*memAdStore)(nil)

func (m *memAdStore) Create(ctx context.Context, ad *domain.Ad) error {
	cp := *ad
	m.ads[ad.ID] = &cp
	return nil
}

func (m *memAdStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error) {
	ad, ok := m.ads[id]
	if !ok {
		return nil, nil
	}
	cp := *ad
	return &cp, nil
}

func (m *memAdStore) Update(ctx context.Context, ad *domain.Ad) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *ad
	cp.Version++
	m.ads[ad.ID] = &cp
	ad.Version++
	return nil
}

func (m *memAdStore) UpdateStatus(ctx context.Context, ad *domain.Ad) error {
	return m.Update(ctx, ad)
}

func (m *memAdStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.ads[id]
	delete(m.ads, id)
	return ok, nil
}

func (m *memAdStore) FindUserAds(ctx context.Context, userID uuid.UUID) ([]domain.Ad, error) {
	var ads []domain.Ad
	for _, ad := range m.ads {
		if ad.UserID == userID {
			ads = append(ads, *ad)
		}
	}
	return ads, nil
}

func (m *memAdStore) Search(ctx context.Context, filter storage.AdFilter) ([]domain.Ad, int, error) {
	m.lastFilter = filter
	return m.searchResult, m.searchTotal, nil
}

// memExchangeStore нужен сервису объявлений только для проверки
// незавершенных предложений при удалении
type memExchangeStore struct {
	storage.ExchangeStore

	pendingForAd uuid.UUID
}

func (m *memExchangeStore) HasPendingForAd(ctx context.Context, adID uuid.UUID) (bool, error) {
	return m.pendingForAd == adID, nil
}

type recordingImageRemover struct {
	destroyed []string
	err       error
}

func (r *recordingImageRemover) Destroy(ctx context.Context, publicID string) error {
	r.destroyed = append(r.destroyed, publicID)
	return r.err
}

func newAdService(t *testing.T) (*Service, *memAdStore, *memExchangeStore, *recordingImageRemover) {
	t.Helper()
	ads := &memAdStore{ads: map[uuid.UUID]*domain.Ad{}}
	exchanges := &memExchangeStore{}
	images := &recordingImageRemover{}

	service := NewService(ads, exchanges, images)
	service.now = func() time.Time {
		return time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	}
	return service, ads, exchanges, images
}

func TestCreateAd(t *testing.T) {
	service, ads, _, _ := newAdService(t)
	owner := uuid.New()

	ad, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title:       "Паровозик",
		Description: "деревянный",
		ImageURL:    "ads/abc123",
		Category:    "toys",
		Condition:   "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	if ad.Status != domain.ItemStatusActive {
		t.Fatalf("expected active, got %v", ad.Status)
	}
	if ad.UserID != owner {
		t.Fatal("expected ad owned by requester")
	}
	if _, ok := ads.ads[ad.ID]; !ok {
		t.Fatal("expected ad persisted")
	}
}

func TestCreateAdValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateAdInput
	}{
		{name: "empty title", input: CreateAdInput{Category: "toys", Condition: "used"}},
		{name: "unknown category", input: CreateAdInput{Title: "Мяч", Category: "furniture", Condition: "used"}},
		{name: "unknown condition", input: CreateAdInput{Title: "Мяч", Category: "toys", Condition: "broken"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _ := newAdService(t)

			_, err := service.CreateAd(context.Background(), uuid.New(), tt.input)
			if !apperr.IsCode(err, apperr.CodeInvalidInput) {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}
}

func TestUpdateAd(t *testing.T) {
	service, ads, _, _ := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	updated, err := service.UpdateAd(context.Background(), created.ID, owner, UpdateAdInput{
		Title:    "Паровозик с вагонами",
		Category: "games",
	})
	if err != nil {
		t.Fatalf("update ad: %v", err)
	}

	if updated.Title != "Паровозик с вагонами" {
		t.Fatalf("expected title updated, got %q", updated.Title)
	}
	if updated.Category != domain.CategoryGames {
		t.Fatalf("expected category updated, got %v", updated.Category)
	}
	// Незаполненные поля не меняются
	if updated.Condition != domain.ConditionUsed {
		t.Fatalf("expected condition preserved, got %v", updated.Condition)
	}
	if stored := ads.ads[created.ID]; stored.Title != "Паровозик с вагонами" {
		t.Fatalf("expected update persisted, got %q", stored.Title)
	}
}

func TestUpdateAdAuthorization(t *testing.T) {
	service, _, _, _ := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	_, err = service.UpdateAd(context.Background(), created.ID, uuid.New(), UpdateAdInput{Title: "Чужое"})
	if !apperr.IsCode(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestUpdateAdVersionConflict(t *testing.T) {
	service, ads, _, _ := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	ads.updateErr = storage.ErrVersionConflict

	_, err = service.UpdateAd(context.Background(), created.ID, owner, UpdateAdInput{Title: "Новое"})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteAd(t *testing.T) {
	service, ads, _, images := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used", ImageURL: "ads/abc123",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	deleted, err := service.DeleteAd(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("delete ad: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	if _, ok := ads.ads[created.ID]; ok {
		t.Fatal("expected ad removed")
	}
	if len(images.destroyed) != 1 || images.destroyed[0] != "ads/abc123" {
		t.Fatalf("expected image destroyed, got %v", images.destroyed)
	}
}

func TestDeleteAdBlockedByPendingExchange(t *testing.T) {
	service, ads, exchanges, _ := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	exchanges.pendingForAd = created.ID

	_, err = service.DeleteAd(context.Background(), created.ID, owner)
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok := ads.ads[created.ID]; !ok {
		t.Fatal("expected ad still in store")
	}
}

func TestDeleteAdAuthorization(t *testing.T) {
	service, _, _, _ := newAdService(t)
	owner := uuid.New()

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	_, err = service.DeleteAd(context.Background(), created.ID, uuid.New())
	if !apperr.IsCode(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestDeleteAdImageFailureNotFatal(t *testing.T) {
	service, _, _, images := newAdService(t)
	owner := uuid.New()
	images.err = errors.New("хранилище недоступно")

	created, err := service.CreateAd(context.Background(), owner, CreateAdInput{
		Title: "Паровозик", Category: "toys", Condition: "used", ImageURL: "ads/abc123",
	})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}

	deleted, err := service.DeleteAd(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("expected image failure swallowed, got %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
}

func TestGetAdNotFound(t *testing.T) {
	service, _, _, _ := newAdService(t)

	_, err := service.GetAd(context.Background(), uuid.New())
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListAds(t *testing.T) {
	service, ads, _, _ := newAdService(t)
	ads.searchTotal = 45

	page, err := service.ListAds(context.Background(), storage.AdFilter{
		Category: "toys",
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("list ads: %v", err)
	}

	if page.TotalItems != 45 {
		t.Fatalf("expected 45 items, got %d", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}
	if ads.lastFilter.Page != 1 {
		t.Fatalf("expected default page 1, got %d", ads.lastFilter.Page)
	}
	// Пустой результат остается пустым списком, а не ошибкой
	if page.Ads != nil && len(page.Ads) != 0 {
		t.Fatalf("expected empty result, got %d ads", len(page.Ads))
	}
}

func TestListAdsDefaults(t *testing.T) {
	service, ads, _, _ := newAdService(t)

	if _, err := service.ListAds(context.Background(), storage.AdFilter{}); err != nil {
		t.Fatalf("list ads: %v", err)
	}

	if ads.lastFilter.Page != 1 || ads.lastFilter.PageSize != 20 {
		t.Fatalf("expected defaults page=1 size=20, got page=%d size=%d", ads.lastFilter.Page, ads.lastFilter.PageSize)
	}
}

func TestListAdsFilterValidation(t *testing.T) {
	tests := []struct {
		name   string
		filter storage.AdFilter
	}{
		{name: "unknown category", filter: storage.AdFilter{Category: "furniture"}},
		{name: "unknown condition", filter: storage.AdFilter{Condition: "broken"}},
		{name: "unknown status", filter: storage.AdFilter{Status: "sold"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _ := newAdService(t)

			_, err := service.ListAds(context.Background(), tt.filter)
			if !apperr.IsCode(err, apperr.CodeInvalidInput) {
				t.Fatalf("expected invalid_input, got %v", err)
			}
		})
	}
}
