package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvalidEnumError возвращается при разборе неизвестного значения перечисления
type InvalidEnumError struct {
	Enum  string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("недопустимое значение %q для %s", e.Value, e.Enum)
}

// ItemStatus представляет статус объявления
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusTraded   ItemStatus = "traded"
	ItemStatusArchived ItemStatus = "archived"
)

// ParseItemStatus разбирает статус объявления из строки
func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case ItemStatusActive:
		return ItemStatusActive, nil
	case ItemStatusTraded:
		return ItemStatusTraded, nil
	case ItemStatusArchived:
		return ItemStatusArchived, nil
	default:
		return "", &InvalidEnumError{Enum: "status", Value: s}
	}
}

func (s ItemStatus) String() string { return string(s) }

// ItemCategory представляет категорию объявления
type ItemCategory string

const (
	CategoryElectronics ItemCategory = "electronics"
	CategoryClothes     ItemCategory = "clothes"
	CategoryToys        ItemCategory = "toys"
	CategoryBooks       ItemCategory = "books"
	CategoryGames       ItemCategory = "games"
	CategoryCars        ItemCategory = "cars"
	CategoryHome        ItemCategory = "home"
	CategoryOther       ItemCategory = "other"
)

// ParseItemCategory разбирает категорию из строки
func ParseItemCategory(s string) (ItemCategory, error) {
	switch ItemCategory(s) {
	case CategoryElectronics, CategoryClothes, CategoryToys, CategoryBooks,
		CategoryGames, CategoryCars, CategoryHome, CategoryOther:
		return ItemCategory(s), nil
	default:
		return "", &InvalidEnumError{Enum: "category", Value: s}
	}
}

func (c ItemCategory) String() string { return string(c) }

// ItemCondition представляет состояние вещи
type ItemCondition string

const (
	ConditionNew  ItemCondition = "new"
	ConditionUsed ItemCondition = "used"
)

// ParseItemCondition разбирает состояние вещи из строки
func ParseItemCondition(s string) (ItemCondition, error) {
	switch ItemCondition(s) {
	case ConditionNew, ConditionUsed:
		return ItemCondition(s), nil
	default:
		return "", &InvalidEnumError{Enum: "condition", Value: s}
	}
}

func (c ItemCondition) String() string { return string(c) }

// ErrAdAlreadyTraded возвращается при повторной попытке пометить объявление обмененным
var ErrAdAlreadyTraded = errors.New("объявление уже обменено")

// Ad представляет объявление — вещь, выставленную на обмен
type Ad struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	OwnerUsername string
	Title         string
	Description   string
	ImageURL      string
	Category      ItemCategory
	Condition     ItemCondition
	Status        ItemStatus
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAd создает новое объявление со статусом active
func NewAd(userID uuid.UUID, title, description, imageURL string, category ItemCategory, condition ItemCondition, now time.Time) (*Ad, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации ID объявления: %w", err)
	}
	return &Ad{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Category:    category,
		Condition:   condition,
		Status:      ItemStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOwner проверяет, что пользователь является владельцем объявления
func (a *Ad) IsOwner(userID uuid.UUID) bool {
	return a.UserID == userID
}

// IsActive проверяет, что объявление активно
func (a *Ad) IsActive() bool {
	return a.Status == ItemStatusActive
}

// MarkTraded переводит объявление в статус traded.
// Вызывается только координатором обменов при принятии предложения.
func (a *Ad) MarkTraded(now time.Time) error {
	if a.Status == ItemStatusTraded {
		return ErrAdAlreadyTraded
	}
	a.Status = ItemStatusTraded
	a.UpdatedAt = now
	return nil
}

// ApplyUpdate обновляет контентные поля объявления. Статус этим путем
// не меняется: traded выставляет только координатор обменов.
func (a *Ad) ApplyUpdate(title, description, imageURL string, category ItemCategory, condition ItemCondition, now time.Time) {
	if title != "" {
		a.Title = title
	}
	if description != "" {
		a.Description = description
	}
	if imageURL != "" {
		a.ImageURL = imageURL
	}
	if category != "" {
		a.Category = category
	}
	if condition != "" {
		a.Condition = condition
	}
	a.UpdatedAt = now
}
