package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseItemCategory(t *testing.T) {
	tests := []struct {
		value   string
		want    ItemCategory
		invalid bool
	}{
		{value: "electronics", want: CategoryElectronics},
		{value: "clothes", want: CategoryClothes},
		{value: "toys", want: CategoryToys},
		{value: "books", want: CategoryBooks},
		{value: "games", want: CategoryGames},
		{value: "cars", want: CategoryCars},
		{value: "home", want: CategoryHome},
		{value: "other", want: CategoryOther},
		{value: "furniture", invalid: true},
		{value: "", invalid: true},
		{value: "ELECTRONICS", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseItemCategory(tt.value)
			if tt.invalid {
				var enumErr *InvalidEnumError
				if !errors.As(err, &enumErr) {
					t.Fatalf("expected InvalidEnumError, got %v", err)
				}
				if enumErr.Value != tt.value {
					t.Fatalf("expected value %q in error, got %q", tt.value, enumErr.Value)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse category: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseItemCondition(t *testing.T) {
	if _, err := ParseItemCondition("new"); err != nil {
		t.Fatalf("parse new: %v", err)
	}
	if _, err := ParseItemCondition("used"); err != nil {
		t.Fatalf("parse used: %v", err)
	}

	var enumErr *InvalidEnumError
	if _, err := ParseItemCondition("broken"); !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumError, got %v", err)
	}
}

func TestParseItemStatus(t *testing.T) {
	for _, value := range []string{"active", "traded", "archived"} {
		if _, err := ParseItemStatus(value); err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
	}

	var enumErr *InvalidEnumError
	if _, err := ParseItemStatus("sold"); !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumError, got %v", err)
	}
}

func TestNewAd(t *testing.T) {
	fixedTime := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()

	ad, err := NewAd(ownerID, "Велосипед", "Горный, 21 скорость", "", CategoryOther, ConditionUsed, fixedTime)
	if err != nil {
		t.Fatalf("new ad: %v", err)
	}

	if ad.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if ad.Status != ItemStatusActive {
		t.Fatalf("expected active status, got %v", ad.Status)
	}
	if !ad.IsOwner(ownerID) {
		t.Fatal("expected owner check to pass")
	}
	if ad.IsOwner(uuid.New()) {
		t.Fatal("expected owner check to fail for another user")
	}
	if !ad.CreatedAt.Equal(fixedTime) || !ad.UpdatedAt.Equal(fixedTime) {
		t.Fatal("expected timestamps to match fixed time")
	}
}

func TestMarkTraded(t *testing.T) {
	fixedTime := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ad, err := NewAd(uuid.New(), "Книга", "", "", CategoryBooks, ConditionNew, fixedTime)
	if err != nil {
		t.Fatalf("new ad: %v", err)
	}

	later := fixedTime.Add(time.Hour)
	if err := ad.MarkTraded(later); err != nil {
		t.Fatalf("mark traded: %v", err)
	}
	if ad.Status != ItemStatusTraded {
		t.Fatalf("expected traded status, got %v", ad.Status)
	}
	if !ad.UpdatedAt.Equal(later) {
		t.Fatal("expected updated_at to advance")
	}

	// Повторная попытка отклоняется
	if err := ad.MarkTraded(later.Add(time.Hour)); !errors.Is(err, ErrAdAlreadyTraded) {
		t.Fatalf("expected ErrAdAlreadyTraded, got %v", err)
	}
}

func TestApplyUpdateKeepsStatus(t *testing.T) {
	fixedTime := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ad, err := NewAd(uuid.New(), "Плеер", "старый", "", CategoryElectronics, ConditionUsed, fixedTime)
	if err != nil {
		t.Fatalf("new ad: %v", err)
	}
	if err := ad.MarkTraded(fixedTime); err != nil {
		t.Fatalf("mark traded: %v", err)
	}

	ad.ApplyUpdate("Плеер Sony", "", "", CategoryElectronics, ConditionNew, fixedTime.Add(time.Hour))

	if ad.Title != "Плеер Sony" {
		t.Fatalf("expected updated title, got %q", ad.Title)
	}
	if ad.Description != "старый" {
		t.Fatalf("expected description preserved, got %q", ad.Description)
	}
	if ad.Condition != ConditionNew {
		t.Fatalf("expected updated condition, got %v", ad.Condition)
	}
	if ad.Status != ItemStatusTraded {
		t.Fatalf("expected status untouched by content update, got %v", ad.Status)
	}
}
