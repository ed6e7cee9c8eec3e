package authz

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/domain"
)

func newTestAd(t *testing.T, ownerID uuid.UUID) *domain.Ad {
	t.Helper()
	ad, err := domain.NewAd(ownerID, "Лампа", "", "", domain.CategoryHome, domain.ConditionUsed, time.Now())
	if err != nil {
		t.Fatalf("new ad: %v", err)
	}
	return ad
}

func TestRequireOwner(t *testing.T) {
	ownerID := uuid.New()
	ad := newTestAd(t, ownerID)

	if err := RequireOwner(ad, ownerID); err != nil {
		t.Fatalf("expected owner to pass, got %v", err)
	}

	err := RequireOwner(ad, uuid.New())
	if !apperr.IsCode(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestRequireActiveAd(t *testing.T) {
	ad := newTestAd(t, uuid.New())

	if err := RequireActiveAd(ad); err != nil {
		t.Fatalf("expected active ad to pass, got %v", err)
	}

	if err := ad.MarkTraded(time.Now()); err != nil {
		t.Fatalf("mark traded: %v", err)
	}
	err := RequireActiveAd(ad)
	if !apperr.IsCode(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestRequireParticipant(t *testing.T) {
	senderOwner := uuid.New()
	receiverOwner := uuid.New()
	adSender := newTestAd(t, senderOwner)
	adReceiver := newTestAd(t, receiverOwner)

	if err := RequireParticipant(adSender, adReceiver, senderOwner); err != nil {
		t.Fatalf("expected sender owner to pass, got %v", err)
	}
	if err := RequireParticipant(adSender, adReceiver, receiverOwner); err != nil {
		t.Fatalf("expected receiver owner to pass, got %v", err)
	}

	err := RequireParticipant(adSender, adReceiver, uuid.New())
	if !apperr.IsCode(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}
