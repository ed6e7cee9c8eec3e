// Package authz содержит чистые проверки прав доступа над уже загруженными
// сущностями. Функции не обращаются к хранилищу.
package authz

import (
	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/domain"
)

// RequireOwner проверяет, что пользователь владеет объявлением
func RequireOwner(ad *domain.Ad, userID uuid.UUID) error {
	if !ad.IsOwner(userID) {
		return apperr.PermissionDenied("вы не являетесь владельцем объявления %s", ad.ID)
	}
	return nil
}

// RequireActiveAd проверяет, что объявление активно
func RequireActiveAd(ad *domain.Ad) error {
	if !ad.IsActive() {
		return apperr.PermissionDenied("объявление %s не активно", ad.ID)
	}
	return nil
}

// RequireParticipant проверяет, что пользователь владеет одним из объявлений обмена
func RequireParticipant(adSender, adReceiver *domain.Ad, userID uuid.UUID) error {
	if !adSender.IsOwner(userID) && !adReceiver.IsOwner(userID) {
		return apperr.PermissionDenied("у вас нет доступа к этому обмену")
	}
	return nil
}
