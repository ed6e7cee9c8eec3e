package exchange

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (h *Handler) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/exchanges")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(h.jwtService))

	// Маршрут для создания предложения обмена
	api.Post("/", h.CreateProposal)

	// Маршрут для получения списка предложений обмена пользователя
	api.Get("/", h.ListMyProposals)

	// Маршруты для выборок по объявлениям
	api.Get("/sender/:adId", h.ListBySenderAd)
	api.Get("/receiver/:adId", h.ListByReceiverAd)

	// Маршруты для одного предложения
	api.Get("/:id", h.GetExchange)
	api.Get("/:id/view", h.GetProposalView)

	// Маршрут для обновления статуса предложения обмена
	api.Put("/:id/status", h.UpdateStatus)

	// Маршрут для отмены предложения обмена
	api.Delete("/:id", h.DeleteExchange)
}
