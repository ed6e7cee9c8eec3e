package ad

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API объявлений
func (h *Handler) SetupRoutes(app *fiber.App) {
	// Группа для API объявлений
	api := app.Group("/api/ads")

	// Публичный маршрут поиска объявлений
	api.Get("/", h.ListAds)

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(h.jwtService))

	api.Post("/", h.CreateAd)
	api.Get("/my", h.GetMyAds)
	api.Get("/:id", h.GetAd)
	api.Put("/:id", h.UpdateAd)
	api.Delete("/:id", h.DeleteAd)
}
