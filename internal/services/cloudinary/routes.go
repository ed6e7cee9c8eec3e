package cloudinary

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	// Защищенные маршруты
	protected := app.Group("/api/upload")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения параметров загрузки
	protected.Get("/params", s.GenerateUploadParams)
}
