package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/barter-api/internal/config"
	"github.com/rajivgeraev/barter-api/internal/db"
	adservice "github.com/rajivgeraev/barter-api/internal/services/ad"
	"github.com/rajivgeraev/barter-api/internal/services/auth"
	"github.com/rajivgeraev/barter-api/internal/services/cloudinary"
	"github.com/rajivgeraev/barter-api/internal/services/exchange"
	"github.com/rajivgeraev/barter-api/internal/storage"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	pool, err := db.NewPool(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer pool.Close()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Barter API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём хранилища
	jwtService := utils.NewJWTService(cfg.JWTSecret)
	userStore := storage.NewUserStore(pool)
	adStore := storage.NewAdStore(pool)
	exchangeStore := storage.NewExchangeStore(pool)
	uow := storage.NewUnitOfWork(pool)

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, userStore, jwtService)

	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg, jwtService)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации Cloudinary: %v", err)
	}

	adService := adservice.NewService(adStore, exchangeStore, cloudinaryService)
	exchangeService := exchange.NewService(uow, exchangeStore, adStore)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)
	adservice.NewHandler(adService, jwtService).SetupRoutes(app)
	exchange.NewHandler(exchangeService, jwtService).SetupRoutes(app)

	// Запускаем сервер
	log.Printf("✅ Barter API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
