package ad

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/db"
	"github.com/rajivgeraev/barter-api/internal/storage"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

// Handler обрабатывает HTTP-запросы к API объявлений
type Handler struct {
	service    *Service
	jwtService *utils.JWTService
}

// NewHandler создает обработчик API объявлений
func NewHandler(service *Service, jwtService *utils.JWTService) *Handler {
	return &Handler{service: service, jwtService: jwtService}
}

type adRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
}

// CreateAd обрабатывает создание нового объявления
func (h *Handler) CreateAd(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var requestData adRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	created, err := h.service.CreateAd(ctx, userID, CreateAdInput{
		Title:       requestData.Title,
		Description: requestData.Description,
		ImageURL:    requestData.ImageURL,
		Category:    requestData.Category,
		Condition:   requestData.Condition,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"ad":      created,
	})
}

// UpdateAd обрабатывает обновление объявления
func (h *Handler) UpdateAd(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	var requestData adRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	updated, err := h.service.UpdateAd(ctx, adID, userID, UpdateAdInput{
		Title:       requestData.Title,
		Description: requestData.Description,
		ImageURL:    requestData.ImageURL,
		Category:    requestData.Category,
		Condition:   requestData.Condition,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ad":      updated,
	})
}

// DeleteAd обрабатывает удаление объявления
func (h *Handler) DeleteAd(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	deleted, err := h.service.DeleteAd(ctx, adID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": deleted})
}

// GetAd возвращает объявление по ID
func (h *Handler) GetAd(c fiber.Ctx) error {
	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	found, err := h.service.GetAd(ctx, adID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(found)
}

// GetMyAds возвращает объявления текущего пользователя
func (h *Handler) GetMyAds(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, err := h.service.GetUserAds(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ads": ads, "count": len(ads)})
}

// ListAds возвращает страницу объявлений с фильтрами
func (h *Handler) ListAds(c fiber.Ctx) error {
	filter := storage.AdFilter{
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
		Status:    c.Query("status"),
		Keyword:   c.Query("keyword"),
	}

	if userParam := c.Query("user_id"); userParam != "" {
		userID, err := uuid.Parse(userParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
		}
		filter.UserID = userID
	}

	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size", "20"))

	ctx, cancel := db.GetContext()
	defer cancel()

	page, err := h.service.ListAds(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// respondError отображает ошибку приложения в HTTP-ответ
func respondError(c fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	if status >= 500 {
		log.Printf("Внутренняя ошибка: %v", err)
		return c.Status(status).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
