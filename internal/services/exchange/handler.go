package exchange

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barter-api/internal/apperr"
	"github.com/rajivgeraev/barter-api/internal/db"
	"github.com/rajivgeraev/barter-api/internal/domain"
	"github.com/rajivgeraev/barter-api/internal/utils"
)

// Handler обрабатывает HTTP-запросы к API обменов
type Handler struct {
	service    *Service
	jwtService *utils.JWTService
}

// NewHandler создает обработчик API обменов
func NewHandler(service *Service, jwtService *utils.JWTService) *Handler {
	return &Handler{service: service, jwtService: jwtService}
}

// CreateProposal создает новое предложение обмена
func (h *Handler) CreateProposal(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var requestData struct {
		AdSenderID   string `json:"ad_sender_id"`
		AdReceiverID string `json:"ad_receiver_id"`
		Comment      string `json:"comment"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	adSenderID, err := uuid.Parse(requestData.AdSenderID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления отправителя"})
	}

	adReceiverID, err := uuid.Parse(requestData.AdReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления получателя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exchange, err := h.service.CreateProposal(ctx, userID, CreateProposalInput{
		AdSenderID:   adSenderID,
		AdReceiverID: adReceiverID,
		Comment:      requestData.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"exchange": exchange,
	})
}

// GetExchange возвращает предложение обмена по ID
func (h *Handler) GetExchange(c fiber.Ctx) error {
	exchangeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exchange, err := h.service.GetExchange(ctx, exchangeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exchange)
}

// GetProposalView возвращает денормализованное представление обмена
func (h *Handler) GetProposalView(c fiber.Ctx) error {
	exchangeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	view, err := h.service.GetProposalView(ctx, exchangeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ListMyProposals возвращает предложения обмена текущего пользователя.
// При ?view=full отдает денормализованные представления.
func (h *Handler) ListMyProposals(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	if c.Query("view") == "full" {
		views, err := h.service.ListUserProposalViews(ctx, userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"exchanges": views, "count": len(views)})
	}

	exchanges, err := h.service.ListUserProposals(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"exchanges": exchanges, "count": len(exchanges)})
}

// ListBySenderAd возвращает предложения по объявлению-отправителю
func (h *Handler) ListBySenderAd(c fiber.Ctx) error {
	return h.listByAd(c, h.service.ListBySenderAd)
}

// ListByReceiverAd возвращает предложения по объявлению-получателю
func (h *Handler) ListByReceiverAd(c fiber.Ctx) error {
	return h.listByAd(c, h.service.ListByReceiverAd)
}

// UpdateStatus принимает или отклоняет предложение обмена
func (h *Handler) UpdateStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	exchangeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	var requestData struct {
		Status string `json:"status"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	status, err := domain.ParseExchangeStatus(requestData.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exchange, err := h.service.UpdateProposalStatus(ctx, exchangeID, userID, status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"exchange": exchange,
	})
}

// DeleteExchange отменяет ожидающее предложение обмена
func (h *Handler) DeleteExchange(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	exchangeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	deleted, err := h.service.DeleteExchange(ctx, exchangeID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": deleted})
}

func (h *Handler) listByAd(c fiber.Ctx, list func(ctx context.Context, adID uuid.UUID) ([]domain.Exchange, error)) error {
	adID, err := uuid.Parse(c.Params("adId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exchanges, err := list(ctx, adID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"exchanges": exchanges, "count": len(exchanges)})
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
