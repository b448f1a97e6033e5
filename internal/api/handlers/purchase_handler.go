package handlers

import (
	"ShardStore/domain"
	"ShardStore/internal/api/presenters"
	"ShardStore/pkg/purchase"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PurchaseHandler interface {
		Purchase(c *fiber.Ctx) error
		GetPurchaseHistory(c *fiber.Ctx) error
	}

	purchaseHandler struct {
		purchaseService purchase.PurchaseService
		validator       *validator.Validate
	}
)

func NewPurchaseHandler(purchaseService purchase.PurchaseService, validator *validator.Validate) PurchaseHandler {
	return &purchaseHandler{
		purchaseService: purchaseService,
		validator:       validator,
	}
}

func (h *purchaseHandler) Purchase(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uint32)

	req := new(domain.PurchaseRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPurchase, err)
	}

	resp, err := h.purchaseService.Purchase(c.Context(), *req, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedPurchase, publicError(err))
	}

	message := domain.MessageSuccessPurchase
	if resp.DeliveryPending {
		message = domain.MessageSuccessPurchasePending
	}
	return presenters.SuccessResponse(c, resp, fiber.StatusOK, message)
}

func (h *purchaseHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uint32)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	purchases, count, err := h.purchaseService.History(c.Context(), accountID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetPurchaseHistory, publicError(err))
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"purchases": purchases,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetPurchaseHistory)
}
