package handlers

import (
	"ShardStore/domain"
	"ShardStore/internal/api/presenters"
	"ShardStore/pkg/purchase"
	"ShardStore/pkg/refund"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type (
	AdminHandler interface {
		RefundPurchase(c *fiber.Ctx) error
		RetryDelivery(c *fiber.Ctx) error
		GetPendingDeliveries(c *fiber.Ctx) error
	}

	adminHandler struct {
		purchaseService purchase.PurchaseService
		refundService   refund.RefundService
	}
)

func NewAdminHandler(purchaseService purchase.PurchaseService, refundService refund.RefundService) AdminHandler {
	return &adminHandler{
		purchaseService: purchaseService,
		refundService:   refundService,
	}
}

func (h *adminHandler) RefundPurchase(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uint32)
	purchaseID := c.Params("id")
	adminID := fmt.Sprintf("%d", accountID)

	resp, err := h.refundService.RefundAsAdmin(c.Context(), purchaseID, adminID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedRefund, publicError(err))
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessRefund)
}

func (h *adminHandler) RetryDelivery(c *fiber.Ctx) error {
	purchaseID := c.Params("id")

	resp, err := h.purchaseService.RetryDelivery(c.Context(), purchaseID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedRetryDelivery, publicError(err))
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessRetryDelivery)
}

func (h *adminHandler) GetPendingDeliveries(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	purchases, count, err := h.purchaseService.ListPendingDeliveries(c.Context(), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetPending, publicError(err))
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"purchases": purchases,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetPending)
}
