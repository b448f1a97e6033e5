package handlers

import (
	"ShardStore/domain"
	"ShardStore/internal/api/presenters"
	"ShardStore/pkg/refund"

	"github.com/gofiber/fiber/v2"
)

type (
	RefundHandler interface {
		RefundPurchase(c *fiber.Ctx) error
	}

	refundHandler struct {
		refundService refund.RefundService
	}
)

func NewRefundHandler(refundService refund.RefundService) RefundHandler {
	return &refundHandler{
		refundService: refundService,
	}
}

func (h *refundHandler) RefundPurchase(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uint32)
	purchaseID := c.Params("id")

	resp, err := h.refundService.Refund(c.Context(), purchaseID, accountID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedRefund, publicError(err))
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessRefund)
}
