package handlers

import (
	"ShardStore/domain"
	"ShardStore/internal/api/presenters"
	"ShardStore/pkg/catalog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type (
	StoreHandler interface {
		GetStoreItems(c *fiber.Ctx) error
		GetBalance(c *fiber.Ctx) error
	}

	storeHandler struct {
		catalogService catalog.CatalogService
	}
)

func NewStoreHandler(catalogService catalog.CatalogService) StoreHandler {
	return &storeHandler{
		catalogService: catalogService,
	}
}

func (h *storeHandler) GetStoreItems(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	category := c.Query("category", "")

	items, count, err := h.catalogService.ListItems(c.Context(), category, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetItems, publicError(err))
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *storeHandler) GetBalance(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uint32)

	balance, err := h.catalogService.GetBalance(c.Context(), accountID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetBalance, publicError(err))
	}

	return presenters.SuccessResponse(c, balance, fiber.StatusOK, domain.MessageSuccessGetBalance)
}
