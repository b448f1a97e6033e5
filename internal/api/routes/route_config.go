package routes

import (
	"ShardStore/internal/api/handlers"
	"ShardStore/internal/middleware"
	"ShardStore/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	StoreHandler    handlers.StoreHandler
	PurchaseHandler handlers.PurchaseHandler
	RefundHandler   handlers.RefundHandler
	AdminHandler    handlers.AdminHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Store()
	c.Admin()
	c.GuestRoute()
}

func (c *Config) Store() {
	store := c.App.Group("/api/v1/store")
	// store routes
	{
		store.Get("/items", c.StoreHandler.GetStoreItems)
		store.Get("/balance", c.Middleware.AuthMiddleware(c.JWTService), c.StoreHandler.GetBalance)
		store.Post("/purchase", c.Middleware.AuthMiddleware(c.JWTService), c.PurchaseHandler.Purchase)
		store.Get("/purchases", c.Middleware.AuthMiddleware(c.JWTService), c.PurchaseHandler.GetPurchaseHistory)
		store.Post("/purchases/:id/refund", c.Middleware.AuthMiddleware(c.JWTService), c.RefundHandler.RefundPurchase)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group(
		"/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.AdminMiddleware(),
	)
	{
		admin.Get("/purchases/pending", c.AdminHandler.GetPendingDeliveries)
		admin.Post("/purchases/:id/retry", c.AdminHandler.RetryDelivery)
		admin.Post("/purchases/:id/refund", c.AdminHandler.RefundPurchase)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works. test"})
	})
}
