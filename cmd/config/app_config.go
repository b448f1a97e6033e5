package config

import (
	"ShardStore/internal/api/handlers"
	"ShardStore/internal/api/routes"
	"ShardStore/internal/middleware"
	"ShardStore/internal/utils"
	"ShardStore/pkg/audit"
	"ShardStore/pkg/catalog"
	"ShardStore/pkg/character"
	"ShardStore/pkg/delivery"
	"ShardStore/pkg/jwt"
	"ShardStore/pkg/ledger"
	"ShardStore/pkg/purchase"
	"ShardStore/pkg/refund"
	"ShardStore/pkg/worlditem"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, charDB *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// game server command channel
	soapTimeout := time.Duration(utils.GetSoapTimeoutSeconds()) * time.Second
	commandClient := delivery.NewSoapClient(
		utils.GetConfig("SOAP_URL"),
		utils.GetConfig("SOAP_USER"),
		utils.GetConfig("SOAP_PASSWORD"),
		soapTimeout,
	)

	// Repository
	ledgerRepository := ledger.NewLedgerRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	purchaseRepository := purchase.NewPurchaseRepository(db, ledgerRepository)
	characterRepository := character.NewCharacterRepository(charDB)
	itemLocator := worlditem.NewItemLocator(charDB)

	// Service
	jwtService := jwt.NewJWTService()
	dispatcher := delivery.NewDispatcher(commandClient, itemLocator)
	auditService := audit.NewAuditService(db)
	catalogService := catalog.NewCatalogService(catalogRepository, ledgerRepository)
	purchaseService := purchase.NewPurchaseService(
		purchaseRepository,
		catalogRepository,
		characterRepository,
		dispatcher,
	)
	refundService := refund.NewRefundService(
		purchaseRepository,
		catalogRepository,
		characterRepository,
		itemLocator,
		auditService,
	)

	// Handler
	storeHandler := handlers.NewStoreHandler(catalogService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, validator)
	refundHandler := handlers.NewRefundHandler(refundService)
	adminHandler := handlers.NewAdminHandler(purchaseService, refundService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		StoreHandler:    storeHandler,
		PurchaseHandler: purchaseHandler,
		RefundHandler:   refundHandler,
		AdminHandler:    adminHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
