package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stockdesk/internal/export"
	"go-stockdesk/internal/handler"
	"go-stockdesk/internal/model"
	"go-stockdesk/internal/repository"
	"go-stockdesk/internal/service"
	"go-stockdesk/internal/ws"
	"go-stockdesk/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 3. Select the store backend. The file store is an explicit alternate
	// adapter behind the same interface, not a runtime-sniffed fallback.
	var (
		invService  service.InventoryService
		dashService service.DashboardService
	)
	if os.Getenv("STORE_DRIVER") == "file" {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		fileStore, err := service.NewFallbackService(dataDir, wsHub)
		if err != nil {
			log.Fatal("Failed to open file store: ", err)
		}
		invService = fileStore
		dashService = service.NewFallbackDashboard(fileStore)
	} else {
		db := database.ConnectDB()
		// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
		if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.TxItem{}); err != nil {
			log.Fatal("Failed to migrate database: ", err)
		}

		productRepo := repository.NewProductRepo(db)
		txRepo := repository.NewTransactionRepo(db)
		invService = service.NewInventoryService(productRepo, txRepo, db, wsHub)
		dashService = service.NewDashboardService(txRepo)
	}

	// 4. Billing pipeline (renderer + print-to-file writer)
	billsDir := os.Getenv("BILLS_DIR")
	if billsDir == "" {
		billsDir = "bills"
	}
	billingService := service.NewBillingService(invService, export.NewInvoiceWriter(billsDir))

	// 5. Dependency Injection (Wiring Layers)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)
	invoiceHandler := handler.NewInvoiceHandler(billingService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "StockDesk v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// Product Routes
	api.Get("/products", invHandler.GetProducts)
	api.Post("/products", invHandler.CreateProduct)
	api.Put("/products/:id", invHandler.UpdateProduct)
	api.Delete("/products/:id", invHandler.DeleteProduct)
	api.Get("/products/export", invHandler.ExportProducts)

	// Transaction Routes
	api.Get("/transactions", invHandler.GetTransactions)
	api.Get("/transactions/:id", invHandler.GetTransaction)
	api.Post("/transactions", invHandler.CreateTransaction)

	// Dashboard Routes
	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// Invoice Routes
	api.Post("/invoices", invoiceHandler.GenerateInvoice)
	api.Post("/invoices/preview", invoiceHandler.PreviewInvoice)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
