package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/shakhawatmollah/paypal-rest-api/internal/adapter/primary/http"
	"github.com/shakhawatmollah/paypal-rest-api/internal/adapter/secondary/database"
	"github.com/shakhawatmollah/paypal-rest-api/internal/adapter/secondary/messaging"
	"github.com/shakhawatmollah/paypal-rest-api/internal/adapter/secondary/paypal"
	"github.com/shakhawatmollah/paypal-rest-api/internal/config"
	"github.com/shakhawatmollah/paypal-rest-api/internal/constant/model/db"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core/service"
	"github.com/shakhawatmollah/paypal-rest-api/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Ledger, Messaging, Processor client
	ledgerRepo := database.NewGormLedgerRepository(dbConn.DB)
	msgClient, err := messaging.NewRabbitMQClient(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()
	processorClient := paypal.NewClient(cfg.PayPal)

	// Initialize core services (implement input ports)
	checkoutService := service.NewCheckoutService(processorClient, ledgerRepo, msgClient)
	webhookReconciler := service.NewWebhookReconciler(processorClient, ledgerRepo, msgClient)

	// Initialize primary adapters: HTTP handlers (use input ports)
	paypalHandler := handlers.NewPayPalHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(webhookReconciler)

	metrics.Register()

	// Initialize Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes
	api := e.Group("/api/paypal")
	api.POST("/create-order", paypalHandler.CreateOrder)
	api.POST("/capture-order/:orderId", paypalHandler.CaptureOrder)
	api.POST("/refund/:captureId", paypalHandler.RefundCapture)
	api.GET("/paypal/success", paypalHandler.Success)
	api.GET("/paypal/cancel", paypalHandler.Cancel)
	api.POST("/webhook", webhookHandler.HandleWebhook)

	// Health check and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API server on %s (paypal mode: %s)", addr, cfg.PayPal.Mode)
	if err := e.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
