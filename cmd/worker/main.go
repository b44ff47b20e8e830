package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shakhawatmollah/paypal-rest-api/internal/adapter/secondary/messaging"
	"github.com/shakhawatmollah/paypal-rest-api/internal/config"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClientConcrete(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()

	// Start consuming recorded payment events. This is the merchant-side
	// notification hook: fulfilment, receipts and bookkeeping attach here.
	err = msgClient.ConsumePaymentEvents(func(msg messaging.PaymentEventMessage) error {
		switch msg.Kind {
		case core.PaymentEventCaptureRecorded:
			log.Printf("Capture recorded: capture=%s order=%s %.2f %s",
				msg.CaptureID, msg.OrderID, msg.Amount, msg.Currency)
		case core.PaymentEventRefundRecorded:
			log.Printf("Refund recorded: refund=%s capture=%s %.2f %s",
				msg.RefundID, msg.CaptureID, msg.Amount, msg.Currency)
		default:
			log.Printf("Unknown payment event kind %q (event %s)", msg.Kind, msg.EventID)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to start consuming messages: %v", err)
	}

	log.Println("Payment event worker started. Press CTRL+C to exit.")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
}
