package main

import (
	"context"
	"errors"
	"log"

	"homecafe/config"
	httpapi "homecafe/order-svc/internal/api/http"
	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/service"
	"homecafe/order-svc/internal/storage"
)

func loadCatalog(path string) *domain.Catalog {
	if path == "" {
		return domain.DefaultCatalog()
	}
	catalog, err := domain.LoadCatalog(path)
	if err != nil {
		log.Fatal("Failed to load menu:", err)
	}
	log.Printf("Loaded menu from %s", path)
	return catalog
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := settings.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingWebhookSecret) {
			log.Fatal("Error: WEBHOOK_SECRET not found. Set it in the environment or in .env")
		}
		log.Fatal(err)
	}

	ctx := context.Background()
	catalog := loadCatalog(settings.MenuFile)

	orders, closeStore, err := storage.OpenOrderStore(ctx, settings)
	if err != nil {
		log.Fatal("Failed to open order store:", err)
	}
	defer closeStore()

	var (
		messenger service.Messenger = storage.LogMessenger{}
		events    service.EventPublisher
	)
	if settings.KafkaBroker != "" {
		outbound := config.NewKafkaWriter(settings, settings.OutboundTopic)
		defer outbound.Close()
		messenger = storage.NewKafkaMessenger(outbound)

		eventWriter := config.NewKafkaWriter(settings, settings.OrderEventsTopic)
		defer eventWriter.Close()
		events = storage.NewKafkaEventPublisher(eventWriter)
	} else {
		log.Println("Warning: KAFKA_BROKER not set, chat replies go to the log and order events are not published")
	}

	payment := service.NewPaymentQR(settings.PaymentQRFile, settings.PayNowPayload, settings.QRCacheDir)
	if settings.StaffChatID == 0 {
		log.Println("Warning: STAFF_CHAT_ID not set, barista notifications and staff commands are disabled")
	}

	conversation := service.NewConversationService(catalog, storage.NewMemorySessionStore(), orders, messenger, payment, events, settings.StaffChatID)
	fulfillment := service.NewFulfillmentService(orders, messenger, events)
	staff := service.NewStaffDesk(fulfillment, messenger, settings.StaffChatID, settings.PendingLimit, settings.RecentLimit)
	dispatcher := service.NewDispatcher(conversation, staff)

	handler := httpapi.NewHandler(dispatcher, fulfillment, settings.WebhookSecret)
	handler.RecentLimit = settings.RecentLimit
	handler.PendingLimit = settings.PendingLimit

	log.Printf("Order store backend: %s", settings.StoreBackend)
	httpapi.StartServer(settings.HTTPAddr, httpapi.NewRouter(handler))
}
