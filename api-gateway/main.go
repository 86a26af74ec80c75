package main

import (
	"log"
	"net/http"
	"time"

	"homecafe/api-gateway/internal/gateway"
	"homecafe/config"

	"github.com/rs/cors"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL: settings.OrderSvcURL,
		StatsSvcURL: settings.StatsSvcURL,
	}, &http.Client{Timeout: 15 * time.Second})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Webhook-Secret"},
	})
	handler := c.Handler(gw.SetupRoutes())

	log.Printf("API Gateway starting on %s", settings.GatewayHTTPAddr)
	log.Fatal(http.ListenAndServe(settings.GatewayHTTPAddr, handler))
}
