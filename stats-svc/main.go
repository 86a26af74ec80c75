package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"homecafe/config"
	httpapi "homecafe/stats-svc/internal/api/http"
	"homecafe/stats-svc/internal/service"
	"homecafe/stats-svc/internal/storage"

	"golang.org/x/sync/errgroup"
)

const statsTTL = 30 * 24 * time.Hour

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if settings.KafkaBroker == "" {
		log.Fatal("KAFKA_BROKER is not set")
	}

	rdb := config.MustInitRedis(settings)
	defer rdb.Close()

	reader := config.NewKafkaReader(settings, settings.OrderEventsTopic, "stats-svc-consumer")
	defer reader.Close()

	store := storage.NewStatsStore(rdb, statsTTL)
	consumer := service.NewConsumer(reader, store)
	server := &http.Server{
		Addr:    settings.StatsHTTPAddr,
		Handler: httpapi.NewRouter(httpapi.NewHandler(store)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(ctx)
	})
	g.Go(func() error {
		log.Printf("Stats Service starting on %s", settings.StatsHTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Stats Service stopped:", err)
	}
	log.Println("Stats Service stopped")
}
