package service

import (
	"context"

	"homecafe/stats-svc/internal/domain"
	"homecafe/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	UnmarkProcessed(ctx context.Context, eventID string) error
	RecordPlaced(ctx context.Context, event domain.OrderEvent) error
	RecordReady(ctx context.Context, event domain.OrderEvent) error
	Daily(ctx context.Context, date string, top int) (domain.DailyStats, error)
}

// MessageReader is the part of *kafka.Reader the consumer uses. Offsets are
// committed explicitly.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ StoreInterface    = (*storage.StatsStore)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
