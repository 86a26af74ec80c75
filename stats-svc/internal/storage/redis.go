package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"homecafe/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// StatsStore keeps per-day counters in Redis:
//
//	stats:daily:<date>        hash: orders, ready, sales_cents
//	stats:daily:<date>:items  sorted set: variant -> times ordered
//	stats:event:<event id>    marker for events already counted
type StatsStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStatsStore(client *redis.Client, ttl time.Duration) *StatsStore {
	return &StatsStore{Client: client, TTL: ttl}
}

func dailyKey(date string) string {
	return "stats:daily:" + date
}

func itemsKey(date string) string {
	return "stats:daily:" + date + ":items"
}

func eventKey(eventID string) string {
	return "stats:event:" + eventID
}

// MarkProcessed records the event id and reports whether it was new.
// Events without an id are always treated as new.
func (s *StatsStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	return s.Client.SetNX(ctx, eventKey(eventID), "1", s.TTL).Result()
}

// UnmarkProcessed forgets an event id so a later delivery counts it.
func (s *StatsStore) UnmarkProcessed(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	return s.Client.Del(ctx, eventKey(eventID)).Err()
}

func (s *StatsStore) RecordPlaced(ctx context.Context, event domain.OrderEvent) error {
	cents := event.Total.Round(2).Shift(2).IntPart()
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := dailyKey(event.Date)
		pipe.HIncrBy(ctx, key, "orders", 1)
		pipe.HIncrBy(ctx, key, "sales_cents", cents)
		pipe.Expire(ctx, key, s.TTL)
		if len(event.Items) > 0 {
			for _, item := range event.Items {
				pipe.ZIncrBy(ctx, itemsKey(event.Date), 1, item.Variant)
			}
			pipe.Expire(ctx, itemsKey(event.Date), s.TTL)
		}
		return nil
	})
	return err
}

func (s *StatsStore) RecordReady(ctx context.Context, event domain.OrderEvent) error {
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, dailyKey(event.Date), "ready", 1)
		pipe.Expire(ctx, dailyKey(event.Date), s.TTL)
		return nil
	})
	return err
}

func (s *StatsStore) Daily(ctx context.Context, date string, top int) (domain.DailyStats, error) {
	stats := domain.DailyStats{Date: date, Sales: "$0.00", TopItems: []domain.ItemCount{}}

	fields, err := s.Client.HGetAll(ctx, dailyKey(date)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.DailyStats{}, err
	}
	stats.Orders, _ = strconv.ParseInt(fields["orders"], 10, 64)
	stats.Ready, _ = strconv.ParseInt(fields["ready"], 10, 64)
	cents, _ := strconv.ParseInt(fields["sales_cents"], 10, 64)
	stats.Sales = "$" + decimal.New(cents, -2).StringFixed(2)

	if top <= 0 {
		return stats, nil
	}
	items, err := s.Client.ZRevRangeWithScores(ctx, itemsKey(date), 0, int64(top-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.DailyStats{}, err
	}
	for _, z := range items {
		name, _ := z.Member.(string)
		stats.TopItems = append(stats.TopItems, domain.ItemCount{Variant: name, Count: int64(z.Score)})
	}
	return stats, nil
}
