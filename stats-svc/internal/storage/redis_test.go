package storage_test

import (
	"context"
	"testing"
	"time"

	"homecafe/stats-svc/internal/domain"
	"homecafe/stats-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsStore(t *testing.T) (*storage.StatsStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewStatsStore(client, time.Hour), mr
}

func order(id, date, total string, variants ...string) domain.OrderEvent {
	items := make([]domain.EventItem, 0, len(variants))
	for _, v := range variants {
		items = append(items, domain.EventItem{Variant: v})
	}
	return domain.OrderEvent{
		EventID: "ev-" + id,
		Type:    domain.EventOrderPlaced,
		OrderID: id,
		Date:    date,
		Items:   items,
		Total:   decimal.RequireFromString(total),
	}
}

func TestStatsStore_Daily(t *testing.T) {
	store, mr := setupStatsStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordPlaced(ctx, order("a1", "2026-10-17", "5.50", "Latte")))
	require.NoError(t, store.RecordPlaced(ctx, order("a2", "2026-10-17", "12.00", "Latte", "Mocha", "Croissant")))
	require.NoError(t, store.RecordPlaced(ctx, order("b1", "2026-10-16", "3.00", "Croissant")))
	require.NoError(t, store.RecordReady(ctx, domain.OrderEvent{Type: domain.EventOrderReady, OrderID: "a1", Date: "2026-10-17"}))

	stats, err := store.Daily(ctx, "2026-10-17", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Orders)
	assert.Equal(t, int64(1), stats.Ready)
	assert.Equal(t, "$17.50", stats.Sales)
	require.Len(t, stats.TopItems, 2)
	assert.Equal(t, domain.ItemCount{Variant: "Latte", Count: 2}, stats.TopItems[0])
	assert.Equal(t, int64(1), stats.TopItems[1].Count)

	assert.True(t, mr.Exists("stats:daily:2026-10-17"))
	assert.Equal(t, time.Hour, mr.TTL("stats:daily:2026-10-17"))
	assert.Equal(t, time.Hour, mr.TTL("stats:daily:2026-10-17:items"))
}

func TestStatsStore_DailyEmpty(t *testing.T) {
	store, _ := setupStatsStore(t)

	stats, err := store.Daily(context.Background(), "2026-01-01", 5)
	require.NoError(t, err)
	assert.Equal(t, domain.DailyStats{Date: "2026-01-01", Sales: "$0.00", TopItems: []domain.ItemCount{}}, stats)
}

func TestStatsStore_MarkProcessed(t *testing.T) {
	store, mr := setupStatsStore(t)
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "")
	require.NoError(t, err)
	assert.True(t, fresh)

	mr.FastForward(2 * time.Hour)
	fresh, err = store.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestStatsStore_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	store := storage.NewStatsStore(client, time.Hour)
	mr.Close()

	_, err = store.Daily(context.Background(), "2026-10-17", 5)
	assert.Error(t, err)
	assert.Error(t, store.RecordPlaced(context.Background(), order("a1", "2026-10-17", "1.00")))
}

func TestStatsStore_UnmarkProcessed(t *testing.T) {
	store, mr := setupStatsStore(t)
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "ev-3")
	require.NoError(t, err)
	require.True(t, fresh)

	require.NoError(t, store.UnmarkProcessed(ctx, "ev-3"))
	assert.False(t, mr.Exists("stats:event:ev-3"))
	assert.NoError(t, store.UnmarkProcessed(ctx, ""))

	fresh, err = store.MarkProcessed(ctx, "ev-3")
	require.NoError(t, err)
	assert.True(t, fresh)
}
