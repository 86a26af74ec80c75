package storage

import (
	"context"
	"fmt"

	"homecafe/config"
	"homecafe/order-svc/internal/domain"
)

// OrderStore is the set of operations both order log backends provide.
type OrderStore interface {
	Append(ctx context.Context, rec domain.OrderRecord) error
	MarkStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (domain.OrderRecord, error)
	Recent(ctx context.Context, n int) ([]domain.OrderRecord, error)
	ByDate(ctx context.Context, date string) ([]domain.OrderRecord, error)
	ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.OrderRecord, error)
	Exists(ctx context.Context, orderID string) (bool, error)
}

var (
	_ OrderStore = (*CSVOrderStore)(nil)
	_ OrderStore = (*PostgresOrderStore)(nil)
)

// OpenOrderStore returns the backend named by STORE_BACKEND. The returned
// close function releases its connections.
func OpenOrderStore(ctx context.Context, s *config.Settings) (OrderStore, func(), error) {
	switch s.StoreBackend {
	case "", "csv":
		return NewCSVOrderStore(s.OrdersFile), func() {}, nil
	case "postgres":
		db := config.MustInitPostgres(s)
		store := NewPostgresOrderStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", s.StoreBackend)
}
